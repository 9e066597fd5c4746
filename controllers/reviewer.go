package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"cv-portal-api/config"
	"cv-portal-api/models"
	"cv-portal-api/services"
	"cv-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// ===================== REVIEWER SELF-SERVICE =====================

// GetReviewerDashboard returns quota usage and profile for the caller.
func GetReviewerDashboard(c *gin.Context) {
	name, _ := c.Get("name")

	summary, err := services.NewReviewerService(config.DB).Summary(name.(string))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "dashboard": summary})
}

type UpdateLinkedInRequest struct {
	LinkedIn string `json:"linkedin"`
}

// UpdateLinkedIn sets or clears the caller's LinkedIn URL. The value is
// denormalized into future review rows, not past ones.
func UpdateLinkedIn(c *gin.Context) {
	name, _ := c.Get("name")

	var req UpdateLinkedInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.NewReviewerService(config.DB).UpdateLinkedIn(name.(string), req.LinkedIn); err != nil {
		if errors.Is(err, services.ErrReviewerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update LinkedIn profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "LinkedIn profile updated"})
}

// ===================== ADMIN REVIEWER MANAGEMENT =====================

// GetReviewers returns all reviewers with their derived completed
// counts for the admin table.
func GetReviewers(c *gin.Context) {
	type reviewerRow struct {
		ID        int     `gorm:"column:id" json:"id"`
		Name      string  `gorm:"column:name" json:"name"`
		Password  string  `gorm:"column:password" json:"password"`
		Quota     int     `gorm:"column:quota" json:"quota"`
		Completed int     `gorm:"column:completed" json:"completed"`
		Domains   string  `gorm:"column:domains" json:"domains"`
		LinkedIn  *string `gorm:"column:linkedin" json:"linkedin,omitempty"`
		Email     string  `gorm:"column:email" json:"email"`
	}

	var rows []reviewerRow
	err := config.DB.Raw(`
SELECT r.id, r.name, r.password, r.quota,
       COALESCE(rv.cnt, 0) AS completed,
       r.domains, r.linkedin, r.email
  FROM reviewer_data r
  LEFT JOIN (
      SELECT reviewer_name, COUNT(*) AS cnt
      FROM reviews_data
      GROUP BY reviewer_name
  ) rv ON rv.reviewer_name = r.name
 ORDER BY r.id ASC`).Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviewers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reviewers": rows})
}

type CreateReviewerRequest struct {
	Name     string   `json:"name" binding:"required"`
	Password string   `json:"password" binding:"required"`
	Quota    int      `json:"quota" binding:"required,min=1"`
	Domains  []string `json:"domains" binding:"required,min=1"`
	LinkedIn string   `json:"linkedin"`
	Email    string   `json:"email"`
}

// CreateReviewer inserts a reviewer with a normalized domain set.
func CreateReviewer(c *gin.Context) {
	var req CreateReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, d := range req.Domains {
		if !models.ValidDomain(d) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown domain: " + d})
			return
		}
	}
	if req.Email != "" && !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}

	reviewer := models.Reviewer{
		Name:     utils.SanitizeInput(req.Name),
		Password: req.Password,
		Quota:    req.Quota,
		Domains:  models.JoinDomains(req.Domains),
		Email:    utils.SanitizeInput(req.Email),
	}
	if linkedin := utils.SanitizeInput(req.LinkedIn); linkedin != "" {
		reviewer.LinkedIn = &linkedin
	}

	if err := config.DB.Create(&reviewer).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create reviewer (name must be unique)"})
		return
	}

	services.ClearStatsCache()
	c.JSON(http.StatusCreated, gin.H{"success": true, "reviewer": reviewer})
}

type UpdateReviewerRequest struct {
	Name     *string   `json:"name"`
	Password *string   `json:"password"`
	Quota    *int      `json:"quota"`
	Domains  *[]string `json:"domains"`
	LinkedIn *string   `json:"linkedin"`
	Email    *string   `json:"email"`
}

// UpdateReviewer applies an admin table edit.
func UpdateReviewer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reviewer ID"})
		return
	}

	var reviewer models.Reviewer
	if err := config.DB.First(&reviewer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
		return
	}

	var req UpdateReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = utils.SanitizeInput(*req.Name)
	}
	if req.Password != nil {
		updates["password"] = *req.Password
	}
	if req.Quota != nil {
		if *req.Quota < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quota must not be negative"})
			return
		}
		updates["quota"] = *req.Quota
	}
	if req.Domains != nil {
		for _, d := range *req.Domains {
			if !models.ValidDomain(d) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown domain: " + d})
				return
			}
		}
		updates["domains"] = models.JoinDomains(*req.Domains)
	}
	if req.LinkedIn != nil {
		if *req.LinkedIn == "" {
			updates["linkedin"] = nil
		} else {
			updates["linkedin"] = utils.SanitizeInput(*req.LinkedIn)
		}
	}
	if req.Email != nil {
		updates["email"] = utils.SanitizeInput(*req.Email)
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := config.DB.Model(&reviewer).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reviewer"})
		return
	}

	services.ClearStatsCache()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reviewer updated"})
}

// DeleteReviewer removes a reviewer row (admin table edit). Submissions
// already assigned to the name keep their assignment string.
func DeleteReviewer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reviewer ID"})
		return
	}

	res := config.DB.Delete(&models.Reviewer{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reviewer"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
		return
	}

	services.ClearStatsCache()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reviewer deleted"})
}
