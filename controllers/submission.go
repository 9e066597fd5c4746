// controllers/submission.go
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

// ===================== SUBMISSION MANAGEMENT =====================

type CreateSubmissionRequest struct {
	Name      string `json:"name" binding:"required"`
	RollNo    string `json:"roll_no" binding:"required"`
	Email     string `json:"email" binding:"required"`
	DriveLink string `json:"drive_link" binding:"required"`
	Domain    string `json:"domain" binding:"required"`
}

// CreateSubmission handles the public student form: one CV per roll
// number, queued as Pending for the next allocation run.
func CreateSubmission(c *gin.Context) {
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}
	if !utils.ValidateRollNo(req.RollNo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid roll number"})
		return
	}
	if !utils.ValidateDriveLink(req.DriveLink) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Drive link must be an http(s) URL"})
		return
	}
	if !models.ValidDomain(req.Domain) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown target profile"})
		return
	}

	err := services.NewSubmissionService(config.DB).Create(services.NewSubmission{
		Name:      utils.SanitizeInput(req.Name),
		RollNo:    utils.SanitizeInput(req.RollNo),
		Email:     utils.SanitizeInput(req.Email),
		DriveLink: utils.SanitizeInput(req.DriveLink),
		Domain:    req.Domain,
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateSubmission) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already submitted a CV for review"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "CV submitted successfully. You will receive an email once it has been reviewed.",
	})
}

// GetProfiles returns the selectable career-track profiles.
func GetProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profiles": models.DomainProfiles})
}

// GetSubmissions returns all submissions for the admin table.
func GetSubmissions(c *gin.Context) {
	var submissions []models.Submission
	query := config.DB

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if domain := c.Query("domain"); domain != "" {
		query = query.Where("domain = ?", models.NormalizeDomain(domain))
	}
	if assigned := c.Query("assigned_to"); assigned != "" {
		query = query.Where("assigned_to = ?", assigned)
	}

	if err := query.Order("id ASC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submissions": submissions})
}

type UpdateSubmissionRequest struct {
	Name       *string `json:"name"`
	RollNo     *string `json:"roll_no"`
	Email      *string `json:"email"`
	DriveLink  *string `json:"drive_link"`
	Status     *int    `json:"status"`
	Domain     *string `json:"domain"`
	AssignedTo *string `json:"assigned_to"`
}

// UpdateSubmission applies an admin table edit. Status and assignment
// can be rewritten freely here; this is the only path that moves a
// submission back out of the Reviewed state.
func UpdateSubmission(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var submission models.Submission
	if err := config.DB.First(&submission, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	var req UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = utils.SanitizeInput(*req.Name)
	}
	if req.RollNo != nil {
		updates["roll_no"] = utils.SanitizeInput(*req.RollNo)
	}
	if req.Email != nil {
		updates["email"] = utils.SanitizeInput(*req.Email)
	}
	if req.DriveLink != nil {
		updates["drive_link"] = utils.SanitizeInput(*req.DriveLink)
	}
	if req.Status != nil {
		if *req.Status != models.StatusSubmitted && *req.Status != models.StatusPending && *req.Status != models.StatusReviewed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		updates["status"] = *req.Status
	}
	if req.Domain != nil {
		if !models.ValidDomain(*req.Domain) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown target profile"})
			return
		}
		updates["domain"] = models.NormalizeDomain(*req.Domain)
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			updates["assigned_to"] = nil
		} else {
			updates["assigned_to"] = *req.AssignedTo
		}
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := config.DB.Model(&submission).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		return
	}

	services.ClearStatsCache()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Submission updated"})
}

// DeleteSubmission removes a submission row (admin table edit).
func DeleteSubmission(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	res := config.DB.Delete(&models.Submission{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete submission"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	services.ClearStatsCache()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Submission deleted"})
}
