package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"cv-portal-api/config"
	"cv-portal-api/models"
	"cv-portal-api/services"

	"github.com/gin-gonic/gin"
)

// ===================== REVIEW WORKFLOW =====================

// GetAssignedCVs lists the CVs assigned to the calling reviewer along
// with any feedback they already wrote, capped at their quota.
func GetAssignedCVs(c *gin.Context) {
	name, _ := c.Get("name")

	cvs, err := services.NewReviewService(config.DB).AssignedCVs(name.(string))
	if err != nil {
		if errors.Is(err, services.ErrReviewerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assigned CVs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "cvs": cvs})
}

type SubmitReviewRequest struct {
	RollNo   string                  `json:"roll_no" binding:"required"`
	Feedback services.ReviewFeedback `json:"feedback" binding:"required"`
}

// SubmitReview records feedback. A first submission flips the CV to
// Reviewed and notifies the student; resubmitting edits in place.
func SubmitReview(c *gin.Context) {
	name, _ := c.Get("name")

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := services.NewReviewService(config.DB).SubmitReview(name.(string), req.RollNo, req.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyReview):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter some feedback before submitting"})
		case errors.Is(err, services.ErrSubmissionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		case errors.Is(err, services.ErrReviewerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
		case errors.Is(err, services.ErrNotAssigned):
			c.JSON(http.StatusForbidden, gin.H{"error": "This CV is not assigned to you"})
		case errors.Is(err, services.ErrQuotaExhausted):
			c.JSON(http.StatusForbidden, gin.H{"error": "You have completed all your assigned reviews"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		}
		return
	}

	message := "Review submitted"
	if updated {
		message = "Review updated"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated, "message": message})
}

// ===================== ADMIN REVIEW MANAGEMENT =====================

// GetReviews returns all review rows for the admin table.
func GetReviews(c *gin.Context) {
	var reviews []models.Review
	query := config.DB

	if reviewer := c.Query("reviewer"); reviewer != "" {
		query = query.Where("reviewer_name = ?", reviewer)
	}
	if rollNo := c.Query("roll_no"); rollNo != "" {
		query = query.Where("roll_no = ?", rollNo)
	}

	if err := query.Order("id ASC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
}

type UpdateReviewRequest struct {
	RollNo       *string                  `json:"roll_no"`
	StudentEmail *string                  `json:"student_email"`
	ReviewerLink *string                  `json:"reviewer_linkedin"`
	Feedback     *services.ReviewFeedback `json:"feedback"`
}

// UpdateReview applies an admin table edit to a review row.
func UpdateReview(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var review models.Review
	if err := config.DB.First(&review, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.RollNo != nil {
		updates["roll_no"] = *req.RollNo
	}
	if req.StudentEmail != nil {
		updates["student_email"] = *req.StudentEmail
	}
	if req.ReviewerLink != nil {
		if *req.ReviewerLink == "" {
			updates["reviewer_linkedin"] = nil
		} else {
			updates["reviewer_linkedin"] = *req.ReviewerLink
		}
	}
	if req.Feedback != nil {
		updates["structure_format"] = req.Feedback.StructureFormat
		updates["domain_relevance"] = req.Feedback.DomainRelevance
		updates["depth_explanation"] = req.Feedback.DepthExplanation
		updates["language_grammar"] = req.Feedback.LanguageGrammar
		updates["project_improvements"] = req.Feedback.ProjectImprovements
		updates["additional_suggestions"] = req.Feedback.AdditionalSuggestions
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := config.DB.Model(&review).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review updated"})
}

// DeleteReview removes a review row. The submission's Reviewed status is
// left untouched; reverting it is a separate admin edit.
func DeleteReview(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	res := config.DB.Delete(&models.Review{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	services.ClearStatsCache()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
}
