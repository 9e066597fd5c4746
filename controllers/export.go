package controllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"cv-portal-api/config"
	"cv-portal-api/models"

	"github.com/gin-gonic/gin"
)

// ===================== CSV EXPORT =====================

// ExportTable streams one of the three tables as a CSV download:
// /admin/export/submissions, /admin/export/reviewers, /admin/export/reviews.
func ExportTable(c *gin.Context) {
	table := c.Param("table")

	var filename string
	var header []string
	var rows [][]string

	switch table {
	case "submissions":
		var submissions []models.Submission
		if err := config.DB.Order("id ASC").Find(&submissions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
			return
		}
		filename = "user_data.csv"
		header = []string{"id", "name", "roll_no", "email", "drive_link", "status", "domain", "assigned_to", "submitted_at"}
		for _, s := range submissions {
			assigned := ""
			if s.AssignedTo != nil {
				assigned = *s.AssignedTo
			}
			rows = append(rows, []string{
				strconv.Itoa(s.ID), s.Name, s.RollNo, s.Email, s.DriveLink,
				models.StatusLabel(s.Status), s.Domain, assigned,
				s.SubmittedAt.Format(time.RFC3339),
			})
		}

	case "reviewers":
		var reviewers []models.Reviewer
		if err := config.DB.Order("id ASC").Find(&reviewers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviewers"})
			return
		}
		filename = "reviewer_data.csv"
		header = []string{"id", "name", "quota", "domains", "linkedin", "email"}
		for _, r := range reviewers {
			linkedin := ""
			if r.LinkedIn != nil {
				linkedin = *r.LinkedIn
			}
			rows = append(rows, []string{
				strconv.Itoa(r.ID), r.Name, strconv.Itoa(r.Quota), r.Domains, linkedin, r.Email,
			})
		}

	case "reviews":
		var reviews []models.Review
		if err := config.DB.Order("id ASC").Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		filename = "reviews_data.csv"
		header = []string{
			"id", "roll_no", "student_name", "student_email", "reviewer_name",
			"structure_format", "domain_relevance", "depth_explanation",
			"language_grammar", "project_improvements", "additional_suggestions",
			"submitted_at",
		}
		for _, r := range reviews {
			rows = append(rows, []string{
				strconv.Itoa(r.ID), r.RollNo, r.StudentName, r.StudentEmail, r.ReviewerName,
				r.StructureFormat, r.DomainRelevance, r.DepthExplanation,
				r.LanguageGrammar, r.ProjectImprovements, r.AdditionalSuggestions,
				r.SubmittedAt.Format(time.RFC3339),
			})
		}

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown table (use submissions, reviewers or reviews)"})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := writeCSV(c.Writer, header, rows); err != nil {
		// Headers are already sent; the download is truncated.
		log.Printf("Failed to stream %s export: %v", table, err)
	}
}

func writeCSV(out io.Writer, header []string, rows [][]string) error {
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
