package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ReviewerSummary is the reviewer dashboard payload: quota, progress and
// profile fields. Completed is derived by counting review rows, never
// stored on the reviewer record.
type ReviewerSummary struct {
	Name      string  `json:"name"`
	Quota     int     `json:"quota"`
	Completed int     `json:"completed"`
	Remaining int     `json:"remaining"`
	Domains   string  `json:"domains"`
	LinkedIn  *string `json:"linkedin,omitempty"`
	Email     string  `json:"email"`
}

// ReviewerService handles reviewer profile reads and self-service edits.
type ReviewerService struct {
	db *gorm.DB
}

func NewReviewerService(db *gorm.DB) *ReviewerService {
	return &ReviewerService{db: db}
}

// Summary returns a reviewer's quota usage and profile, matched by name
// case-insensitively.
func (s *ReviewerService) Summary(name string) (*ReviewerSummary, error) {
	type row struct {
		Name     string  `gorm:"column:name"`
		Quota    int     `gorm:"column:quota"`
		Domains  string  `gorm:"column:domains"`
		LinkedIn *string `gorm:"column:linkedin"`
		Email    string  `gorm:"column:email"`
	}

	var rows []row
	err := retryRead(func() error {
		rows = nil
		return s.db.Raw(
			"SELECT name, quota, domains, linkedin, email FROM reviewer_data WHERE UPPER(name) = UPPER(?)", name,
		).Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load reviewer: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrReviewerNotFound
	}
	r := rows[0]

	var completed int64
	err = retryRead(func() error {
		return s.db.Raw(
			"SELECT COUNT(*) FROM reviews_data WHERE reviewer_name = ?", r.Name,
		).Scan(&completed).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count completed reviews: %w", err)
	}

	return &ReviewerSummary{
		Name:      r.Name,
		Quota:     r.Quota,
		Completed: int(completed),
		Remaining: r.Quota - int(completed),
		Domains:   r.Domains,
		LinkedIn:  r.LinkedIn,
		Email:     r.Email,
	}, nil
}

// UpdateLinkedIn sets or clears a reviewer's LinkedIn URL.
func (s *ReviewerService) UpdateLinkedIn(name, url string) error {
	var value *string
	if trimmed := strings.TrimSpace(url); trimmed != "" {
		value = &trimmed
	}

	res := s.db.Exec("UPDATE reviewer_data SET linkedin = ? WHERE UPPER(name) = UPPER(?)", value, name)
	if res.Error != nil {
		return fmt.Errorf("failed to update linkedin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrReviewerNotFound
	}
	return nil
}
