package models

import "time"

// Submission statuses. New submissions enter the queue directly at
// StatusPending; StatusSubmitted only appears on legacy rows and via
// manual admin edits.
const (
	StatusSubmitted = 0
	StatusPending   = 1
	StatusReviewed  = 2
)

// Submission represents a student's CV waiting for (or holding) a review.
type Submission struct {
	ID          int       `gorm:"primaryKey;column:id" json:"id"`
	Name        string    `gorm:"column:name" json:"name"`
	RollNo      string    `gorm:"column:roll_no" json:"roll_no"`
	Email       string    `gorm:"column:email" json:"email"`
	DriveLink   string    `gorm:"column:drive_link" json:"drive_link"`
	Status      int       `gorm:"column:status;default:1" json:"status"`
	Domain      string    `gorm:"column:domain" json:"domain"`
	AssignedTo  *string   `gorm:"column:assigned_to" json:"assigned_to,omitempty"`
	SubmittedAt time.Time `gorm:"column:submitted_at;autoCreateTime" json:"submitted_at"`
}

// TableName overrides
func (Submission) TableName() string {
	return "user_data"
}

// IsReviewed reports whether a review has been recorded for this submission.
func (s *Submission) IsReviewed() bool {
	return s.Status == StatusReviewed
}

// IsAssigned reports whether a reviewer has claimed this submission.
func (s *Submission) IsAssigned() bool {
	return s.AssignedTo != nil && *s.AssignedTo != ""
}

// StatusLabel returns a human-readable status name.
func StatusLabel(status int) string {
	switch status {
	case StatusSubmitted:
		return "Submitted"
	case StatusPending:
		return "Pending Review"
	case StatusReviewed:
		return "Reviewed"
	default:
		return "Unknown"
	}
}
