package services

import (
	"fmt"
	"strings"

	"cv-portal-api/models"

	"gorm.io/gorm"
)

// SubmissionService handles student CV intake.
type SubmissionService struct {
	db *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{db: db}
}

// NewSubmission carries the student form fields.
type NewSubmission struct {
	Name      string
	RollNo    string
	Email     string
	DriveLink string
	Domain    string
}

// Create inserts a submission in the Pending state. The domain is
// normalized to its canonical code here, at write time, so matching
// never has to compare free-text variants. One CV per roll number: the
// existence check rejects duplicates (not race-proof, same as querying
// before inserting anywhere else in this codebase).
func (s *SubmissionService) Create(in NewSubmission) error {
	rollNo := strings.TrimSpace(in.RollNo)

	var count int64
	err := retryRead(func() error {
		return s.db.Raw("SELECT COUNT(*) FROM user_data WHERE roll_no = ?", rollNo).Scan(&count).Error
	})
	if err != nil {
		return fmt.Errorf("failed to check for existing submission: %w", err)
	}
	if count > 0 {
		return ErrDuplicateSubmission
	}

	err = s.db.Exec(
		"INSERT INTO user_data (name, roll_no, email, drive_link, status, domain) VALUES (?, ?, ?, ?, ?, ?)",
		strings.TrimSpace(in.Name),
		rollNo,
		strings.TrimSpace(in.Email),
		strings.TrimSpace(in.DriveLink),
		models.StatusPending,
		models.NormalizeDomain(in.Domain),
	).Error
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}
