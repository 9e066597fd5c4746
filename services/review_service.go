package services

import (
	"fmt"
	"log"
	"strings"

	"cv-portal-api/config"
	"cv-portal-api/models"

	"gorm.io/gorm"
)

// ReviewFeedback carries the six structured feedback sections of a review.
type ReviewFeedback struct {
	StructureFormat       string `json:"structure_format"`
	DomainRelevance       string `json:"domain_relevance"`
	DepthExplanation      string `json:"depth_explanation"`
	LanguageGrammar       string `json:"language_grammar"`
	ProjectImprovements   string `json:"project_improvements"`
	AdditionalSuggestions string `json:"additional_suggestions"`
}

func (f *ReviewFeedback) hasContent() bool {
	sections := []string{
		f.StructureFormat,
		f.DomainRelevance,
		f.DepthExplanation,
		f.LanguageGrammar,
		f.ProjectImprovements,
		f.AdditionalSuggestions,
	}
	for _, s := range sections {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// AssignedCV is a submission assigned to a reviewer, joined with that
// reviewer's existing review sections when present.
type AssignedCV struct {
	RollNo    string `gorm:"column:roll_no" json:"roll_no"`
	Name      string `gorm:"column:name" json:"name"`
	DriveLink string `gorm:"column:drive_link" json:"drive_link"`
	Email     string `gorm:"column:email" json:"email"`
	Status    int    `gorm:"column:status" json:"status"`

	StructureFormat       *string `gorm:"column:structure_format" json:"structure_format,omitempty"`
	DomainRelevance       *string `gorm:"column:domain_relevance" json:"domain_relevance,omitempty"`
	DepthExplanation      *string `gorm:"column:depth_explanation" json:"depth_explanation,omitempty"`
	LanguageGrammar       *string `gorm:"column:language_grammar" json:"language_grammar,omitempty"`
	ProjectImprovements   *string `gorm:"column:project_improvements" json:"project_improvements,omitempty"`
	AdditionalSuggestions *string `gorm:"column:additional_suggestions" json:"additional_suggestions,omitempty"`
}

// Reviewed reports whether this reviewer already has a review on file.
func (c *AssignedCV) Reviewed() bool {
	return c.StructureFormat != nil ||
		c.DomainRelevance != nil ||
		c.DepthExplanation != nil ||
		c.LanguageGrammar != nil ||
		c.ProjectImprovements != nil ||
		c.AdditionalSuggestions != nil
}

// ReviewService drives the review workflow: Pending(assigned) flips to
// Reviewed on a reviewer's first submission; later edits update the
// review row in place without touching the status.
type ReviewService struct {
	db     *gorm.DB
	notify func(to []string, subject, html string) error
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db, notify: config.SendMail}
}

type reviewerRow struct {
	Name     string  `gorm:"column:name"`
	Quota    int     `gorm:"column:quota"`
	LinkedIn *string `gorm:"column:linkedin"`
	Email    string  `gorm:"column:email"`
}

type submissionRow struct {
	Name       string  `gorm:"column:name"`
	Email      string  `gorm:"column:email"`
	DriveLink  string  `gorm:"column:drive_link"`
	AssignedTo *string `gorm:"column:assigned_to"`
}

// AssignedCVs returns the CVs currently assigned to the reviewer, capped
// at their quota, pending ones first.
func (s *ReviewService) AssignedCVs(reviewerName string) ([]AssignedCV, error) {
	reviewer, err := s.lookupReviewer(reviewerName)
	if err != nil {
		return nil, err
	}

	var cvs []AssignedCV
	err = retryRead(func() error {
		cvs = nil
		return s.db.Raw(`
SELECT u.roll_no, u.name, u.drive_link, u.email, u.status,
       r.structure_format, r.domain_relevance, r.depth_explanation,
       r.language_grammar, r.project_improvements, r.additional_suggestions
  FROM user_data u
  LEFT JOIN reviews_data r
    ON u.roll_no = r.roll_no
   AND r.reviewer_name = ?
 WHERE u.assigned_to = ?
 ORDER BY u.status ASC, u.id ASC
 LIMIT ?`, reviewer.Name, reviewer.Name, reviewer.Quota).Scan(&cvs).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load assigned CVs: %w", err)
	}
	return cvs, nil
}

// SubmitReview records feedback from a reviewer for a roll number. The
// first submission inserts the review and marks the CV reviewed; a
// repeat submission by the same reviewer updates the review in place.
// Returns true when an existing review was updated.
func (s *ReviewService) SubmitReview(reviewerName, rollNo string, fb ReviewFeedback) (bool, error) {
	if !fb.hasContent() {
		return false, ErrEmptyReview
	}

	reviewer, err := s.lookupReviewer(reviewerName)
	if err != nil {
		return false, err
	}

	var subs []submissionRow
	err = retryRead(func() error {
		subs = nil
		return s.db.Raw(
			"SELECT name, email, drive_link, assigned_to FROM user_data WHERE roll_no = ?", rollNo,
		).Scan(&subs).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to look up submission: %w", err)
	}
	if len(subs) == 0 {
		return false, ErrSubmissionNotFound
	}
	sub := subs[0]

	// The roll number comes from the request body; only the reviewer the
	// CV is assigned to may write or edit its review.
	if sub.AssignedTo == nil || !strings.EqualFold(*sub.AssignedTo, reviewer.Name) {
		return false, ErrNotAssigned
	}

	var existing int64
	err = retryRead(func() error {
		return s.db.Raw(
			"SELECT COUNT(*) FROM reviews_data WHERE roll_no = ? AND reviewer_name = ?",
			rollNo, reviewer.Name,
		).Scan(&existing).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to look up existing review: %w", err)
	}

	if existing > 0 {
		err = s.db.Exec(`
UPDATE reviews_data
   SET structure_format = ?, domain_relevance = ?, depth_explanation = ?,
       language_grammar = ?, project_improvements = ?, additional_suggestions = ?,
       reviewer_linkedin = ?
 WHERE roll_no = ? AND reviewer_name = ?`,
			fb.StructureFormat, fb.DomainRelevance, fb.DepthExplanation,
			fb.LanguageGrammar, fb.ProjectImprovements, fb.AdditionalSuggestions,
			reviewer.LinkedIn, rollNo, reviewer.Name,
		).Error
		if err != nil {
			return false, fmt.Errorf("failed to update review: %w", err)
		}
		return true, nil
	}

	var completed int64
	err = retryRead(func() error {
		return s.db.Raw(
			"SELECT COUNT(*) FROM reviews_data WHERE reviewer_name = ?", reviewer.Name,
		).Scan(&completed).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to count completed reviews: %w", err)
	}
	if int(completed) >= reviewer.Quota {
		return false, ErrQuotaExhausted
	}

	err = s.db.Exec(`
INSERT INTO reviews_data
  (roll_no, student_name, student_email, drive_link, reviewer_name,
   reviewer_linkedin, reviewer_email,
   structure_format, domain_relevance, depth_explanation,
   language_grammar, project_improvements, additional_suggestions)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rollNo, sub.Name, sub.Email, sub.DriveLink, reviewer.Name,
		reviewer.LinkedIn, nullable(reviewer.Email),
		fb.StructureFormat, fb.DomainRelevance, fb.DepthExplanation,
		fb.LanguageGrammar, fb.ProjectImprovements, fb.AdditionalSuggestions,
	).Error
	if err != nil {
		return false, fmt.Errorf("failed to insert review: %w", err)
	}

	err = s.db.Exec(
		"UPDATE user_data SET status = ? WHERE roll_no = ?",
		models.StatusReviewed, rollNo,
	).Error
	if err != nil {
		// The review row is committed; surface the status failure so the
		// caller can retry the transition.
		return false, fmt.Errorf("review saved but failed to mark submission reviewed: %w", err)
	}

	ClearStatsCache()
	s.sendReviewNotification(sub, rollNo, reviewer)
	return false, nil
}

func (s *ReviewService) lookupReviewer(name string) (*reviewerRow, error) {
	var rows []reviewerRow
	err := retryRead(func() error {
		rows = nil
		return s.db.Raw(
			"SELECT name, quota, linkedin, email FROM reviewer_data WHERE UPPER(name) = UPPER(?)", name,
		).Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up reviewer: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrReviewerNotFound
	}
	return &rows[0], nil
}

func (s *ReviewService) sendReviewNotification(sub submissionRow, rollNo string, reviewer *reviewerRow) {
	if s.notify == nil || sub.Email == "" {
		return
	}
	subject := "Your CV review is ready"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>%s has reviewed your CV (roll %s). Log in to the portal to read the feedback.</p>",
		sub.Name, reviewer.Name, rollNo,
	)
	if err := s.notify([]string{sub.Email}, subject, body); err != nil {
		// Best effort: the review is already saved.
		log.Printf("Warning: failed to send review notification for %s: %v", rollNo, err)
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
