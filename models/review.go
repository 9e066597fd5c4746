package models

import "time"

// Review holds a reviewer's structured feedback on a submission. The
// student contact fields are denormalized copies taken at submit time
// so the row stays readable after admin edits to user_data. A review is
// logically keyed by (roll_no, reviewer_name).
type Review struct {
	ID           int     `gorm:"primaryKey;column:id" json:"id"`
	RollNo       string  `gorm:"column:roll_no" json:"roll_no"`
	StudentName  string  `gorm:"column:student_name" json:"student_name"`
	StudentEmail string  `gorm:"column:student_email" json:"student_email"`
	DriveLink    string  `gorm:"column:drive_link" json:"drive_link"`
	ReviewerName string  `gorm:"column:reviewer_name" json:"reviewer_name"`
	ReviewerLink *string `gorm:"column:reviewer_linkedin" json:"reviewer_linkedin,omitempty"`
	ReviewerMail *string `gorm:"column:reviewer_email" json:"reviewer_email,omitempty"`

	StructureFormat       string `gorm:"column:structure_format;type:text" json:"structure_format"`
	DomainRelevance       string `gorm:"column:domain_relevance;type:text" json:"domain_relevance"`
	DepthExplanation      string `gorm:"column:depth_explanation;type:text" json:"depth_explanation"`
	LanguageGrammar       string `gorm:"column:language_grammar;type:text" json:"language_grammar"`
	ProjectImprovements   string `gorm:"column:project_improvements;type:text" json:"project_improvements"`
	AdditionalSuggestions string `gorm:"column:additional_suggestions;type:text" json:"additional_suggestions"`

	SubmittedAt time.Time `gorm:"column:submitted_at;autoCreateTime" json:"submitted_at"`
}

// TableName overrides
func (Review) TableName() string {
	return "reviews_data"
}

// HasContent reports whether at least one feedback section is filled in.
func (r *Review) HasContent() bool {
	sections := []string{
		r.StructureFormat,
		r.DomainRelevance,
		r.DepthExplanation,
		r.LanguageGrammar,
		r.ProjectImprovements,
		r.AdditionalSuggestions,
	}
	for _, s := range sections {
		if s != "" {
			return true
		}
	}
	return false
}
