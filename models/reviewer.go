package models

// Reviewer represents a senior who reviews CVs against a quota.
// Domains holds one or more comma-joined canonical domain codes
// (see NormalizeDomain); lookups by name are case-insensitive.
type Reviewer struct {
	ID       int     `gorm:"primaryKey;column:id" json:"id"`
	Name     string  `gorm:"column:name;unique" json:"name"`
	Password string  `gorm:"column:password" json:"-"`
	Quota    int     `gorm:"column:quota" json:"quota"`
	Domains  string  `gorm:"column:domains" json:"domains"`
	LinkedIn *string `gorm:"column:linkedin" json:"linkedin,omitempty"`
	Email    string  `gorm:"column:email" json:"email"`
}

// TableName overrides
func (Reviewer) TableName() string {
	return "reviewer_data"
}

// DomainCodes returns the reviewer's affiliation as a canonical code set.
func (r *Reviewer) DomainCodes() []string {
	return ParseDomains(r.Domains)
}

// CoversDomain reports whether the reviewer's affiliation contains the
// given domain (both sides compared as canonical codes).
func (r *Reviewer) CoversDomain(domain string) bool {
	code := NormalizeDomain(domain)
	for _, d := range r.DomainCodes() {
		if d == code {
			return true
		}
	}
	return false
}
