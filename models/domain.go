package models

import "strings"

// Canonical domain codes. Historical data carries free-text variants
// ("Finance-Quant", "Finance/Quant"), so every comparison goes through
// NormalizeDomain and strings are normalized once at write time.
const (
	DomainData         = "data"
	DomainSoftware     = "software"
	DomainConsult      = "consult"
	DomainFinanceQuant = "finance-quant"
	DomainProduct      = "product"
	DomainFMCG         = "fmcg"
	DomainCore         = "core"
)

// DomainProfiles lists the selectable career-track profiles in display form.
var DomainProfiles = []string{
	"Data",
	"Software",
	"Consult",
	"Finance-Quant",
	"Product",
	"FMCG",
	"Core",
}

// NormalizeDomain maps a free-text profile string to its canonical code:
// trimmed, lowercased, with "/" treated as "-".
func NormalizeDomain(domain string) string {
	code := strings.ToLower(strings.TrimSpace(domain))
	return strings.ReplaceAll(code, "/", "-")
}

// ValidDomain reports whether the string normalizes to a known code.
func ValidDomain(domain string) bool {
	code := NormalizeDomain(domain)
	for _, p := range DomainProfiles {
		if NormalizeDomain(p) == code {
			return true
		}
	}
	return false
}

// ParseDomains splits a comma-joined affiliation string into canonical
// codes, dropping empty entries.
func ParseDomains(domains string) []string {
	parts := strings.Split(domains, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if code := NormalizeDomain(p); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// JoinDomains normalizes each entry and joins them back into the stored
// comma-separated form.
func JoinDomains(domains []string) string {
	codes := make([]string, 0, len(domains))
	for _, d := range domains {
		if code := NormalizeDomain(d); code != "" {
			codes = append(codes, code)
		}
	}
	return strings.Join(codes, ",")
}
