package extractors

import (
	"strings"

	"github.com/ternarybob/reperio/internal/models"
)

// PostProcessor is one pluggable cleanup step applied to a raw record
// after parsing. Per-site heuristics (title splitting, known-bad prefix
// stripping) live here rather than inline in the extractors so each step
// stays independently testable against fixture data.
type PostProcessor func(models.RawJobRecord) models.RawJobRecord

// ApplyPostProcessors runs a chain of steps over every record
func ApplyPostProcessors(records []models.RawJobRecord, steps ...PostProcessor) []models.RawJobRecord {
	for i := range records {
		for _, step := range steps {
			records[i] = step(records[i])
		}
	}
	return records
}

// TrimFields collapses surrounding whitespace on every text field
func TrimFields(r models.RawJobRecord) models.RawJobRecord {
	r.Title = strings.TrimSpace(r.Title)
	r.Company = strings.TrimSpace(r.Company)
	r.Location = strings.TrimSpace(r.Location)
	r.Experience = strings.TrimSpace(r.Experience)
	r.Salary = strings.TrimSpace(r.Salary)
	r.ApplicationURL = strings.TrimSpace(r.ApplicationURL)
	return r
}

// SplitTitleAtCompany splits "Senior Engineer at Acme Corp" style titles
// into title and company when the company field is empty or a known
// placeholder. Feed sources often collapse both into one string.
func SplitTitleAtCompany(r models.RawJobRecord) models.RawJobRecord {
	if !strings.Contains(r.Title, " at ") {
		return r
	}
	if r.Company != "" && !isPlaceholderCompany(r.Company) {
		return r
	}
	parts := strings.SplitN(r.Title, " at ", 2)
	r.Title = strings.TrimSpace(parts[0])
	r.Company = strings.TrimSpace(parts[1])
	return r
}

// promoPrefixes are decorations job boards prepend to listing titles
var promoPrefixes = []string{
	"Urgent Hiring:",
	"Urgently hiring:",
	"Hot Job:",
	"Featured:",
	"New!",
	"⭐",
}

// StripPromoPrefixes removes promotional decorations from the title
func StripPromoPrefixes(r models.RawJobRecord) models.RawJobRecord {
	title := r.Title
	for changed := true; changed; {
		changed = false
		for _, prefix := range promoPrefixes {
			if strings.HasPrefix(strings.ToLower(title), strings.ToLower(prefix)) {
				title = strings.TrimSpace(title[len(prefix):])
				changed = true
			}
		}
	}
	r.Title = title
	return r
}

// DefaultMissingFields fills the free-text fields the normalizer prompts
// with so absent data reads consistently across sources
func DefaultMissingFields(r models.RawJobRecord) models.RawJobRecord {
	if r.Experience == "" {
		r.Experience = "Not specified"
	}
	if r.Salary == "" {
		r.Salary = "Not disclosed"
	}
	if r.Location == "" {
		r.Location = "Not specified"
	}
	return r
}

func isPlaceholderCompany(company string) bool {
	switch strings.ToLower(strings.TrimSpace(company)) {
	case "unknown", "unknown company", "n/a", "verified employer", "jooble verified employer":
		return true
	}
	return false
}

// standardChain is the cleanup every extractor applies before returning
func standardChain(records []models.RawJobRecord) []models.RawJobRecord {
	return ApplyPostProcessors(records, TrimFields, StripPromoPrefixes, SplitTitleAtCompany, DefaultMissingFields)
}
