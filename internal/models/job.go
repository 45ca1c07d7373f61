package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Application status values
const (
	StatusNotApplied = "Not Applied"
	StatusApplied    = "Applied"
)

// RawJobRecord is the as-scraped output of one extractor invocation.
// Records are immutable once produced and consumed exactly once by the
// normalizer; duplicates across extractors are expected and resolved
// downstream by URL deduplication.
type RawJobRecord struct {
	Title          string `json:"raw_title"`
	Company        string `json:"raw_company"`
	Location       string `json:"raw_location"`
	Experience     string `json:"raw_experience"` // Free text, "Not specified" when unknown
	Salary         string `json:"raw_salary"`     // Free text, "Not disclosed" when unknown
	ApplicationURL string `json:"application_url"`
	Description    string `json:"raw_description,omitempty"` // Optional teaser when the source exposes one
	SourcePlatform string `json:"source_platform"`
}

// NormalizedJobRecord is the canonical job listing produced by LLM
// normalization. Structural validity is enforced; semantic correctness of
// LLM-filled fields is best effort.
type NormalizedJobRecord struct {
	ID             string `json:"id"`
	JobTitle       string `json:"job_title" validate:"required"`
	CompanyName    string `json:"company_name" validate:"required"`
	Location       string `json:"location"`
	Source         string `json:"source"`
	ExperienceMin  int    `json:"experience_min" validate:"gte=0"`
	ExperienceMax  int    `json:"experience_max" validate:"gte=0"`
	SalaryMin      *int   `json:"salary_min"`
	SalaryMax      *int   `json:"salary_max"`
	ApplicationURL string `json:"application_url"`
	Description    string `json:"description"`
	Salary         string `json:"salary"` // Display string, "Not disclosed" when unknown
	Posted         string `json:"posted"` // Display string, e.g. "Recently"
	Status         string `json:"status"`
}

var validate = validator.New()

// Validate checks structural invariants and repairs the recoverable ones:
// swapped experience bounds are reordered, negative salary bounds dropped,
// missing display fields defaulted. Returns an error only when the record
// is unusable (empty title or company).
func (r *NormalizedJobRecord) Validate() error {
	r.JobTitle = strings.TrimSpace(r.JobTitle)
	r.CompanyName = strings.TrimSpace(r.CompanyName)

	if err := validate.Struct(r); err != nil {
		if r.JobTitle == "" || r.CompanyName == "" {
			return fmt.Errorf("record missing title or company: %w", err)
		}
		// Non-negative bounds are repairable below
	}

	if r.ExperienceMin < 0 {
		r.ExperienceMin = 0
	}
	if r.ExperienceMax < 0 {
		r.ExperienceMax = 0
	}
	if r.ExperienceMax < r.ExperienceMin {
		r.ExperienceMin, r.ExperienceMax = r.ExperienceMax, r.ExperienceMin
	}
	if r.SalaryMin != nil && *r.SalaryMin < 0 {
		r.SalaryMin = nil
	}
	if r.SalaryMax != nil && *r.SalaryMax < 0 {
		r.SalaryMax = nil
	}
	if r.Salary == "" {
		r.Salary = "Not disclosed"
	}
	if r.Posted == "" {
		r.Posted = "Recently"
	}
	if r.Status != StatusApplied {
		r.Status = StatusNotApplied
	}
	return nil
}

// EnsureID assigns the given identifier when the normalizer omitted one
func (r *NormalizedJobRecord) EnsureID(generate func() string) {
	if strings.TrimSpace(r.ID) == "" {
		r.ID = generate()
	}
}
