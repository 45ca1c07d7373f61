package extractors

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/httpclient"
	"github.com/ternarybob/reperio/internal/models"
)

const cutshortGraphQL = "https://cutshort.io/api/graphql"

// cutshortQuery is the persisted search operation the public site issues
const cutshortQuery = `query SearchJobs($filters: JobSearchFilters!, $limit: Int!) {
  searchJobs(filters: $filters, limit: $limit) {
    jobs {
      title
      slug
      company { name }
      locations
      minExperience
      maxExperience
      salaryRange
    }
  }
}`

type cutshortResponse struct {
	Data struct {
		SearchJobs struct {
			Jobs []cutshortJob `json:"jobs"`
		} `json:"searchJobs"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type cutshortJob struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Company struct {
		Name string `json:"name"`
	} `json:"company"`
	Locations     []string `json:"locations"`
	MinExperience int      `json:"minExperience"`
	MaxExperience int      `json:"maxExperience"`
	SalaryRange   string   `json:"salaryRange"`
}

// CutshortExtractor issues the site's GraphQL search operation directly
type CutshortExtractor struct {
	client   *httpclient.Client
	logger   arbor.ILogger
	endpoint string
}

// NewCutshortExtractor creates the cutshort GraphQL extractor
func NewCutshortExtractor(client *httpclient.Client, logger arbor.ILogger) *CutshortExtractor {
	return &CutshortExtractor{
		client:   client,
		logger:   logger,
		endpoint: cutshortGraphQL,
	}
}

// Name returns the canonical source identifier
func (e *CutshortExtractor) Name() string { return "cutshort" }

// Extract posts the search operation and maps listings to raw records
func (e *CutshortExtractor) Extract(ctx context.Context, role, location string) ([]models.RawJobRecord, []string) {
	payload := map[string]interface{}{
		"query": cutshortQuery,
		"variables": map[string]interface{}{
			"filters": map[string]interface{}{
				"keywords":  role,
				"locations": []string{location},
			},
			"limit": 50,
		},
	}

	var resp cutshortResponse
	if err := e.client.PostJSON(ctx, e.endpoint, payload, nil, &resp); err != nil {
		return nil, []string{fmt.Sprintf("cutshort: %v", err)}
	}
	if len(resp.Errors) > 0 {
		return nil, []string{fmt.Sprintf("cutshort: graphql error: %s", resp.Errors[0].Message)}
	}

	var records []models.RawJobRecord
	for _, job := range resp.Data.SearchJobs.Jobs {
		records = append(records, models.RawJobRecord{
			Title:          job.Title,
			Company:        job.Company.Name,
			Location:       strings.Join(job.Locations, ", "),
			Experience:     formatExperienceRange(job.MinExperience, job.MaxExperience),
			Salary:         job.SalaryRange,
			ApplicationURL: fmt.Sprintf("https://cutshort.io/job/%s", job.Slug),
			SourcePlatform: "Cutshort",
		})
	}

	e.logger.Debug().
		Str("source", e.Name()).
		Int("records", len(records)).
		Msg("Cutshort extraction complete")

	return standardChain(records), nil
}
