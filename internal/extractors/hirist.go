package extractors

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/httpclient"
	"github.com/ternarybob/reperio/internal/models"
)

const hiristSearchAPI = "https://jobseeker-api.hirist.tech/api/v1/search/jobs"

// hiristResponse mirrors the subset of the search API payload we read
type hiristResponse struct {
	Jobs []hiristJob `json:"jobs"`
}

type hiristJob struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	MinExp    int    `json:"min"`
	MaxExp    int    `json:"max"`
	Locations []struct {
		Name string `json:"name"`
	} `json:"locations"`
	CompanyData struct {
		CompanyName string `json:"companyName"`
	} `json:"companyData"`
}

// HiristExtractor queries the hirist search API. The endpoint ignores
// free-text location filters, so location matching happens client side
// against the listing's own location names.
type HiristExtractor struct {
	client   *httpclient.Client
	logger   arbor.ILogger
	endpoint string
}

// NewHiristExtractor creates the hirist API extractor
func NewHiristExtractor(client *httpclient.Client, logger arbor.ILogger) *HiristExtractor {
	return &HiristExtractor{
		client:   client,
		logger:   logger,
		endpoint: hiristSearchAPI,
	}
}

// Name returns the canonical source identifier
func (e *HiristExtractor) Name() string { return "hirist" }

// Extract queries the search API and filters results by location
func (e *HiristExtractor) Extract(ctx context.Context, role, location string) ([]models.RawJobRecord, []string) {
	params := url.Values{
		"query":    {role},
		"pageNo":   {"0"},
		"pageSize": {"50"},
	}

	var resp hiristResponse
	target := e.endpoint + "?" + params.Encode()
	if err := e.client.GetJSON(ctx, target, nil, &resp); err != nil {
		return nil, []string{fmt.Sprintf("hirist: %v", err)}
	}

	wantLocation := strings.ToLower(strings.TrimSpace(location))

	var records []models.RawJobRecord
	for _, job := range resp.Jobs {
		locations := make([]string, 0, len(job.Locations))
		for _, l := range job.Locations {
			locations = append(locations, l.Name)
		}
		joined := strings.Join(locations, ", ")

		if wantLocation != "" && !matchesLocation(joined, wantLocation) {
			continue
		}

		records = append(records, models.RawJobRecord{
			Title:          job.Title,
			Company:        job.CompanyData.CompanyName,
			Location:       joined,
			Experience:     formatExperienceRange(job.MinExp, job.MaxExp),
			Salary:         "Not disclosed",
			ApplicationURL: fmt.Sprintf("https://www.hirist.tech/j/%d", job.ID),
			SourcePlatform: "Hirist",
		})
	}

	e.logger.Debug().
		Str("source", e.Name()).
		Int("fetched", len(resp.Jobs)).
		Int("records", len(records)).
		Msg("Hirist extraction complete")

	return standardChain(records), nil
}

// matchesLocation accepts remote listings and substring location hits
func matchesLocation(listingLocations, want string) bool {
	lower := strings.ToLower(listingLocations)
	if strings.Contains(lower, "remote") || strings.Contains(lower, "anywhere") {
		return true
	}
	return strings.Contains(lower, want)
}

// formatExperienceRange renders the min/max years the way listings
// display them
func formatExperienceRange(min, max int) string {
	switch {
	case min == 0 && max == 0:
		return "Not specified"
	case max <= min:
		return fmt.Sprintf("%d+ years", min)
	default:
		return fmt.Sprintf("%d-%d years", min, max)
	}
}
