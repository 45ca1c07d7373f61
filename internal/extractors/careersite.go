package extractors

import (
	"context"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/httpclient"
	"github.com/ternarybob/reperio/internal/models"
)

// CareerSiteExtractor queries company career sites directly through
// their ATS-hosted JSON APIs. Which companies to query comes from the
// source catalog, so coverage grows by config edit rather than code.
// Career-site listings get no keyword filter server side for Greenhouse
// and Lever, so role matching happens against the listing title.
type CareerSiteExtractor struct {
	client    *httpclient.Client
	catalog   *Catalog
	logger    arbor.ILogger
	converter *htmltomarkdown.Converter
}

// NewCareerSiteExtractor creates the ATS career-site extractor
func NewCareerSiteExtractor(client *httpclient.Client, catalog *Catalog, logger arbor.ILogger) *CareerSiteExtractor {
	return &CareerSiteExtractor{
		client:    client,
		catalog:   catalog,
		logger:    logger,
		converter: htmltomarkdown.NewConverter("", true, nil),
	}
}

// Name returns the canonical source identifier
func (e *CareerSiteExtractor) Name() string { return "careersite" }

// Extract queries every cataloged career site and merges the listings.
// A single unreachable company does not fail the others; its error is
// collected as a note.
func (e *CareerSiteExtractor) Extract(ctx context.Context, role, location string) ([]models.RawJobRecord, []string) {
	var records []models.RawJobRecord
	var notes []string

	for _, company := range e.catalog.CareerSites.Greenhouse {
		found, err := e.extractGreenhouse(ctx, company, role)
		if err != nil {
			notes = append(notes, fmt.Sprintf("careersite: greenhouse/%s: %v", company, err))
			continue
		}
		records = append(records, found...)
	}

	for _, company := range e.catalog.CareerSites.Lever {
		found, err := e.extractLever(ctx, company, role)
		if err != nil {
			notes = append(notes, fmt.Sprintf("careersite: lever/%s: %v", company, err))
			continue
		}
		records = append(records, found...)
	}

	for _, company := range e.catalog.CareerSites.Workday {
		found, err := e.extractWorkday(ctx, company, role)
		if err != nil {
			notes = append(notes, fmt.Sprintf("careersite: workday/%s: %v", company.Tenant, err))
			continue
		}
		records = append(records, found...)
	}

	e.logger.Debug().
		Str("source", e.Name()).
		Int("records", len(records)).
		Int("notes", len(notes)).
		Msg("Career site extraction complete")

	return standardChain(records), notes
}

type greenhouseResponse struct {
	Jobs []struct {
		Title       string `json:"title"`
		AbsoluteURL string `json:"absolute_url"`
		Location    struct {
			Name string `json:"name"`
		} `json:"location"`
	} `json:"jobs"`
}

func (e *CareerSiteExtractor) extractGreenhouse(ctx context.Context, company, role string) ([]models.RawJobRecord, error) {
	target := fmt.Sprintf("https://boards-api.greenhouse.io/v1/boards/%s/jobs", company)

	var resp greenhouseResponse
	if err := e.client.GetJSON(ctx, target, nil, &resp); err != nil {
		return nil, err
	}

	var records []models.RawJobRecord
	for _, job := range resp.Jobs {
		if !titleMatchesRole(job.Title, role) {
			continue
		}
		records = append(records, models.RawJobRecord{
			Title:          job.Title,
			Company:        titleCase(company),
			Location:       job.Location.Name,
			Experience:     "Not specified",
			Salary:         "Not disclosed",
			ApplicationURL: job.AbsoluteURL,
			SourcePlatform: "CareerSite",
		})
	}
	return records, nil
}

type leverPosting struct {
	Text       string `json:"text"`
	HostedURL  string `json:"hostedUrl"`
	Categories struct {
		Location   string `json:"location"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
	DescriptionHTML string `json:"description"`
}

func (e *CareerSiteExtractor) extractLever(ctx context.Context, company, role string) ([]models.RawJobRecord, error) {
	target := fmt.Sprintf("https://api.lever.co/v0/postings/%s?mode=json", company)

	var postings []leverPosting
	if err := e.client.GetJSON(ctx, target, nil, &postings); err != nil {
		return nil, err
	}

	var records []models.RawJobRecord
	for _, posting := range postings {
		if !titleMatchesRole(posting.Text, role) {
			continue
		}
		records = append(records, models.RawJobRecord{
			Title:          posting.Text,
			Company:        titleCase(company),
			Location:       posting.Categories.Location,
			Experience:     "Not specified",
			Salary:         "Not disclosed",
			ApplicationURL: posting.HostedURL,
			Description:    e.descriptionTeaser(posting.DescriptionHTML),
			SourcePlatform: "CareerSite",
		})
	}
	return records, nil
}

type workdayResponse struct {
	JobPostings []struct {
		Title         string `json:"title"`
		ExternalPath  string `json:"externalPath"`
		LocationsText string `json:"locationsText"`
	} `json:"jobPostings"`
}

func (e *CareerSiteExtractor) extractWorkday(ctx context.Context, company WorkdayCompany, role string) ([]models.RawJobRecord, error) {
	target := fmt.Sprintf("https://%s.%s/wday/cxs/%s/%s/jobs",
		company.Tenant, company.Host, company.Tenant, company.Site)

	payload := map[string]interface{}{
		"appliedFacets": map[string]interface{}{},
		"limit":         20,
		"offset":        0,
		"searchText":    role,
	}

	var resp workdayResponse
	if err := e.client.PostJSON(ctx, target, payload, nil, &resp); err != nil {
		return nil, err
	}

	base := fmt.Sprintf("https://%s.%s/en-US/%s", company.Tenant, company.Host, company.Site)

	var records []models.RawJobRecord
	for _, job := range resp.JobPostings {
		records = append(records, models.RawJobRecord{
			Title:          job.Title,
			Company:        titleCase(company.Tenant),
			Location:       job.LocationsText,
			Experience:     "Not specified",
			Salary:         "Not disclosed",
			ApplicationURL: base + job.ExternalPath,
			SourcePlatform: "CareerSite",
		})
	}
	return records, nil
}

// descriptionTeaser converts posting HTML to markdown and truncates it
// to a short teaser for the normalizer prompt
func (e *CareerSiteExtractor) descriptionTeaser(html string) string {
	if html == "" {
		return ""
	}
	markdown, err := e.converter.ConvertString(html)
	if err != nil {
		return ""
	}
	markdown = strings.TrimSpace(markdown)
	if len(markdown) > 400 {
		markdown = markdown[:400] + "…"
	}
	return markdown
}

// titleCase uppercases the first letter of a catalog company slug
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// titleMatchesRole requires every role keyword to appear in the title
func titleMatchesRole(title, role string) bool {
	lowerTitle := strings.ToLower(title)
	for _, word := range strings.Fields(strings.ToLower(role)) {
		if !strings.Contains(lowerTitle, word) {
			return false
		}
	}
	return true
}
