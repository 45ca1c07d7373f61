package extractors

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/httpclient"
	"github.com/ternarybob/reperio/internal/models"
)

const (
	linkedInGuestAPI = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"
	linkedInPageSize = 25
	linkedInMaxPages = 5
)

// LinkedInExtractor scrapes the public jobs-guest endpoint, which serves
// paginated HTML fragments without authentication.
type LinkedInExtractor struct {
	client   *httpclient.Client
	logger   arbor.ILogger
	endpoint string
}

// NewLinkedInExtractor creates the LinkedIn guest-API extractor
func NewLinkedInExtractor(client *httpclient.Client, logger arbor.ILogger) *LinkedInExtractor {
	return &LinkedInExtractor{
		client:   client,
		logger:   logger,
		endpoint: linkedInGuestAPI,
	}
}

// Name returns the canonical source identifier
func (e *LinkedInExtractor) Name() string { return "linkedin" }

// Extract fetches up to five result pages and parses the job cards
func (e *LinkedInExtractor) Extract(ctx context.Context, role, location string) ([]models.RawJobRecord, []string) {
	var records []models.RawJobRecord
	var notes []string

	headers := map[string]string{
		"X-Requested-With": "XMLHttpRequest",
	}

	for page := 0; page < linkedInMaxPages; page++ {
		params := url.Values{
			"keywords": {role},
			"location": {location},
			"start":    {strconv.Itoa(page * linkedInPageSize)},
		}

		body, err := e.client.GetWithParams(ctx, e.endpoint, params, headers)
		if err != nil {
			if page == 0 {
				notes = append(notes, fmt.Sprintf("linkedin: %v", err))
			}
			break
		}

		pageRecords, err := e.parsePage(body)
		if err != nil {
			notes = append(notes, fmt.Sprintf("linkedin: parse failed on page %d: %v", page, err))
			break
		}
		if len(pageRecords) == 0 {
			break
		}
		records = append(records, pageRecords...)
	}

	e.logger.Debug().
		Str("source", e.Name()).
		Int("records", len(records)).
		Msg("LinkedIn extraction complete")

	return standardChain(records), notes
}

func (e *LinkedInExtractor) parsePage(body []byte) ([]models.RawJobRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var records []models.RawJobRecord
	doc.Find("div.base-card").Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find("h3.base-search-card__title").Text())
		company := strings.TrimSpace(card.Find("h4.base-search-card__subtitle").Text())
		if title == "" || company == "" {
			return
		}

		link, _ := card.Find("a.base-card__full-link").Attr("href")
		if idx := strings.Index(link, "?"); idx > 0 {
			link = link[:idx]
		}

		records = append(records, models.RawJobRecord{
			Title:          title,
			Company:        company,
			Location:       strings.TrimSpace(card.Find("span.job-search-card__location").Text()),
			Experience:     "Not specified",
			Salary:         "Not specified",
			ApplicationURL: link,
			SourcePlatform: "LinkedIn",
		})
	})

	return records, nil
}
