package extractors

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/httpclient"
	"github.com/ternarybob/reperio/internal/models"
)

const apnaBaseURL = "https://apna.co"

// ApnaExtractor scrapes the apna mobile site, where the aggressive WAF
// rules of the desktop site are disabled. The registry hands it a client
// carrying the mobile user agent.
type ApnaExtractor struct {
	client  *httpclient.Client
	logger  arbor.ILogger
	baseURL string
}

// NewApnaExtractor creates the apna mobile-site extractor
func NewApnaExtractor(client *httpclient.Client, logger arbor.ILogger) *ApnaExtractor {
	return &ApnaExtractor{
		client:  client,
		logger:  logger,
		baseURL: apnaBaseURL,
	}
}

// Name returns the canonical source identifier
func (e *ApnaExtractor) Name() string { return "apna" }

// Extract fetches the search page and parses job cards, skipping
// promoted and sponsored placements
func (e *ApnaExtractor) Extract(ctx context.Context, role, location string) ([]models.RawJobRecord, []string) {
	target := fmt.Sprintf("%s/jobs?search=true&text=%s&location_id=any&location_identifier=%s",
		e.baseURL, url.QueryEscape(role), url.QueryEscape(location))

	headers := map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-IN,en-GB;q=0.9,en-US;q=0.8,en;q=0.7",
	}

	body, err := e.client.Get(ctx, target, headers)
	if err != nil {
		return nil, []string{fmt.Sprintf("apna: %v", err)}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, []string{fmt.Sprintf("apna: parse failed: %v", err)}
	}

	var records []models.RawJobRecord
	doc.Find(`div.JobCard, div[data-testid="job-card"]`).Each(func(_ int, card *goquery.Selection) {
		if isSponsoredCard(card) {
			return
		}

		title := firstText(card, "h3.JobTitle", "h2")
		if title == "" {
			return
		}

		href, _ := card.Find("a").First().Attr("href")
		link := target
		if strings.HasPrefix(href, "/") {
			link = common.ResolveURL(e.baseURL, href)
		} else if href != "" {
			link = href
		}

		records = append(records, models.RawJobRecord{
			Title:          title,
			Company:        firstText(card, "p.CompanyName", "p.title"),
			Location:       firstText(card, "span.LocationText", "p.location"),
			Experience:     "Not specified",
			Salary:         firstText(card, "div.SalaryDetails", "p.salary"),
			ApplicationURL: link,
			SourcePlatform: "Apna",
		})
	})

	e.logger.Debug().
		Str("source", e.Name()).
		Int("records", len(records)).
		Msg("Apna extraction complete")

	return standardChain(records), nil
}

// isSponsoredCard detects promoted/sponsored markers anywhere in the card
func isSponsoredCard(card *goquery.Selection) bool {
	text := card.Text()
	return strings.Contains(text, "Promoted") || strings.Contains(text, "Sponsored")
}

// firstText returns the text of the first selector that matches
func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		if v := strings.TrimSpace(sel.Find(s).First().Text()); v != "" {
			return v
		}
	}
	return ""
}
