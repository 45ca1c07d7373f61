package extractors

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/models"
	"github.com/ternarybob/reperio/internal/services/browser"
)

const workIndiaBaseURL = "https://www.workindia.in"

// WorkIndiaExtractor renders the search page in a headless browser.
// Listing cards are injected client side after a short render delay.
type WorkIndiaExtractor struct {
	browserCfg common.BrowserConfig
	userAgent  string
	logger     arbor.ILogger
	baseURL    string
}

// NewWorkIndiaExtractor creates the workindia browser extractor
func NewWorkIndiaExtractor(browserCfg common.BrowserConfig, userAgent string, logger arbor.ILogger) *WorkIndiaExtractor {
	return &WorkIndiaExtractor{
		browserCfg: browserCfg,
		userAgent:  userAgent,
		logger:     logger,
		baseURL:    workIndiaBaseURL,
	}
}

// Name returns the canonical source identifier
func (e *WorkIndiaExtractor) Name() string { return "workindia" }

// UsesBrowser marks this extractor as browser-backed so the dispatcher
// can lower its worker ceiling
func (e *WorkIndiaExtractor) UsesBrowser() bool { return true }

// Extract renders the search page and parses the hydrated job cards
func (e *WorkIndiaExtractor) Extract(ctx context.Context, role, location string) ([]models.RawJobRecord, []string) {
	target := fmt.Sprintf("%s/jobs-in-%s/?query=%s",
		e.baseURL, seoSlug(location), url.QueryEscape(role))

	session, err := browser.NewSession(ctx, e.browserCfg, e.userAgent, e.logger)
	if err != nil {
		return nil, []string{fmt.Sprintf("workindia: %v", err)}
	}
	defer session.Close()

	if err := session.NavigateAndSettle(target, nil); err != nil {
		return nil, []string{fmt.Sprintf("workindia: navigation failed: %v", err)}
	}

	html, err := session.OuterHTML()
	if err != nil {
		return nil, []string{fmt.Sprintf("workindia: %v", err)}
	}

	records, err := e.parseCards(html, target)
	if err != nil {
		return nil, []string{fmt.Sprintf("workindia: parse failed: %v", err)}
	}

	e.logger.Debug().
		Str("source", e.Name()).
		Int("records", len(records)).
		Msg("WorkIndia extraction complete")

	return standardChain(records), nil
}

func (e *WorkIndiaExtractor) parseCards(html, fallbackURL string) ([]models.RawJobRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var records []models.RawJobRecord
	doc.Find(`div.JobCard, div[class*="job-card"]`).Each(func(_ int, card *goquery.Selection) {
		title := firstText(card, "h2", "h3")
		if title == "" {
			return
		}

		link := fallbackURL
		if href, ok := card.Find("a").First().Attr("href"); ok && href != "" {
			link = common.ResolveURL(e.baseURL, href)
		}

		records = append(records, models.RawJobRecord{
			Title:          title,
			Company:        firstText(card, `p[class*="company"]`, "h4"),
			Location:       firstText(card, `span[class*="location"]`, `p[class*="location"]`),
			Experience:     firstText(card, `span[class*="experience"]`),
			Salary:         firstText(card, `span[class*="salary"]`, `p[class*="salary"]`),
			ApplicationURL: link,
			SourcePlatform: "WorkIndia",
		})
	})

	return records, nil
}
