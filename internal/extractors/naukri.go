package extractors

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/models"
	"github.com/ternarybob/reperio/internal/services/browser"
)

const naukriBaseURL = "https://www.naukri.com"

// NaukriExtractor renders the client-side search page in a headless
// browser and parses the hydrated job cards. The site serves an empty
// shell to plain HTTP clients, so the browser path is mandatory here.
type NaukriExtractor struct {
	browserCfg common.BrowserConfig
	userAgent  string
	logger     arbor.ILogger
	baseURL    string
}

// NewNaukriExtractor creates the naukri browser extractor
func NewNaukriExtractor(browserCfg common.BrowserConfig, userAgent string, logger arbor.ILogger) *NaukriExtractor {
	return &NaukriExtractor{
		browserCfg: browserCfg,
		userAgent:  userAgent,
		logger:     logger,
		baseURL:    naukriBaseURL,
	}
}

// Name returns the canonical source identifier
func (e *NaukriExtractor) Name() string { return "naukri" }

// UsesBrowser marks this extractor as browser-backed so the dispatcher
// can lower its worker ceiling
func (e *NaukriExtractor) UsesBrowser() bool { return true }

// Extract renders the search page and parses listing cards from the
// settled markup
func (e *NaukriExtractor) Extract(ctx context.Context, role, location string) ([]models.RawJobRecord, []string) {
	target := fmt.Sprintf("%s/%s-jobs-in-%s", e.baseURL, seoSlug(role), seoSlug(location))

	session, err := browser.NewSession(ctx, e.browserCfg, e.userAgent, e.logger)
	if err != nil {
		return nil, []string{fmt.Sprintf("naukri: %v", err)}
	}
	defer session.Close()

	if err := session.NavigateAndSettle(target, nil); err != nil {
		return nil, []string{fmt.Sprintf("naukri: navigation failed: %v", err)}
	}

	html, err := session.OuterHTML()
	if err != nil {
		return nil, []string{fmt.Sprintf("naukri: %v", err)}
	}

	records, err := e.parseCards(html)
	if err != nil {
		return nil, []string{fmt.Sprintf("naukri: parse failed: %v", err)}
	}

	e.logger.Debug().
		Str("source", e.Name()).
		Int("records", len(records)).
		Msg("Naukri extraction complete")

	return standardChain(records), nil
}

// parseCards handles both the current and previous card markup variants
func (e *NaukriExtractor) parseCards(html string) ([]models.RawJobRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var records []models.RawJobRecord
	doc.Find("div.srp-jobtuple-wrapper, article.jobTuple").Each(func(_ int, card *goquery.Selection) {
		titleLink := card.Find("a.title").First()
		title := strings.TrimSpace(titleLink.Text())
		if title == "" {
			return
		}

		link, _ := titleLink.Attr("href")
		if link == "" {
			link = e.baseURL
		}

		records = append(records, models.RawJobRecord{
			Title:          title,
			Company:        firstText(card, "a.comp-name", "a.subTitle"),
			Location:       firstText(card, "span.locWdth", "li.location"),
			Experience:     firstText(card, "span.expwdth", "li.experience"),
			Salary:         firstText(card, "span.sal-wrap span", "li.salary"),
			ApplicationURL: link,
			SourcePlatform: "Naukri",
		})
	})

	return records, nil
}

// seoSlug lowercases a phrase into the hyphenated form the site's SEO
// URLs use
func seoSlug(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(s)), "-"))
}
