package extractors

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/httpclient"
	"github.com/ternarybob/reperio/internal/models"
)

const joobleRSSBase = "https://in.jooble.org/rss"

// joobleFeed models the RSS 2.0 document the feed endpoint serves
type joobleFeed struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []joobleItem `xml:"item"`
	} `xml:"channel"`
}

type joobleItem struct {
	Title    string `xml:"title"`
	Link     string `xml:"link"`
	Location string `xml:"location"`
}

// JoobleExtractor reads the aggregator's RSS feed. Feed titles arrive as
// "Role at Company" strings and links carry paid-placement markers the
// catalog deny list filters out.
type JoobleExtractor struct {
	client         *httpclient.Client
	logger         arbor.ILogger
	baseURL        string
	denySubstrings []string
}

// NewJoobleExtractor creates the jooble RSS extractor
func NewJoobleExtractor(client *httpclient.Client, logger arbor.ILogger) *JoobleExtractor {
	return &JoobleExtractor{
		client:         client,
		logger:         logger,
		baseURL:        joobleRSSBase,
		denySubstrings: DefaultCatalog().Feeds.DenySubstrings,
	}
}

// WithDenyList overrides the paid-placement link filter from the catalog
func (e *JoobleExtractor) WithDenyList(substrings []string) *JoobleExtractor {
	e.denySubstrings = substrings
	return e
}

// Name returns the canonical source identifier
func (e *JoobleExtractor) Name() string { return "jooble" }

// Extract fetches and parses the RSS feed
func (e *JoobleExtractor) Extract(ctx context.Context, role, location string) ([]models.RawJobRecord, []string) {
	params := url.Values{
		"ukw": {role},
		"rgn": {location},
	}

	body, err := e.client.GetWithParams(ctx, e.baseURL, params, map[string]string{
		"Accept": "application/rss+xml, application/xml;q=0.9",
	})
	if err != nil {
		return nil, []string{fmt.Sprintf("jooble: %v", err)}
	}

	var feed joobleFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, []string{fmt.Sprintf("jooble: feed parse failed: %v", err)}
	}

	var records []models.RawJobRecord
	skipped := 0
	for _, item := range feed.Channel.Items {
		if e.isDeniedLink(item.Link) {
			skipped++
			continue
		}

		records = append(records, models.RawJobRecord{
			Title:          item.Title,
			Company:        "",
			Location:       item.Location,
			Experience:     "Not specified",
			Salary:         "Not disclosed",
			ApplicationURL: item.Link,
			SourcePlatform: "Jooble",
		})
	}

	e.logger.Debug().
		Str("source", e.Name()).
		Int("records", len(records)).
		Int("skipped", skipped).
		Msg("Jooble extraction complete")

	// The standard chain splits "Role at Company" feed titles.
	return standardChain(records), nil
}

// isDeniedLink checks the link against the catalog's paid-placement
// substrings
func (e *JoobleExtractor) isDeniedLink(link string) bool {
	lower := strings.ToLower(link)
	for _, deny := range e.denySubstrings {
		if deny != "" && strings.Contains(lower, strings.ToLower(deny)) {
			return true
		}
	}
	return false
}
