package extractors

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/httpclient"
	"github.com/ternarybob/reperio/internal/models"
	"github.com/tidwall/gjson"
)

const wellfoundBaseURL = "https://wellfound.com"

// WellfoundExtractor unpacks the Apollo state graph embedded in the
// Next.js hydration script, reading listings without executing any
// JavaScript.
type WellfoundExtractor struct {
	client  *httpclient.Client
	logger  arbor.ILogger
	baseURL string
}

// NewWellfoundExtractor creates the wellfound hydration-state extractor
func NewWellfoundExtractor(client *httpclient.Client, logger arbor.ILogger) *WellfoundExtractor {
	return &WellfoundExtractor{
		client:  client,
		logger:  logger,
		baseURL: wellfoundBaseURL,
	}
}

// Name returns the canonical source identifier
func (e *WellfoundExtractor) Name() string { return "wellfound" }

// Extract fetches the search page and walks the embedded Apollo cache
// for JobListing nodes
func (e *WellfoundExtractor) Extract(ctx context.Context, role, location string) ([]models.RawJobRecord, []string) {
	target := fmt.Sprintf("%s/jobs?location=%s&keywords=%s",
		e.baseURL, url.QueryEscape(location), url.QueryEscape(role))

	headers := map[string]string{
		"Accept-Language": "en-US,en;q=0.9",
	}

	body, err := e.client.Get(ctx, target, headers)
	if err != nil {
		return nil, []string{fmt.Sprintf("wellfound: %v", err)}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, []string{fmt.Sprintf("wellfound: parse failed: %v", err)}
	}

	script := doc.Find("script#__NEXT_DATA__").First().Text()
	if script == "" {
		return nil, []string{"wellfound: no hydration state in page"}
	}

	apolloState := gjson.Get(script, "props.pageProps.apolloState")
	if !apolloState.Exists() {
		return nil, []string{"wellfound: apollo cache missing from hydration state"}
	}

	var records []models.RawJobRecord
	apolloState.ForEach(func(key, node gjson.Result) bool {
		if !strings.HasPrefix(key.String(), "JobListing:") {
			return true
		}

		link := node.Get("jobUrl").String()
		if link == "" {
			link = target
		}

		records = append(records, models.RawJobRecord{
			Title:          node.Get("title").String(),
			Company:        node.Get("company.name").String(),
			Location:       node.Get("locationNames").String(),
			Experience:     "Not specified",
			Salary:         node.Get("compensationString").String(),
			ApplicationURL: link,
			SourcePlatform: "Wellfound",
		})
		return true
	})

	e.logger.Debug().
		Str("source", e.Name()).
		Int("records", len(records)).
		Msg("Wellfound extraction complete")

	return standardChain(records), nil
}
