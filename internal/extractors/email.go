package extractors

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/models"
)

// EmailAlertExtractor reads job-alert digest emails over IMAP and parses
// the listing cards out of the HTML bodies. Messages are fetched with
// BODY.PEEK so the mailbox keeps its unread state.
type EmailAlertExtractor struct {
	cfg    common.EmailConfig
	logger arbor.ILogger
}

// NewEmailAlertExtractor creates the IMAP job-alert extractor
func NewEmailAlertExtractor(cfg common.EmailConfig, logger arbor.ILogger) *EmailAlertExtractor {
	return &EmailAlertExtractor{cfg: cfg, logger: logger}
}

// Name returns the canonical source identifier
func (e *EmailAlertExtractor) Name() string { return "email" }

// Extract connects to the configured mailbox, fetches recent alert
// digests from the configured sender and parses listings from them.
// The role and location arguments are ignored; alert digests are already
// scoped by the saved searches that generate them.
func (e *EmailAlertExtractor) Extract(ctx context.Context, role, location string) ([]models.RawJobRecord, []string) {
	client, err := e.dial(ctx)
	if err != nil {
		return nil, []string{fmt.Sprintf("email: %v", err)}
	}
	defer func() {
		_ = client.Logout().Wait()
		_ = client.Close()
	}()

	folder := e.cfg.Folder
	if folder == "" {
		folder = "INBOX"
	}
	if _, err := client.Select(folder, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, []string{fmt.Sprintf("email: select %q: %v", folder, err)}
	}

	maxAge := e.cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 7
	}
	criteria := &imap.SearchCriteria{
		Since: time.Now().AddDate(0, 0, -maxAge),
	}
	if e.cfg.Sender != "" {
		criteria.Header = []imap.SearchCriteriaHeaderField{
			{Key: "From", Value: e.cfg.Sender},
		}
	}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, []string{fmt.Sprintf("email: search: %v", err)}
	}
	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	bodies, notes := e.fetchBodies(ctx, client, uids)

	var records []models.RawJobRecord
	for _, raw := range bodies {
		htmlBody, err := extractHTMLPart(raw)
		if err != nil || htmlBody == "" {
			continue
		}
		records = append(records, parseAlertDigest(htmlBody)...)
	}

	e.logger.Debug().
		Str("source", e.Name()).
		Int("messages", len(bodies)).
		Int("records", len(records)).
		Msg("Email alert extraction complete")

	return standardChain(records), notes
}

func (e *EmailAlertExtractor) dial(ctx context.Context) (*imapclient.Client, error) {
	addr := e.cfg.Server
	if !strings.Contains(addr, ":") {
		addr += ":993"
	}

	client, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	go func() {
		<-ctx.Done()
		_ = client.Close()
	}()

	if err := client.Login(e.cfg.Username, e.cfg.Password).Wait(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("login: %w", err)
	}
	return client, nil
}

// fetchBodies pulls full RFC822 bodies without setting the Seen flag
func (e *EmailAlertExtractor) fetchBodies(ctx context.Context, client *imapclient.Client, uids []imap.UID) ([][]byte, []string) {
	const maxMessages = 25
	if len(uids) > maxMessages {
		uids = uids[len(uids)-maxMessages:]
	}

	section := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	})
	defer fetchCmd.Close()

	var bodies [][]byte
	var notes []string
	for {
		select {
		case <-ctx.Done():
			return bodies, append(notes, fmt.Sprintf("email: %v", ctx.Err()))
		default:
		}

		msg := fetchCmd.Next()
		if msg == nil {
			break
		}
		buf, err := msg.Collect()
		if err != nil {
			notes = append(notes, fmt.Sprintf("email: fetch: %v", err))
			break
		}
		if b := buf.FindBodySection(section); b != nil {
			bodies = append(bodies, append([]byte(nil), b...))
		}
	}
	return bodies, notes
}

// extractHTMLPart walks the MIME structure for the first text/html part
func extractHTMLPart(raw []byte) (string, error) {
	reader, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", err
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		mediaType, _, err := header.ContentType()
		if err != nil || mediaType != "text/html" {
			continue
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}
}

// parseAlertDigest reads listing anchors out of an alert digest body.
// Digest markup varies by provider; the common shape is a job-view link
// whose anchor text is the title, with company and location in the
// sibling text of the same table cell.
func parseAlertDigest(htmlBody string) []models.RawJobRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var records []models.RawJobRecord

	doc.Find("a[href*='/jobs/view/'], a[href*='/comm/jobs/view/']").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		title := strings.TrimSpace(anchor.Text())
		if href == "" || title == "" || len(title) < 3 {
			return
		}

		link := common.CanonicalURL(href)
		if seen[link] {
			return
		}
		seen[link] = true

		company, loc := digestCompanyAndLocation(anchor)
		records = append(records, models.RawJobRecord{
			Title:          title,
			Company:        company,
			Location:       loc,
			Experience:     "Not specified",
			Salary:         "Not disclosed",
			ApplicationURL: link,
			SourcePlatform: "EmailAlert",
		})
	})

	return records
}

// digestCompanyAndLocation pulls "Company · Location" out of the text
// near a digest anchor
func digestCompanyAndLocation(anchor *goquery.Selection) (string, string) {
	cell := anchor.Closest("td")
	if cell.Length() == 0 {
		return "", ""
	}

	text := strings.TrimSpace(cell.Text())
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "·") {
			continue
		}
		parts := strings.SplitN(line, "·", 2)
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return "", ""
}
