package extractors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

const joobleFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Jooble</title>
    <item>
      <title>Golang Developer at Initech</title>
      <link>https://in.jooble.org/desc/111</link>
      <location>Pune</location>
    </item>
    <item>
      <title>Backend Engineer at Hooli</title>
      <link>https://in.jooble.org/away/222?src=cpc</link>
      <location>Mumbai</location>
    </item>
    <item>
      <title>Platform Engineer at Acme</title>
      <link>https://in.jooble.org/desc/333?placement=sponsored</link>
      <location>Remote</location>
    </item>
  </channel>
</rss>`

func TestJoobleExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang developer", r.URL.Query().Get("ukw"))
		assert.Equal(t, "Pune", r.URL.Query().Get("rgn"))
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, joobleFixture)
	}))
	defer server.Close()

	extractor := NewJoobleExtractor(testClient(), arbor.NewLogger())
	extractor.baseURL = server.URL

	records, notes := extractor.Extract(context.Background(), "golang developer", "Pune")

	require.Empty(t, notes)
	require.Len(t, records, 1, "cpc and sponsored links are denied")

	assert.Equal(t, "Golang Developer", records[0].Title, "feed title split at ' at '")
	assert.Equal(t, "Initech", records[0].Company)
	assert.Equal(t, "Pune", records[0].Location)
	assert.Equal(t, "Jooble", records[0].SourcePlatform)
}

func TestJoobleExtractBadFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not xml at all {")
	}))
	defer server.Close()

	extractor := NewJoobleExtractor(testClient(), arbor.NewLogger())
	extractor.baseURL = server.URL

	records, notes := extractor.Extract(context.Background(), "golang", "Pune")
	assert.Empty(t, records)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "feed parse failed")
}
