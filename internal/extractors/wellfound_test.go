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

const wellfoundFixture = `<html><body>
<script id="__NEXT_DATA__" type="application/json">
{
  "props": {
    "pageProps": {
      "apolloState": {
        "JobListing:j1": {
          "title": "Founding Backend Engineer",
          "jobUrl": "https://wellfound.com/jobs/j1",
          "compensationString": "$120k - $160k",
          "locationNames": "Bengaluru",
          "company": {"name": "Stealth AI"}
        },
        "StartupResult:s1": {"name": "Stealth AI"},
        "JobListing:j2": {
          "title": "Platform Engineer",
          "jobUrl": "",
          "compensationString": "",
          "locationNames": "Remote",
          "company": {"name": "Acme"}
        }
      }
    }
  }
}
</script>
</body></html>`

func TestWellfoundExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, wellfoundFixture)
	}))
	defer server.Close()

	extractor := NewWellfoundExtractor(testClient(), arbor.NewLogger())
	extractor.baseURL = server.URL

	records, notes := extractor.Extract(context.Background(), "backend engineer", "Bengaluru")

	require.Empty(t, notes)
	require.Len(t, records, 2, "only JobListing cache entries are read")

	assert.Equal(t, "Founding Backend Engineer", records[0].Title)
	assert.Equal(t, "Stealth AI", records[0].Company)
	assert.Equal(t, "$120k - $160k", records[0].Salary)
	assert.Equal(t, "https://wellfound.com/jobs/j1", records[0].ApplicationURL)

	assert.Equal(t, "Not disclosed", records[1].Salary, "empty salary defaulted")
	assert.NotEmpty(t, records[1].ApplicationURL, "listing without a URL falls back to the search page")
}

func TestWellfoundExtractNoHydrationState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>captcha</p></body></html>")
	}))
	defer server.Close()

	extractor := NewWellfoundExtractor(testClient(), arbor.NewLogger())
	extractor.baseURL = server.URL

	records, notes := extractor.Extract(context.Background(), "backend", "Bengaluru")
	assert.Empty(t, records)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "no hydration state")
}
