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

const hiristFixture = `{
  "jobs": [
    {
      "id": 101,
      "title": "Golang Backend Engineer",
      "min": 3,
      "max": 6,
      "locations": [{"name": "Bangalore"}, {"name": "Pune"}],
      "companyData": {"companyName": "Initech"}
    },
    {
      "id": 102,
      "title": "Golang Developer",
      "min": 2,
      "max": 0,
      "locations": [{"name": "Remote"}],
      "companyData": {"companyName": "Hooli"}
    },
    {
      "id": 103,
      "title": "Java Developer",
      "min": 0,
      "max": 0,
      "locations": [{"name": "Chennai"}],
      "companyData": {"companyName": "Globex"}
    }
  ]
}`

func TestHiristExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, hiristFixture)
	}))
	defer server.Close()

	extractor := NewHiristExtractor(testClient(), arbor.NewLogger())
	extractor.endpoint = server.URL

	records, notes := extractor.Extract(context.Background(), "golang", "Pune")

	require.Empty(t, notes)
	require.Len(t, records, 2, "Chennai-only listing filtered, remote listing kept")

	assert.Equal(t, "Golang Backend Engineer", records[0].Title)
	assert.Equal(t, "Initech", records[0].Company)
	assert.Equal(t, "Bangalore, Pune", records[0].Location)
	assert.Equal(t, "3-6 years", records[0].Experience)

	assert.Equal(t, "2+ years", records[1].Experience, "open-ended range renders as min+")
}

func TestFormatExperienceRange(t *testing.T) {
	tests := []struct {
		min, max int
		want     string
	}{
		{0, 0, "Not specified"},
		{3, 6, "3-6 years"},
		{5, 0, "5+ years"},
		{4, 4, "4+ years"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatExperienceRange(tt.min, tt.max))
	}
}
