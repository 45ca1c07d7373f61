package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases scheme and host",
			input:    "HTTPS://WWW.Naukri.com/job-listings-123",
			expected: "https://www.naukri.com/job-listings-123",
		},
		{
			name:     "strips tracking params",
			input:    "https://apna.co/jobs/123?utm_source=search&utm_medium=cpc&ref=abc",
			expected: "https://apna.co/jobs/123?ref=abc",
		},
		{
			name:     "strips fragment",
			input:    "https://cutshort.io/job/456#apply",
			expected: "https://cutshort.io/job/456",
		},
		{
			name:     "linkedin keeps only currentJobId",
			input:    "https://www.linkedin.com/jobs/view?currentJobId=987&trk=guest&refId=xyz",
			expected: "https://www.linkedin.com/jobs/view?currentJobId=987",
		},
		{
			name:     "sorts query params deterministically",
			input:    "https://jooble.org/jobs?b=2&a=1",
			expected: "https://jooble.org/jobs?a=1&b=2",
		},
		{
			name:     "empty input",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalURL(tt.input))
		})
	}
}

func TestCanonicalURL_Idempotent(t *testing.T) {
	raw := "https://www.linkedin.com/jobs/view?currentJobId=987&utm_source=x"
	once := CanonicalURL(raw)
	assert.Equal(t, once, CanonicalURL(once))
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://apna.co/job/123", ResolveURL("https://apna.co/jobs?x=1", "/job/123"))
	assert.Equal(t, "https://other.example/abs", ResolveURL("https://apna.co", "https://other.example/abs"))
	assert.Equal(t, "", ResolveURL("https://apna.co", "  "))
}
