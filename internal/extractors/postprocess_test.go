package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/reperio/internal/models"
)

func TestSplitTitleAtCompany(t *testing.T) {
	tests := []struct {
		name        string
		record      models.RawJobRecord
		wantTitle   string
		wantCompany string
	}{
		{
			name:        "splits feed title",
			record:      models.RawJobRecord{Title: "Senior Engineer at Acme Corp"},
			wantTitle:   "Senior Engineer",
			wantCompany: "Acme Corp",
		},
		{
			name:        "keeps existing company",
			record:      models.RawJobRecord{Title: "Senior Engineer at Acme Corp", Company: "Globex"},
			wantTitle:   "Senior Engineer at Acme Corp",
			wantCompany: "Globex",
		},
		{
			name:        "replaces placeholder company",
			record:      models.RawJobRecord{Title: "DevOps Lead at Initech", Company: "Jooble Verified Employer"},
			wantTitle:   "DevOps Lead",
			wantCompany: "Initech",
		},
		{
			name:        "no separator leaves record alone",
			record:      models.RawJobRecord{Title: "Platform Engineer"},
			wantTitle:   "Platform Engineer",
			wantCompany: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTitleAtCompany(tt.record)
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.Equal(t, tt.wantCompany, got.Company)
		})
	}
}

func TestStripPromoPrefixes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Urgent Hiring: Backend Engineer", "Backend Engineer"},
		{"Hot Job: Featured: SRE", "SRE"},
		{"Backend Engineer", "Backend Engineer"},
		{"⭐ Data Engineer", "Data Engineer"},
	}

	for _, tt := range tests {
		got := StripPromoPrefixes(models.RawJobRecord{Title: tt.in})
		assert.Equal(t, tt.want, got.Title)
	}
}

func TestStandardChainDefaults(t *testing.T) {
	records := standardChain([]models.RawJobRecord{
		{Title: "  QA Engineer at Hooli  "},
	})

	assert.Len(t, records, 1)
	assert.Equal(t, "QA Engineer", records[0].Title)
	assert.Equal(t, "Hooli", records[0].Company)
	assert.Equal(t, "Not specified", records[0].Experience)
	assert.Equal(t, "Not disclosed", records[0].Salary)
	assert.Equal(t, "Not specified", records[0].Location)
}
