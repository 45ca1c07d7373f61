package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
)

func TestTitleMatchesRole(t *testing.T) {
	tests := []struct {
		title string
		role  string
		want  bool
	}{
		{"Senior Golang Developer", "golang developer", true},
		{"Golang Developer, Payments", "Golang Developer", true},
		{"Java Developer", "golang developer", false},
		{"Engineering Manager", "golang", false},
		{"Anything", "", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, titleMatchesRole(tt.title, tt.role),
			"title=%q role=%q", tt.title, tt.role)
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Airbnb", titleCase("airbnb"))
	assert.Equal(t, "", titleCase(""))
}

func TestDescriptionTeaser(t *testing.T) {
	extractor := NewCareerSiteExtractor(testClient(), DefaultCatalog(), arbor.NewLogger())

	teaser := extractor.descriptionTeaser("<p>We are hiring a <strong>backend engineer</strong>.</p>")
	assert.Contains(t, teaser, "backend engineer")
	assert.NotContains(t, teaser, "<p>", "markup is converted to markdown")

	assert.Empty(t, extractor.descriptionTeaser(""))
}
