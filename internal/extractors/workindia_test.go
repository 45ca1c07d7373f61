package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
)

const workIndiaFixture = `<html><body>
<div class="JobCard">
  <a href="/job/telecaller-pune-123"></a>
  <h2>Telecaller</h2>
  <p class="company-name">Acme Services</p>
  <span class="location-text">Pune</span>
  <span class="salary-range">15,000 - 20,000</span>
</div>
<div class="JobCard">
  <h2></h2>
</div>
</body></html>`

func TestWorkIndiaParseCards(t *testing.T) {
	extractor := NewWorkIndiaExtractor(common.NewDefaultConfig().Browser, "agent", arbor.NewLogger())

	records, err := extractor.parseCards(workIndiaFixture, "https://www.workindia.in/jobs-in-pune/")
	require.NoError(t, err)
	require.Len(t, records, 1, "card without a title is skipped")

	assert.Equal(t, "Telecaller", records[0].Title)
	assert.Equal(t, "Acme Services", records[0].Company)
	assert.Equal(t, "Pune", records[0].Location)
	assert.Equal(t, "https://www.workindia.in/job/telecaller-pune-123", records[0].ApplicationURL,
		"relative href resolved against the site base")
	assert.Equal(t, "WorkIndia", records[0].SourcePlatform)
	assert.True(t, extractor.UsesBrowser())
}
