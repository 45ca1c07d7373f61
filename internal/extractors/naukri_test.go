package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
)

const naukriFixture = `<html><body>
<div class="srp-jobtuple-wrapper">
  <a class="title" href="https://www.naukri.com/job-listings-backend-engineer-acme-1">Backend Engineer</a>
  <a class="comp-name">Acme Corp</a>
  <span class="expwdth">3-6 Yrs</span>
  <span class="sal-wrap"><span>12-18 Lacs PA</span></span>
  <span class="locWdth">Bengaluru</span>
</div>
<article class="jobTuple">
  <a class="title" href="https://www.naukri.com/job-listings-sre-globex-2">Site Reliability Engineer</a>
  <a class="subTitle">Globex</a>
  <li class="experience">5-8 Yrs</li>
  <li class="location">Hyderabad</li>
</article>
<div class="srp-jobtuple-wrapper">
  <a class="title" href=""></a>
</div>
</body></html>`

func TestNaukriParseCards(t *testing.T) {
	extractor := NewNaukriExtractor(common.NewDefaultConfig().Browser, "agent", arbor.NewLogger())

	records, err := extractor.parseCards(naukriFixture)
	require.NoError(t, err)
	require.Len(t, records, 2, "card without a title is skipped")

	records = standardChain(records)

	assert.Equal(t, "Backend Engineer", records[0].Title)
	assert.Equal(t, "Acme Corp", records[0].Company)
	assert.Equal(t, "3-6 Yrs", records[0].Experience)
	assert.Equal(t, "12-18 Lacs PA", records[0].Salary)
	assert.Equal(t, "Bengaluru", records[0].Location)
	assert.Equal(t, "Naukri", records[0].SourcePlatform)

	assert.Equal(t, "Globex", records[1].Company, "previous markup variant parsed")
	assert.Equal(t, "Hyderabad", records[1].Location)
}

func TestNaukriUsesBrowser(t *testing.T) {
	extractor := NewNaukriExtractor(common.NewDefaultConfig().Browser, "agent", arbor.NewLogger())
	assert.True(t, extractor.UsesBrowser())
}

func TestSeoSlug(t *testing.T) {
	assert.Equal(t, "golang-developer", seoSlug("  Golang   Developer "))
	assert.Equal(t, "pune", seoSlug("Pune"))
}
