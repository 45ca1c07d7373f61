package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/models"
)

type stubExtractor struct {
	name    string
	browser bool
}

func (s *stubExtractor) Name() string { return s.name }
func (s *stubExtractor) Extract(context.Context, string, string) ([]models.RawJobRecord, []string) {
	return nil, nil
}
func (s *stubExtractor) UsesBrowser() bool { return s.browser }

func TestRegistryLookupIsCaseInsensitive(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubExtractor{name: "naukri"})

	assert.NotNil(t, registry.Lookup("Naukri"))
	assert.NotNil(t, registry.Lookup(" NAUKRI "))
	assert.Nil(t, registry.Lookup("monster"), "unknown source resolves to nil")
}

func TestRegistryHasBrowserSource(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubExtractor{name: "naukri", browser: true})
	registry.Register(&stubExtractor{name: "linkedin"})

	assert.True(t, registry.HasBrowserSource([]string{"linkedin", "naukri"}))
	assert.False(t, registry.HasBrowserSource([]string{"linkedin"}))
	assert.False(t, registry.HasBrowserSource([]string{"monster"}), "unknown sources are skipped")
}

func TestNewDefaultRegistryWiring(t *testing.T) {
	cfg := common.NewDefaultConfig()
	registry := NewDefaultRegistry(cfg, DefaultCatalog(), arbor.NewLogger())

	for _, name := range []string{"naukri", "workindia", "linkedin", "apna", "wellfound", "hirist", "cutshort", "jooble", "careersite"} {
		require.NotNil(t, registry.Lookup(name), "expected %s to be registered", name)
	}

	assert.Nil(t, registry.Lookup("email"), "email extractor requires credentials")
	assert.True(t, registry.HasBrowserSource(registry.Names()))
}

func TestNewDefaultRegistryRegistersEmailWhenConfigured(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Email.Enabled = true
	cfg.Email.Username = "alerts@example.com"

	registry := NewDefaultRegistry(cfg, DefaultCatalog(), arbor.NewLogger())
	assert.NotNil(t, registry.Lookup("email"))
}
