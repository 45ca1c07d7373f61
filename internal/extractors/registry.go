package extractors

import (
	"sort"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/httpclient"
	"github.com/ternarybob/reperio/internal/interfaces"
)

// Registry maps case-insensitive source identifiers to extractors.
// Unknown identifiers resolve to nil; the dispatcher treats that as
// "zero records", never as a pipeline failure. Adding a source is a pure
// registration action; nothing else inspects source identity.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]interfaces.Extractor
}

// NewRegistry creates an empty extractor registry
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]interfaces.Extractor),
	}
}

// Register adds an extractor under its canonical name
func (r *Registry) Register(e interfaces.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[strings.ToLower(e.Name())] = e
}

// Lookup returns the extractor for a source identifier, or nil when the
// identifier is unknown
func (r *Registry) Lookup(name string) interfaces.Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.extractors[strings.ToLower(strings.TrimSpace(name))]
}

// Names returns all registered source identifiers, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.extractors))
	for name := range r.extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasBrowserSource reports whether any of the given source identifiers
// resolves to a browser-backed extractor
func (r *Registry) HasBrowserSource(names []string) bool {
	for _, name := range names {
		e := r.Lookup(name)
		if e == nil {
			continue
		}
		if bb, ok := e.(interfaces.BrowserBacked); ok && bb.UsesBrowser() {
			return true
		}
	}
	return false
}

// NewDefaultRegistry wires every built-in extractor variant from
// configuration. The email extractor is registered only when IMAP
// credentials are configured.
func NewDefaultRegistry(cfg *common.Config, catalog *Catalog, logger arbor.ILogger) *Registry {
	limiter := httpclient.NewHostLimiter(cfg.Crawler.RatePerSecond, cfg.Crawler.RateBurst)
	client := httpclient.New(cfg.Crawler.RequestTimeout.Std(), cfg.Crawler.UserAgent, limiter)

	registry := NewRegistry()
	registry.Register(NewNaukriExtractor(cfg.Browser, cfg.Crawler.UserAgent, logger))
	registry.Register(NewWorkIndiaExtractor(cfg.Browser, cfg.Crawler.UserAgent, logger))
	registry.Register(NewLinkedInExtractor(client, logger))
	registry.Register(NewApnaExtractor(client.WithUserAgent(cfg.Crawler.MobileUserAgent), logger))
	registry.Register(NewWellfoundExtractor(client, logger))
	registry.Register(NewHiristExtractor(client, logger))
	registry.Register(NewCutshortExtractor(client, logger))
	registry.Register(NewJoobleExtractor(client, logger).WithDenyList(catalog.Feeds.DenySubstrings))
	registry.Register(NewCareerSiteExtractor(client, catalog, logger))

	if cfg.Email.Enabled && cfg.Email.Username != "" {
		registry.Register(NewEmailAlertExtractor(cfg.Email, logger))
	}

	return registry
}
