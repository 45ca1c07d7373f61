package extractors

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the YAML-backed source catalog: which ATS-hosted career
// sites to query and which feed entries to reject. It keeps company
// lists out of code so adding a career site is a config edit.
type Catalog struct {
	CareerSites CareerSiteCatalog `yaml:"career_sites"`
	Feeds       FeedCatalog       `yaml:"feeds"`
}

// CareerSiteCatalog lists company identifiers per ATS provider
type CareerSiteCatalog struct {
	Greenhouse []string         `yaml:"greenhouse"`
	Lever      []string         `yaml:"lever"`
	Workday    []WorkdayCompany `yaml:"workday"`
}

// WorkdayCompany identifies one Workday-hosted careers tenant
type WorkdayCompany struct {
	Tenant string `yaml:"tenant"` // e.g. "upenn"
	Host   string `yaml:"host"`   // e.g. "wd1.myworkdaysite.com"
	Site   string `yaml:"site"`   // career site name, e.g. "careers"
}

// FeedCatalog carries allow/deny heuristics for aggregator feeds
type FeedCatalog struct {
	DenySubstrings []string `yaml:"deny_substrings"` // Link fragments marking paid placements
}

// DefaultCatalog returns the catalog used when no YAML file is present
func DefaultCatalog() *Catalog {
	return &Catalog{
		CareerSites: CareerSiteCatalog{
			Greenhouse: []string{"airbnb"},
			Lever:      []string{"netflix"},
			Workday: []WorkdayCompany{
				{Tenant: "upenn", Host: "wd1.myworkdaysite.com", Site: "careers"},
			},
		},
		Feeds: FeedCatalog{
			DenySubstrings: []string{"sponsored", "cpc"},
		},
	}
}

// LoadCatalog reads the source catalog from a YAML file, falling back to
// defaults when the file does not exist
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCatalog(), nil
		}
		return nil, fmt.Errorf("failed to read source catalog %s: %w", path, err)
	}

	catalog := DefaultCatalog()
	if err := yaml.Unmarshal(data, catalog); err != nil {
		return nil, fmt.Errorf("failed to parse source catalog %s: %w", path, err)
	}
	return catalog, nil
}
