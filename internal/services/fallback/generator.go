package fallback

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
	"github.com/ternarybob/reperio/internal/services/llm"
	"github.com/ternarybob/reperio/internal/services/normalizer"
)

const syntheticHost = "https://jobs.example.invalid/"

const generatorInstruction = `You generate plausible example job listings for a role and location when live sources return nothing. Listings must look realistic (real-sounding companies, sensible salary and experience ranges for the market) but must never impersonate real postings.`

// Generator produces synthetic listings when every live source comes
// back empty, so the caller always has something to show. Synthetic
// records are explicitly marked and carry placeholder URLs that cannot
// be mistaken for live application links.
type Generator struct {
	provider  interfaces.ContentProvider
	modelList []string
	count     int
	logger    arbor.ILogger
}

// NewGenerator creates a synthetic listing generator
func NewGenerator(provider interfaces.ContentProvider, cfg *common.Config, logger arbor.ILogger) *Generator {
	return &Generator{
		provider:  provider,
		modelList: cfg.Gemini.Models,
		count:     cfg.Fallback.Count,
		logger:    logger,
	}
}

// Generate returns synthetic listings for the role and location.
// Failure is silent by contract: a broken generator returns an empty
// slice and the caller reports the live-source errors instead.
func (g *Generator) Generate(ctx context.Context, role, location string) []models.NormalizedJobRecord {
	count := g.count
	if count <= 0 {
		count = 8
	}

	prompt := fmt.Sprintf(
		"Generate %d example job listings for the role %q in %q. Respond with a JSON array; each object has job_title, company_name, location, experience_min, experience_max, salary, description and posted fields.",
		count, role, location)

	request := &interfaces.ContentRequest{
		Messages:          []interfaces.Message{{Role: "user", Content: prompt}},
		Temperature:       0.7,
		SystemInstruction: generatorInstruction,
	}

	response, err := llm.GenerateWithModelFallback(ctx, g.provider, g.modelList, request, llm.DefaultModelSwitchDelay, g.logger)
	if err != nil {
		g.logger.Warn().Err(err).Msg("Synthetic generation failed, returning nothing")
		return nil
	}

	var records []models.NormalizedJobRecord
	if err := json.Unmarshal([]byte(normalizer.StripMarkdownFences(response.Text)), &records); err != nil {
		g.logger.Warn().Err(err).Msg("Synthetic generation returned undecodable output")
		return nil
	}

	kept := records[:0]
	for i := range records {
		// The request itself supplies the role and location defaults;
		// only a record with no usable company is dropped.
		if strings.TrimSpace(records[i].JobTitle) == "" {
			records[i].JobTitle = role
		}
		if strings.TrimSpace(records[i].Location) == "" {
			records[i].Location = location
		}
		if err := records[i].Validate(); err != nil {
			continue
		}
		records[i].ID = common.NewJobID()
		records[i].Source = "Synthetic"
		records[i].ApplicationURL = syntheticURL(records[i].CompanyName)
		kept = append(kept, records[i])
	}

	g.logger.Info().
		Int("count", len(kept)).
		Str("role", role).
		Msg("Generated synthetic listings")

	return kept
}

// syntheticURL builds an unmistakably fake placeholder link
func syntheticURL(company string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(company), "-"))
	if slug == "" {
		slug = "listing"
	}
	return syntheticHost + slug
}
