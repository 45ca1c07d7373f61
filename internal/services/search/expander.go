package search

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/services/llm"
	"github.com/ternarybob/reperio/internal/services/normalizer"
)

const maxExpandedTitles = 4

// TitleExpander widens a base role into related job titles with one LLM
// call, so sources that index strictly by title still surface adjacent
// listings. Failures fall back to the base role alone.
type TitleExpander struct {
	provider  interfaces.ContentProvider
	modelList []string
	logger    arbor.ILogger
}

// NewTitleExpander creates an LLM-backed title expander
func NewTitleExpander(provider interfaces.ContentProvider, cfg *common.Config, logger arbor.ILogger) *TitleExpander {
	return &TitleExpander{
		provider:  provider,
		modelList: cfg.Gemini.Models,
		logger:    logger,
	}
}

// ExpandTitles returns the base role plus up to four related titles
func (e *TitleExpander) ExpandTitles(ctx context.Context, role string) []string {
	request := &interfaces.ContentRequest{
		Messages: []interfaces.Message{{
			Role: "user",
			Content: "List up to " + strconv.Itoa(maxExpandedTitles) + " job titles closely related to \"" + role +
				"\". Respond with a JSON array of strings only.",
		}},
		OutputSchema: map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
	}

	titles := []string{role}

	response, err := llm.GenerateWithModelFallback(ctx, e.provider, e.modelList, request, llm.DefaultModelSwitchDelay, e.logger)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Title expansion failed, using base role only")
		return titles
	}

	var expanded []string
	if err := json.Unmarshal([]byte(normalizer.StripMarkdownFences(response.Text)), &expanded); err != nil {
		e.logger.Warn().Err(err).Msg("Title expansion returned undecodable output")
		return titles
	}

	seen := map[string]bool{strings.ToLower(role): true}
	for _, title := range expanded {
		title = strings.TrimSpace(title)
		if title == "" || seen[strings.ToLower(title)] {
			continue
		}
		seen[strings.ToLower(title)] = true
		titles = append(titles, title)
		if len(titles) > maxExpandedTitles {
			break
		}
	}
	return titles
}
