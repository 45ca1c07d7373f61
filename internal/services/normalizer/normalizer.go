package normalizer

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
)

// BatchSize is the number of raw records sent per LLM call. Small
// batches keep each prompt inside free-tier token limits and bound the
// blast radius of a malformed response to ten records.
const BatchSize = 10

const systemInstruction = `You are a job listing normalizer. You receive scraped job listings as JSON and return them cleaned and structured.

Rules:
- Clean the job title: remove promotional text, seniority stays.
- Clean the company name: remove legal suffixes (Pvt Ltd, Inc, LLC).
- Parse experience free text into integer year bounds. "3-6 Yrs" becomes min 3 max 6. Unknown becomes 0 and 0.
- Parse salary text into annual INR lakh bounds when stated, otherwise null bounds and salary "Not disclosed".
- Copy application_url and source verbatim. Never invent or alter URLs.
- Return one output object per input object, in the same order.`

// Service normalizes raw scraped records into canonical listings via
// structured LLM output, batching requests and falling back across
// models on quota exhaustion.
type Service struct {
	provider    interfaces.ContentProvider
	modelList   []string
	temperature float32
	logger      arbor.ILogger
	generateID  func() string
	retryCfg    *llm.RetryConfig
}

// NewService creates a normalizer backed by the given content provider
func NewService(provider interfaces.ContentProvider, cfg *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		provider:    provider,
		modelList:   cfg.Gemini.Models,
		temperature: cfg.Gemini.Temperature,
		logger:      logger,
		generateID:  common.NewJobID,
		retryCfg:    llm.NewDefaultRetryConfig(),
	}
}

// Normalize converts raw records to normalized ones in batches of ten.
// A failing batch contributes an error and no records; other batches
// are unaffected. The returned error slice is empty on full success.
func (s *Service) Normalize(ctx context.Context, raw []models.RawJobRecord) ([]models.NormalizedJobRecord, []string) {
	if len(raw) == 0 {
		return nil, nil
	}

	var normalized []models.NormalizedJobRecord
	var errs []string
	seenIDs := make(map[string]bool)

	for start := 0; start < len(raw); start += BatchSize {
		end := start + BatchSize
		if end > len(raw) {
			end = len(raw)
		}
		batch := raw[start:end]

		records, err := s.normalizeBatch(ctx, batch)
		if err != nil {
			s.logger.Warn().
				Int("batch_start", start).
				Int("batch_size", len(batch)).
				Err(err).
				Msg("Batch normalization failed")
			errs = append(errs, fmt.Sprintf("batch %d-%d: %v", start, end-1, err))
			continue
		}

		for i := range records {
			if err := records[i].Validate(); err != nil {
				errs = append(errs, fmt.Sprintf("batch %d-%d: %v", start, end-1, err))
				continue
			}
			records[i].EnsureID(s.generateID)
			// Regenerate IDs the model echoed across records
			for seenIDs[records[i].ID] {
				records[i].ID = s.generateID()
			}
			seenIDs[records[i].ID] = true
			normalized = append(normalized, records[i])
		}
	}

	return normalized, errs
}

// normalizeBatch sends one batch through the model fallback chain and
// decodes the structured response
func (s *Service) normalizeBatch(ctx context.Context, batch []models.RawJobRecord) ([]models.NormalizedJobRecord, error) {
	payload, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch: %w", err)
	}

	request := &interfaces.ContentRequest{
		Messages: []interfaces.Message{
			{Role: "user", Content: fmt.Sprintf("Normalize these %d job listings:\n\n%s", len(batch), payload)},
		},
		Temperature:       s.temperature,
		SystemInstruction: systemInstruction,
		OutputSchema:      recordArraySchema(),
	}

	response, err := llm.GenerateWithModelFallback(ctx, s.provider, s.modelList, request, s.retryCfg.ModelSwitchDelay, s.logger)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(response.Text)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("model returned no records for a %d-record batch", len(batch))
	}
	return records, nil
}

// decodeRecords parses the model response, tolerating markdown fences
// some models wrap around JSON despite structured-output mode
func decodeRecords(text string) ([]models.NormalizedJobRecord, error) {
	cleaned := StripMarkdownFences(text)

	var records []models.NormalizedJobRecord
	if err := json.Unmarshal([]byte(cleaned), &records); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}
	return records, nil
}

// StripMarkdownFences removes a surrounding ```json ... ``` block
func StripMarkdownFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
