package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/interfaces"
)

var llmDefault = common.LLMConfig{DefaultProvider: "gemini"}

// scriptedProvider returns canned responses/errors per model name
type scriptedProvider struct {
	responses map[string]*interfaces.ContentResponse
	errors    map[string]error
	calls     []string
}

func (p *scriptedProvider) GenerateContent(ctx context.Context, req *interfaces.ContentRequest) (*interfaces.ContentResponse, error) {
	p.calls = append(p.calls, req.Model)
	if err, ok := p.errors[req.Model]; ok {
		return nil, err
	}
	if resp, ok := p.responses[req.Model]; ok {
		return resp, nil
	}
	return &interfaces.ContentResponse{Text: "ok", Model: req.Model}, nil
}

func (p *scriptedProvider) Close() error { return nil }

func TestGenerateWithModelFallback_FirstModelSucceeds(t *testing.T) {
	p := &scriptedProvider{}
	resp, err := GenerateWithModelFallback(context.Background(), p,
		[]string{"gemini-2.0-flash-lite", "gemini-2.0-flash"},
		&interfaces.ContentRequest{}, 0, arbor.NewLogger())

	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash-lite", resp.Model)
	assert.Equal(t, []string{"gemini-2.0-flash-lite"}, p.calls)
}

func TestGenerateWithModelFallback_RotatesOnQuotaOnly(t *testing.T) {
	p := &scriptedProvider{
		errors: map[string]error{
			"gemini-2.0-flash-lite": errors.New("429 RESOURCE_EXHAUSTED"),
		},
	}
	resp, err := GenerateWithModelFallback(context.Background(), p,
		[]string{"gemini-2.0-flash-lite", "gemini-2.0-flash"},
		&interfaces.ContentRequest{}, 0, arbor.NewLogger())

	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", resp.Model)
	assert.Equal(t, []string{"gemini-2.0-flash-lite", "gemini-2.0-flash"}, p.calls)
}

func TestGenerateWithModelFallback_NonQuotaErrorAborts(t *testing.T) {
	p := &scriptedProvider{
		errors: map[string]error{
			"gemini-2.0-flash-lite": errors.New("invalid request payload"),
		},
	}
	_, err := GenerateWithModelFallback(context.Background(), p,
		[]string{"gemini-2.0-flash-lite", "gemini-2.0-flash"},
		&interfaces.ContentRequest{}, 0, arbor.NewLogger())

	require.Error(t, err)
	assert.Equal(t, []string{"gemini-2.0-flash-lite"}, p.calls, "must not rotate on non-quota errors")
}

func TestGenerateWithModelFallback_AllExhausted(t *testing.T) {
	quota := errors.New("429 quota exceeded")
	p := &scriptedProvider{
		errors: map[string]error{
			"a": quota,
			"b": quota,
		},
	}
	_, err := GenerateWithModelFallback(context.Background(), p,
		[]string{"a", "b"}, &interfaces.ContentRequest{}, 0, arbor.NewLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all models quota-exhausted")
	assert.Len(t, p.calls, 2)
}

func TestDetectProvider(t *testing.T) {
	cfgGemini := &ProviderFactory{llmConfig: &llmDefault}
	assert.Equal(t, ProviderClaude, cfgGemini.DetectProvider("claude-3-5-haiku-20241022"))
	assert.Equal(t, ProviderClaude, cfgGemini.DetectProvider("claude/claude-sonnet-4"))
	assert.Equal(t, ProviderGemini, cfgGemini.DetectProvider("gemini-2.0-flash"))
	assert.Equal(t, ProviderGemini, cfgGemini.DetectProvider(""))
	assert.Equal(t, ProviderGemini, cfgGemini.DetectProvider("unknown-model"))
}

func TestNormalizeModel(t *testing.T) {
	f := &ProviderFactory{llmConfig: &llmDefault}
	assert.Equal(t, "gemini-2.0-flash", f.NormalizeModel("gemini/gemini-2.0-flash"))
	assert.Equal(t, "claude-sonnet-4", f.NormalizeModel("anthropic/claude-sonnet-4"))
	assert.Equal(t, "gemini-2.0-flash", f.NormalizeModel("gemini-2.0-flash"))
}
