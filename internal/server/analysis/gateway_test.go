package analysis

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/proposalkeeper/internal/logging"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/settings"
)

type staticSettings struct {
	s settings.Settings
}

func (f *staticSettings) Get(ctx context.Context) (settings.Settings, error) {
	return f.s, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	src := &staticSettings{s: settings.Defaults()}
	return NewGateway("test-key", srv.URL, 5*time.Second, src, testLogger())
}

func candidateResponse(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"parts": []map[string]any{{"text": text}}},
			"finishReason": "STOP",
		}},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

const sampleAnalysis = `{
	"summary": "Solid proposal with unclear warranty terms.",
	"extracted_fields": [{"name": "Unit Price", "value": "120", "unit": "EUR", "page_ref": 3}],
	"gaps": ["Warranty period: Not Provided"],
	"ambiguities": [{"text_snippet": "delivery up to 6 weeks", "reason": "vague timeframe", "page_ref": "2"}],
	"draft_email": {"subject": "Clarifications", "body": "Dear team,"},
	"draft_rfq": {"subject": "RFQ", "body": "Please quote."},
	"score": 74,
	"scoring_breakdown": [{"category": "Price & Commercial Terms", "score": 80, "weight": 0.3, "reasoning": "clear pricing"}],
	"score_explanation": ["Pricing complete", "Warranty missing"],
	"vendor_check_inputs": {"registered_name": "Acme GmbH"},
	"vendor_identification": {"vendor_name": "Acme GmbH", "confidence_level": "High", "evidence": [{"text_snippet": "Acme GmbH", "page_ref": 1}]},
	"history_log": "Analysis performed."
}`

func TestAnalyze_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest

	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		io.WriteString(w, candidateResponse(sampleAnalysis))
	})

	result, err := g.Analyze(context.Background(), []byte("%PDF-1.4 sample"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "/models/gemini-3-flash-preview:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	require.NotNil(t, gotReq.SystemInstruction)
	assert.Contains(t, gotReq.SystemInstruction.Parts[0].Text, "strictly output ONLY valid JSON")
	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, "application/pdf", gotReq.Contents[0].Parts[0].InlineData.MimeType)

	assert.Equal(t, 74, result.Score)
	assert.Equal(t, "Acme GmbH", result.VendorName())
	assert.Equal(t, PageRef("3"), result.ExtractedFields[0].PageRef)
	assert.Equal(t, PageRef("2"), result.Ambiguities[0].PageRef)
	assert.Equal(t, "Clarifications", result.DraftEmail.Subject)
}

func TestAnalyze_ModelFromSettings(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, candidateResponse(sampleAnalysis))
	}))
	defer srv.Close()

	custom := settings.Defaults()
	custom.AIModel = "gemini-3-pro"
	g := NewGateway("test-key", srv.URL, 5*time.Second, &staticSettings{s: custom}, testLogger())

	_, err := g.Analyze(context.Background(), []byte("doc"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/models/gemini-3-pro:generateContent", gotPath)
}

func TestAnalyze_StripsMarkdownFence(t *testing.T) {
	fenced := "```json\n" + sampleAnalysis + "\n```"
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, candidateResponse(fenced))
	})

	result, err := g.Analyze(context.Background(), []byte("doc"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, 74, result.Score)
}

func TestAnalyze_MissingAPIKey(t *testing.T) {
	g := NewGateway("", "http://unused", time.Second, &staticSettings{s: settings.Defaults()}, testLogger())

	_, err := g.Analyze(context.Background(), []byte("doc"), "application/pdf")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestAnalyze_FinishReasons(t *testing.T) {
	tests := []struct {
		reason string
		want   error
	}{
		{"SAFETY", ErrSafetyBlocked},
		{"RECITATION", ErrRecitationBlocked},
		{"STOP", ErrEmptyResponse},
		{"MAX_TOKENS", ErrEmptyResponse},
	}
	for _, tc := range tests {
		t.Run(tc.reason, func(t *testing.T) {
			g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				resp := map[string]any{
					"candidates": []map[string]any{{"finishReason": tc.reason}},
				}
				json.NewEncoder(w).Encode(resp)
			})
			_, err := g.Analyze(context.Background(), []byte("doc"), "application/pdf")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAnalyze_StatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`, ErrRateLimited},
		{"unavailable", http.StatusServiceUnavailable, `{"error":{"code":503,"message":"The model is overloaded","status":"UNAVAILABLE"}}`, ErrUnavailable},
		{"server error", http.StatusInternalServerError, "boom", ErrUnavailable},
		{"bad api key", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`, ErrBadCredential},
		{"forbidden", http.StatusForbidden, `{"error":{"code":403,"message":"Permission denied","status":"PERMISSION_DENIED"}}`, ErrBadCredential},
		{"bad request", http.StatusBadRequest, `{"error":{"code":400,"message":"Unsupported file format","status":"INVALID_ARGUMENT"}}`, ErrBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			})
			_, err := g.Analyze(context.Background(), []byte("doc"), "application/pdf")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAnalyze_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	g := NewGateway("test-key", srv.URL, time.Second, &staticSettings{s: settings.Defaults()}, testLogger())
	_, err := g.Analyze(context.Background(), []byte("doc"), "application/pdf")
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestAnalyze_MalformedOutput(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, candidateResponse("not json at all"))
	})
	_, err := g.Analyze(context.Background(), []byte("doc"), "application/pdf")
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestAnalyze_ScoreOutOfRange(t *testing.T) {
	bad := strings.Replace(sampleAnalysis, `"score": 74`, `"score": 140`, 1)
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, candidateResponse(bad))
	})
	_, err := g.Analyze(context.Background(), []byte("doc"), "application/pdf")
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(ErrRateLimited), "Traffic Limit Exceeded")
	assert.Contains(t, UserMessage(ErrSafetyBlocked), "safety filters")
	assert.Contains(t, UserMessage(ErrMissingAPIKey), "API Key is missing")
	assert.Equal(t, "An unexpected error occurred.", UserMessage(context.Canceled))
}
