package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/proposalkeeper/internal/logging"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/settings"
)

const fallbackModel = "gemini-3-flash-preview"

// SettingsSource yields the current prompt configuration for each request,
// so settings edits take effect without a restart.
type SettingsSource interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// Gateway sends proposal documents to a generateContent-style model API and
// parses the structured analysis out of the response.
type Gateway struct {
	apiKey   string
	baseURL  string
	client   *http.Client
	settings SettingsSource
	log      logging.Logger
}

func NewGateway(apiKey, baseURL string, timeout time.Duration, src SettingsSource, log logging.Logger) *Gateway {
	return &Gateway{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		settings: src,
		log:      log,
	}
}

type generateRequest struct {
	SystemInstruction *contentBlock     `json:"system_instruction,omitempty"`
	Contents          []contentBlock    `json:"contents"`
	Tools             []tool            `json:"tools,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type contentBlock struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type tool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Analyze uploads the raw document bytes inline and returns the parsed
// analysis. Errors carry one of the package sentinels; UserMessage turns
// them into the text shown to the requester.
func (g *Gateway) Analyze(ctx context.Context, document []byte, mimeType string) (*Result, error) {
	if g.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg, err := g.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading prompt settings: %w", err)
	}
	model := cfg.AIModel
	if model == "" {
		model = fallbackModel
	}

	reqBody := generateRequest{
		SystemInstruction: &contentBlock{Parts: []part{{Text: systemInstruction(cfg)}}},
		Contents: []contentBlock{{Parts: []part{
			{InlineData: &inlineData{
				MimeType: mimeType,
				Data:     base64.StdEncoding.EncodeToString(document),
			}},
			{Text: analysisPrompt},
		}}},
		Tools:            []tool{{}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	started := time.Now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, respBody)
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	text, err := extractText(&out)
	if err != nil {
		return nil, err
	}

	result, err := parseResult(text)
	if err != nil {
		g.log.Error(ctx, "unparseable analysis output", "error", err, "model", model)
		return nil, err
	}

	g.log.Info(ctx, "proposal analyzed",
		"model", model,
		"vendor", result.VendorName(),
		"score", result.Score,
		"duration", time.Since(started).String(),
	)
	return result, nil
}

// classifyStatus maps a non-200 API response onto a sentinel.
func classifyStatus(status int, body []byte) error {
	var wrapped struct {
		Error *apiError `json:"error"`
	}
	message := string(body)
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error != nil {
		message = wrapped.Error.Message
	}
	lower := strings.ToLower(message)

	switch {
	case status == http.StatusTooManyRequests ||
		strings.Contains(lower, "quota") || strings.Contains(lower, "exhausted"):
		return fmt.Errorf("%w: %s", ErrRateLimited, message)
	case status == http.StatusServiceUnavailable || status >= 500:
		return fmt.Errorf("%w: %s", ErrUnavailable, message)
	case status == http.StatusUnauthorized || status == http.StatusForbidden ||
		strings.Contains(lower, "api key"):
		return fmt.Errorf("%w: %s", ErrBadCredential, message)
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, message)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrBadRequest, status, message)
	}
}

// extractText pulls the first candidate's text, translating finish reasons
// into sentinels when the model returned nothing usable.
func extractText(resp *generateResponse) (string, error) {
	var text string
	var reason string
	if len(resp.Candidates) > 0 {
		reason = resp.Candidates[0].FinishReason
		for _, p := range resp.Candidates[0].Content.Parts {
			text += p.Text
		}
	}
	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	switch reason {
	case "SAFETY":
		return "", ErrSafetyBlocked
	case "RECITATION":
		return "", ErrRecitationBlocked
	case "", "STOP":
		return "", ErrEmptyResponse
	default:
		return "", fmt.Errorf("%w: finish reason %s", ErrEmptyResponse, reason)
	}
}

// parseResult strips an optional markdown fence, decodes the JSON and
// checks the score bounds.
func parseResult(text string) (*Result, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[idx+1:]
		}
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if result.Score < 0 || result.Score > 100 {
		return nil, fmt.Errorf("%w: score %d out of range", ErrMalformedOutput, result.Score)
	}
	return &result, nil
}
