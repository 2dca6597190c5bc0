package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiAdapter implements ProviderAdapter against the Gemini generateContent
// REST protocol, including function calling.
type GeminiAdapter struct {
	apiKey          string
	baseURL         string
	model           string
	maxOutputTokens int
	httpClient      *http.Client
}

// GeminiOption configures a GeminiAdapter.
type GeminiOption func(*GeminiAdapter)

// WithGeminiBaseURL overrides the API base URL (used in tests).
func WithGeminiBaseURL(url string) GeminiOption {
	return func(a *GeminiAdapter) {
		a.baseURL = strings.TrimRight(url, "/")
	}
}

// WithGeminiModel sets the default model used when a request omits one.
func WithGeminiModel(model string) GeminiOption {
	return func(a *GeminiAdapter) {
		a.model = model
	}
}

// WithGeminiHTTPClient substitutes the HTTP client.
func WithGeminiHTTPClient(client *http.Client) GeminiOption {
	return func(a *GeminiAdapter) {
		a.httpClient = client
	}
}

// NewGeminiAdapter creates an adapter for the given API key.
func NewGeminiAdapter(apiKey string, opts ...GeminiOption) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, &ConfigurationError{ClientError: ClientError{
			Message: "gemini API key is required",
		}}
	}
	a := &GeminiAdapter{
		apiKey:          apiKey,
		baseURL:         defaultGeminiBaseURL,
		model:           DefaultModel("gemini"),
		maxOutputTokens: 8192,
		httpClient:      &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Name returns the provider identifier.
func (a *GeminiAdapter) Name() string { return "gemini" }

// Wire types for the generateContent protocol.

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text             string                  `json:"text,omitempty"`
	FunctionCall     *geminiFunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *geminiFunctionResponse `json:"functionResponse,omitempty"`
}

type geminiFunctionCall struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

type geminiFunctionResponse struct {
	Name     string                 `json:"name"`
	Response map[string]interface{} `json:"response"`
}

type geminiFunctionDeclaration struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

type geminiTool struct {
	FunctionDeclarations []geminiFunctionDeclaration `json:"functionDeclarations"`
}

type geminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
	Tools             []geminiTool           `json:"tools,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
			Role  string       `json:"role"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Complete sends a blocking generateContent request.
func (a *GeminiAdapter) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = a.model
	}

	body, err := a.translateRequest(req)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, &ClientError{Message: "failed to marshal gemini request", Cause: err}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, model, a.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, &ClientError{Message: "failed to build gemini request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &AbortError{ClientError: ClientError{Message: "gemini request cancelled", Cause: ctx.Err()}}
		}
		return nil, &NetworkError{ClientError: ClientError{Message: "gemini request failed", Cause: err}}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &NetworkError{ClientError: ClientError{Message: "failed to read gemini response", Cause: err}}
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, ErrorFromStatusCode(httpResp.StatusCode, truncateBody(respBody), "gemini", retryAfterSeconds(httpResp))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &ClientError{Message: "failed to parse gemini response", Cause: err}
	}
	if parsed.Error != nil {
		return nil, ErrorFromStatusCode(parsed.Error.Code, parsed.Error.Message, "gemini", nil)
	}

	return a.translateResponse(model, &parsed), nil
}

// translateRequest converts unified messages into generateContent contents.
// System messages become the systemInstruction; tool results become
// user-role functionResponse parts.
func (a *GeminiAdapter) translateRequest(req Request) (*geminiRequest, error) {
	out := &geminiRequest{
		GenerationConfig: geminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: a.maxOutputTokens,
		},
	}
	if req.MaxTokens != nil {
		out.GenerationConfig.MaxOutputTokens = *req.MaxTokens
	}

	var systemParts []geminiPart
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			systemParts = append(systemParts, geminiPart{Text: msg.TextContent()})
		case RoleUser:
			out.Contents = append(out.Contents, geminiContent{
				Role:  "user",
				Parts: []geminiPart{{Text: msg.TextContent()}},
			})
		case RoleAssistant:
			var parts []geminiPart
			if text := msg.TextContent(); text != "" {
				parts = append(parts, geminiPart{Text: text})
			}
			for _, part := range msg.Content {
				if part.Kind != ContentToolCall || part.ToolCall == nil {
					continue
				}
				var args map[string]interface{}
				if len(part.ToolCall.Arguments) > 0 {
					if err := json.Unmarshal(part.ToolCall.Arguments, &args); err != nil {
						return nil, &ClientError{Message: "invalid tool call arguments in history", Cause: err}
					}
				}
				parts = append(parts, geminiPart{
					FunctionCall: &geminiFunctionCall{Name: part.ToolCall.Name, Args: args},
				})
			}
			if len(parts) > 0 {
				out.Contents = append(out.Contents, geminiContent{Role: "model", Parts: parts})
			}
		case RoleTool:
			var parts []geminiPart
			for _, part := range msg.Content {
				if part.Kind != ContentToolResult || part.ToolResult == nil {
					continue
				}
				var payload interface{}
				if len(part.ToolResult.Content) > 0 {
					_ = json.Unmarshal(part.ToolResult.Content, &payload)
				}
				parts = append(parts, geminiPart{
					FunctionResponse: &geminiFunctionResponse{
						Name: part.ToolResult.Name,
						Response: map[string]interface{}{
							"content":  payload,
							"is_error": part.ToolResult.IsError,
						},
					},
				})
			}
			if len(parts) > 0 {
				// v1beta accepts only user/model roles; function
				// responses ride as user content.
				out.Contents = append(out.Contents, geminiContent{Role: "user", Parts: parts})
			}
		}
	}

	if len(systemParts) > 0 {
		out.SystemInstruction = &geminiContent{Parts: systemParts}
	}

	if len(req.ToolDefs) > 0 {
		decls := make([]geminiFunctionDeclaration, len(req.ToolDefs))
		for i, td := range req.ToolDefs {
			decls[i] = geminiFunctionDeclaration{
				Name:        td.Name,
				Description: td.Description,
				Parameters:  td.Parameters,
			}
		}
		out.Tools = []geminiTool{{FunctionDeclarations: decls}}
	}

	return out, nil
}

// translateResponse converts a generateContent response into a unified
// Response. Gemini does not issue call IDs; fresh ones are generated so the
// host can pair results back to requests.
func (a *GeminiAdapter) translateResponse(model string, parsed *geminiResponse) *Response {
	resp := &Response{
		ID:       "resp_" + uuid.New().String()[:8],
		Model:    model,
		Provider: "gemini",
		Message:  Message{Role: RoleAssistant},
		Usage: Usage{
			InputTokens:  parsed.UsageMetadata.PromptTokenCount,
			OutputTokens: parsed.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  parsed.UsageMetadata.TotalTokenCount,
		},
		FinishReason: FinishReason{Reason: "stop"},
	}

	if len(parsed.Candidates) == 0 {
		return resp
	}

	cand := parsed.Candidates[0]
	resp.FinishReason.Raw = cand.FinishReason
	switch cand.FinishReason {
	case "MAX_TOKENS":
		resp.FinishReason.Reason = "length"
	case "SAFETY", "PROHIBITED_CONTENT":
		resp.FinishReason.Reason = "content_filter"
	}

	var textParts []string
	for _, part := range cand.Content.Parts {
		if part.Text != "" {
			textParts = append(textParts, part.Text)
		}
		if part.FunctionCall != nil {
			args, err := json.Marshal(part.FunctionCall.Args)
			if err != nil {
				args = []byte("{}")
			}
			resp.Message.Content = append(resp.Message.Content,
				ToolCallPart("call_"+uuid.New().String()[:8], part.FunctionCall.Name, args))
		}
	}
	if text := strings.TrimSpace(strings.Join(textParts, "")); text != "" {
		resp.Message.Content = append([]ContentPart{TextPart(text)}, resp.Message.Content...)
	}
	if len(resp.ToolCalls()) > 0 {
		resp.FinishReason.Reason = "tool_calls"
	}

	return resp
}

func retryAfterSeconds(resp *http.Response) *float64 {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return nil
	}
	var secs float64
	if _, err := fmt.Sscanf(header, "%f", &secs); err != nil {
		return nil
	}
	return &secs
}

func truncateBody(body []byte) string {
	const limit = 512
	s := string(body)
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
