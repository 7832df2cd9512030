package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/grandrevier/concierge-core/core/llms"
	"github.com/grandrevier/concierge-core/internal/utils"
	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	chatCompletionsURL = "https://api.groq.com/openai/v1/chat/completions"

	defaultModel            = "llama-3.3-70b-versatile"
	defaultTransientRetries = 2
)

// Client is a chat-completions reasoning client. A single Respond call maps
// to a single model round trip: tool calls are returned to the caller, never
// executed here.
type Client struct {
	apiKey  string
	model   string
	retries int

	httpClient *http.Client
}

type ClientOption func(*Client)

// WithModel overrides the default model.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTransientRetries sets how many times a failed round trip is retried
// before the failure is surfaced. Only transport errors, rate limiting, and
// server-side failures are retried.
func WithTransientRetries(retries int) ClientOption {
	return func(c *Client) {
		if retries >= 0 {
			c.retries = retries
		}
	}
}

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq api key not found")
	}

	client := &Client{
		apiKey:  apiKey,
		model:   defaultModel,
		retries: defaultTransientRetries,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Respond sends the full conversation history and tool catalog to the model
// and returns its next turn. The response either carries final content or
// tool calls to execute; it is never acted on here.
func (c *Client) Respond(ctx context.Context, history []llms.Message, catalog []llms.Tool) (*llms.Response, error) {
	ctx, span := tracer.Start(ctx, "prompt llm")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.history_length", len(history)),
		attribute.Int("llm.tools", len(catalog)),
	)

	reqBody := requestBody{
		Model:    c.model,
		Messages: toMessages(history),
		Tools:    toWireTools(catalog),
	}
	if len(reqBody.Tools) > 0 {
		reqBody.ToolChoice = utils.Ptr("auto")
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling JSON: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		response, retryable, err := c.roundTrip(ctx, requestBodyBytes)
		if err == nil {
			return response, nil
		}

		lastErr = err
		if !retryable {
			break
		}
		logger.WarnContext(ctx, "retrying reasoning call",
			"attempt", attempt+1, "error", err)
	}

	err = fmt.Errorf("%w: %w", llms.ErrUnavailable, lastErr)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return nil, err
}

func (c *Client) roundTrip(ctx context.Context, body []byte) (*llms.Response, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsURL, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode >= http.StatusInternalServerError
		return nil, retryable, fmt.Errorf("non-OK HTTP status: %s", resp.Status)
	}

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("error reading response: %w", err)
	}

	var parsed responseBody
	if err := json.Unmarshal(responseBytes, &parsed); err != nil {
		return nil, false, fmt.Errorf("error unmarshalling JSON: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, false, fmt.Errorf("no choices in response")
	}

	choice := parsed.Choices[0].Message
	return &llms.Response{
		Content:   choice.Content,
		ToolCalls: fromToolCalls(choice.ToolCalls),
	}, false, nil
}

func toWireTools(catalog []llms.Tool) []wireTool {
	var tools []wireTool
	for _, tool := range catalog {
		tools = append(tools, wireTool{
			Type: "function",
			Function: wireToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}
	return tools
}

type requestBody struct {
	Model      string     `json:"model"`
	Messages   []message  `json:"messages"`
	ToolChoice *string    `json:"tool_choice,omitempty"`
	Tools      []wireTool `json:"tools,omitempty"`
}

type wireTool struct {
	Type     string           `json:"type"`
	Function wireToolFunction `json:"function"`
}

type wireToolFunction struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

type responseBody struct {
	Choices []struct {
		Message struct {
			Role      string     `json:"role"`
			Content   string     `json:"content"`
			ToolCalls []toolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int     `json:"prompt_tokens"`
		CompletionTokens int     `json:"completion_tokens"`
		TotalTokens      int     `json:"total_tokens"`
		TotalTime        float64 `json:"total_time"`
	} `json:"usage"`
}
