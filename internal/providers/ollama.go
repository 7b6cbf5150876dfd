package providers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const ollamaDefaultHost = "http://localhost:11434"

// Ollama implements the Generator interface for local Ollama servers and
// other servers speaking the same chat API (LM Studio).
type Ollama struct {
	model  string
	host   string
	apiKey string
	client *http.Client
}

// NewOllama creates a new Ollama provider. OLLAMA_HOST overrides the
// default local endpoint; CRITIQ_OLLAMA_API_KEY is optional and sent as a
// bearer token when set.
func NewOllama(model string) (*Ollama, error) {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = ollamaDefaultHost
	}
	return &Ollama{
		model:  model,
		host:   strings.TrimRight(host, "/"),
		apiKey: os.Getenv("CRITIQ_OLLAMA_API_KEY"),
		client: &http.Client{Timeout: 300 * time.Second},
	}, nil
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	body := ollamaRequest{
		Model: o.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Stream: false,
	}
	if req.Temperature > 0 || req.MaxTokens > 0 {
		body.Options = &ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		}
	}

	var headers map[string]string
	if o.apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + o.apiKey}
	}

	var resp GenerateResponse
	err := retryWithBackoff(ctx, 3, func() error {
		var result ollamaResponse
		if err := postJSON(ctx, o.client, o.host+"/api/chat", headers, body, &result); err != nil {
			return err
		}

		if result.Message.Content == "" {
			return fmt.Errorf("no content in response")
		}

		resp = GenerateResponse{
			Content:    result.Message.Content,
			TokensUsed: result.PromptEvalCount + result.EvalCount,
		}
		return nil
	})

	return resp, err
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Message         ollamaMessage `json:"message"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}
