package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/huangang/projectpulse/internal/config"
	"github.com/huangang/projectpulse/pkg/logger"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

const defaultGenerationTimeout = 60 * time.Second

// GenerationResult is the raw narrative plus the source that produced it.
type GenerationResult struct {
	Content          string
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Latency          time.Duration
}

// Generator sends one prompt to a text-generation backend.
type Generator interface {
	Validate() error
	Generate(ctx context.Context, prompt string) (*GenerationResult, error)
	// Source names the provider and model a call is sent to, so failed
	// calls can be attributed without a result.
	Source() (provider, model string)
}

var defaultModels = map[string]string{
	"gemini":    "gemini-2.5-flash",
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-sonnet-4-20250514",
	"ollama":    "llama3",
}

// AIService is the Generator backed by the configured LLM provider.
// Calls are single-shot; a failure is returned to the caller without retry.
type AIService struct {
	config  *config.LLMConfig
	timeout time.Duration
}

func NewAIService(cfg *config.LLMConfig) *AIService {
	timeout := defaultGenerationTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &AIService{config: cfg, timeout: timeout}
}

// Validate reports missing settings before any store or network work is done.
func (s *AIService) Validate() error {
	switch s.config.Provider {
	case "gemini":
		if s.config.APIKey == "" {
			return &ConfigurationError{Setting: "GOOGLE_API_KEY"}
		}
	case "openai", "anthropic":
		if s.config.APIKey == "" {
			return &ConfigurationError{Setting: "LLM_API_KEY"}
		}
	case "azure":
		if s.config.APIKey == "" {
			return &ConfigurationError{Setting: "LLM_API_KEY"}
		}
		if s.config.BaseURL == "" {
			return &ConfigurationError{Setting: "LLM_BASE_URL"}
		}
	case "ollama":
	default:
		return &DependencyUnavailableError{Provider: s.config.Provider, Detail: "unsupported provider"}
	}
	return nil
}

func (s *AIService) Generate(ctx context.Context, prompt string) (*GenerationResult, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.callLLM(ctx, prompt)
	if err != nil {
		logger.Warnf("[AI] %s call failed after %s: %v", s.config.Provider, time.Since(start), err)
		return nil, classifyError(s.config.Provider, err)
	}
	if strings.TrimSpace(result.Content) == "" {
		return nil, &GenerationFailedError{Provider: s.config.Provider, Detail: "empty response"}
	}

	result.Provider = s.config.Provider
	result.Latency = time.Since(start)
	return result, nil
}

func (s *AIService) callLLM(ctx context.Context, prompt string) (*GenerationResult, error) {
	logger.Infof("[AI] Using provider: %s, model: %s, baseURL: %s", s.config.Provider, s.config.Model, s.config.BaseURL)

	switch s.config.Provider {
	case "anthropic":
		return s.callAnthropic(ctx, prompt)
	case "ollama":
		return s.callOllama(ctx, prompt)
	case "azure":
		return s.callAzure(ctx, prompt)
	case "openai":
		return s.callOpenAI(ctx, prompt)
	default:
		return s.callGemini(ctx, prompt)
	}
}

func (s *AIService) temperature() float32 {
	if s.config.Temperature > 0 {
		return float32(s.config.Temperature)
	}
	return 0.3
}

func (s *AIService) maxTokens() int {
	if s.config.MaxTokens > 0 {
		return s.config.MaxTokens
	}
	return 2048
}

// callGemini handles Google Gemini API using the native SDK
func (s *AIService) callGemini(ctx context.Context, prompt string) (*GenerationResult, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini client error: %w", err)
	}

	model := s.modelOr(defaultModels["gemini"])
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(s.temperature()),
		MaxOutputTokens: int32(s.maxTokens()),
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	result := &GenerationResult{Content: resp.Text(), Model: model}
	if resp.UsageMetadata != nil {
		result.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	logger.Infof("[AI] Gemini response length: %d chars", len(result.Content))
	return result, nil
}

// callOpenAI handles OpenAI and OpenAI-compatible APIs (including custom endpoints)
func (s *AIService) callOpenAI(ctx context.Context, prompt string) (*GenerationResult, error) {
	clientConfig := openai.DefaultConfig(s.config.APIKey)
	if s.config.BaseURL != "" {
		clientConfig.BaseURL = s.config.BaseURL
	}
	return s.chatCompletion(ctx, openai.NewClientWithConfig(clientConfig), "OpenAI", s.modelOr(defaultModels["openai"]), prompt)
}

// callAzure uses Model as the deployment name and BaseURL as https://{resource}.openai.azure.com
func (s *AIService) callAzure(ctx context.Context, prompt string) (*GenerationResult, error) {
	clientConfig := openai.DefaultAzureConfig(s.config.APIKey, s.config.BaseURL)
	return s.chatCompletion(ctx, openai.NewClientWithConfig(clientConfig), "Azure OpenAI", s.config.Model, prompt)
}

func (s *AIService) chatCompletion(ctx context.Context, client *openai.Client, label, model, prompt string) (*GenerationResult, error) {
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: s.temperature(),
		MaxTokens:   s.maxTokens(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", label, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", label)
	}

	content := resp.Choices[0].Message.Content
	logger.Infof("[AI] %s response length: %d chars", label, len(content))
	return &GenerationResult{
		Content:          content,
		Model:            model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// callAnthropic handles Anthropic Claude API using the native SDK
func (s *AIService) callAnthropic(ctx context.Context, prompt string) (*GenerationResult, error) {
	opts := []option.RequestOption{option.WithAPIKey(s.config.APIKey)}
	if s.config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.config.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	model := s.modelOr(defaultModels["anthropic"])
	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(s.maxTokens()),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	logger.Infof("[AI] Anthropic response length: %d chars", content.Len())
	return &GenerationResult{
		Content:          content.String(),
		Model:            model,
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
	}, nil
}

// callOllama handles a local Ollama server; no credential is needed.
func (s *AIService) callOllama(ctx context.Context, prompt string) (*GenerationResult, error) {
	baseURL := s.config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	model := s.modelOr(defaultModels["ollama"])
	stream := false
	result := &GenerationResult{Model: model}
	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model:  model,
		Stream: &stream,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Options: map[string]interface{}{
			"temperature": s.temperature(),
			"num_predict": s.maxTokens(),
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		if resp.Done {
			result.PromptTokens = resp.PromptEvalCount
			result.CompletionTokens = resp.EvalCount
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Ollama API error: %w", err)
	}

	result.Content = content.String()
	logger.Infof("[AI] Ollama response length: %d chars", len(result.Content))
	return result, nil
}

// Source returns the configured provider and the model it resolves to.
func (s *AIService) Source() (provider, model string) {
	return s.config.Provider, s.modelOr(defaultModels[s.config.Provider])
}

func (s *AIService) modelOr(fallback string) string {
	if s.config.Model != "" {
		return s.config.Model
	}
	return fallback
}

// classifyError separates unreachable backends from backends that answered with an error.
func classifyError(provider string, err error) error {
	detail := truncate(err.Error(), maxErrorDetail)

	var urlErr *url.Error
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.As(err, &urlErr),
		errors.As(err, &netErr):
		return &DependencyUnavailableError{Provider: provider, Detail: detail}
	default:
		return &GenerationFailedError{Provider: provider, Detail: detail}
	}
}
