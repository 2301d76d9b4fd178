package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultCallTimeout = 120 * time.Second
	// defaultRequestsPerMinute keeps a benchmark run inside typical API quota.
	defaultRequestsPerMinute = 60
)

const solutionSystemPrompt = "You are a code generation engine. " +
	"Reply with only the code for the requested function, no prose, no markdown fences."

// OpenAIService implements Service against the OpenAI chat-completions API.
type OpenAIService struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	timeout time.Duration
	logger  *zap.Logger
}

// OpenAIOption configures an OpenAIService.
type OpenAIOption func(*OpenAIService)

// WithModel overrides the completion model.
func WithModel(model string) OpenAIOption {
	return func(s *OpenAIService) {
		if model != "" {
			s.model = model
		}
	}
}

// WithRequestsPerMinute adjusts the client-side rate limit.
func WithRequestsPerMinute(rpm int) OpenAIOption {
	return func(s *OpenAIService) {
		if rpm > 0 {
			s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
		}
	}
}

// WithCallTimeout bounds each API call so a hung capability cannot stall a
// run indefinitely.
func WithCallTimeout(d time.Duration) OpenAIOption {
	return func(s *OpenAIService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithOpenAILogger sets the structured logger.
func WithOpenAILogger(logger *zap.Logger) OpenAIOption {
	return func(s *OpenAIService) { s.logger = logger }
}

// NewOpenAIService creates an OpenAI-backed generation service.
func NewOpenAIService(apiKey string, opts ...OpenAIOption) (*OpenAIService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	s := &OpenAIService{
		client:  openai.NewClient(apiKey),
		model:   defaultModel,
		limiter: rate.NewLimiter(rate.Every(time.Minute/defaultRequestsPerMinute), 1),
		timeout: defaultCallTimeout,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *OpenAIService) GenerateSolution(ctx context.Context, agentID, prompt, language string) (string, error) {
	user := fmt.Sprintf("Language: %s\nAgent: %s\n\nTask:\n%s", language, agentID, prompt)
	return s.complete(ctx, solutionSystemPrompt, user)
}

func (s *OpenAIService) RefactorCode(ctx context.Context, source, language, directive string) (string, error) {
	system := "You are a refactoring engine. Rewrite the given code per the directive, " +
		"preserving behavior. Reply with only the code."
	return s.complete(ctx, system, fmt.Sprintf("Directive: %s\nLanguage: %s\n\n%s", directive, language, source))
}

func (s *OpenAIService) FormatCode(ctx context.Context, source, language string) (string, error) {
	system := "You are a code formatter. Normalize formatting without changing behavior. " +
		"Reply with only the code."
	return s.complete(ctx, system, fmt.Sprintf("Language: %s\n\n%s", language, source))
}

func (s *OpenAIService) DocumentCode(ctx context.Context, source, language string) (string, error) {
	system := "You are a documentation engine. Add concise doc comments to the given code " +
		"without changing behavior. Reply with only the code."
	return s.complete(ctx, system, fmt.Sprintf("Language: %s\n\n%s", language, source))
}

func (s *OpenAIService) FixCode(ctx context.Context, source, language, defect string) (string, error) {
	system := "You are a bug-fixing engine. Regenerate the given code with the described " +
		"defect corrected. Reply with only the code."
	return s.complete(ctx, system, fmt.Sprintf("Defect: %s\nLanguage: %s\n\n%s", defect, language, source))
}

func (s *OpenAIService) OptimizeCode(ctx context.Context, source, language string) (string, error) {
	system := "You are a performance-optimization engine. Regenerate the given code for " +
		"better runtime performance, preserving behavior. Reply with only the code."
	return s.complete(ctx, system, fmt.Sprintf("Language: %s\n\n%s", language, source))
}

func (s *OpenAIService) complete(ctx context.Context, system, user string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		s.logger.Warn("openai call failed", zap.Error(err))
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices returned")
	}

	return StripCodeFence(resp.Choices[0].Message.Content), nil
}

// StripCodeFence removes a surrounding markdown code fence if the model
// ignored the no-fences instruction.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	// Drop the opening fence (with optional language tag) and a closing fence.
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
