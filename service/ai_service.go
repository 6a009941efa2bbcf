package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"propcalc/domain"
	"propcalc/repository"
)

type AIService struct {
	apiKey     string
	apiURL     string
	model      string
	maxTokens  int
	httpClient *http.Client
	cache      repository.CacheRepository
	cacheTTL   time.Duration
	logger     *zap.Logger

	tools map[string]aiTool
	order []string
	group singleflight.Group
}

type AIOptions struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	CacheTTL  time.Duration
}

type OpenAIRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenAIResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func NewAIService(opts AIOptions, cache repository.CacheRepository, logger *zap.Logger) *AIService {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultAICacheTTL
	}
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	s := &AIService{
		apiKey:    opts.APIKey,
		apiURL:    baseURL + "/chat/completions",
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		cache:    cache,
		cacheTTL: opts.CacheTTL,
		logger:   logger,
		tools:    make(map[string]aiTool),
	}
	for _, t := range defaultTools() {
		s.tools[t.info.Name] = t
		s.order = append(s.order, t.info.Name)
	}
	return s
}

// Enabled reports whether an API key is configured.
func (s *AIService) Enabled() bool {
	return s.apiKey != ""
}

// Tools lists the catalogue in a stable order.
func (s *AIService) Tools() []domain.ToolInfo {
	out := make([]domain.ToolInfo, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tools[name].info)
	}
	return out
}

// Run validates input for the named tool, then returns the model's reply as
// JSON. Replies for identical prompts are served from the cache.
func (s *AIService) Run(ctx context.Context, name string, input domain.ToolInput) (json.RawMessage, error) {
	tool, ok := s.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: tool %q", ErrNotFound, name)
	}
	if !s.Enabled() {
		return nil, ErrAINotConfigured
	}
	input, err := cleanToolInput(tool.info, input)
	if err != nil {
		return nil, err
	}

	prompt, err := tool.render(input)
	if err != nil {
		return nil, fmt.Errorf("render prompt for %s: %w", name, err)
	}

	key := s.cacheKey(tool, prompt)
	if cached, ok := s.cache.Get(ctx, key); ok {
		s.logger.Debug("ai cache hit", zap.String("tool", name))
		return json.RawMessage(cached), nil
	}

	// The shared call outlives any one caller; the client timeout bounds it.
	ch := s.group.DoChan(key, func() (any, error) {
		callCtx := context.WithoutCancel(ctx)
		reply, err := s.callLLM(callCtx, tool.system, prompt, tool.info.JSONMode)
		if err != nil {
			return nil, err
		}
		data, err := toolData(reply, tool.info.JSONMode)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(callCtx, key, string(data), s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache ai reply", zap.String("tool", name), zap.Error(err))
		}
		return data, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		s.logger.Error("ai tool failed", zap.String("tool", name), zap.Error(res.Err))
		return nil, res.Err
	}

	s.logger.Info("ai tool completed", zap.String("tool", name), zap.Bool("shared", res.Shared))
	return res.Val.(json.RawMessage), nil
}

func (s *AIService) cacheKey(tool aiTool, prompt string) string {
	h := xxhash.New()
	for _, part := range []string{tool.info.Name, s.model, strconv.Itoa(s.maxTokens), tool.system, prompt} {
		_, _ = h.WriteString(part)
		_, _ = h.Write([]byte{0})
	}
	return "ai:" + strconv.FormatUint(h.Sum64(), 16)
}

// cleanToolInput trims the declared fields, drops unknown keys and checks
// required fields, lengths and options.
func cleanToolInput(info domain.ToolInfo, input domain.ToolInput) (domain.ToolInput, error) {
	clean := make(domain.ToolInput, len(info.Fields))
	verr := &ValidationError{}
	for _, f := range info.Fields {
		v := strings.TrimSpace(input[f.Name])
		limit := f.MaxLength
		if limit <= 0 || limit > MaxToolFieldLength {
			limit = MaxToolFieldLength
		}
		switch {
		case v == "" && f.Required:
			verr.add(f.Name, f.Label+" is required")
		case utf8.RuneCountInString(v) > limit:
			verr.add(f.Name, fmt.Sprintf("%s must be at most %d characters", f.Label, limit))
		case v != "" && len(f.Options) > 0 && !contains(f.Options, v):
			verr.add(f.Name, fmt.Sprintf("%s must be one of: %s", f.Label, strings.Join(f.Options, ", ")))
		}
		if v != "" {
			clean[f.Name] = v
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return clean, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// toolData shapes a model reply into the response payload.
func toolData(reply string, jsonMode bool) (json.RawMessage, error) {
	if jsonMode {
		reply = strings.TrimSpace(reply)
		if !json.Valid([]byte(reply)) {
			return nil, fmt.Errorf("%w: model returned invalid JSON", ErrUpstream)
		}
		return json.RawMessage(reply), nil
	}
	data, err := json.Marshal(map[string]string{"text": strings.TrimSpace(reply)})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *AIService) callLLM(ctx context.Context, system, prompt string, jsonMode bool) (string, error) {
	reqBody := OpenAIRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens: s.maxTokens,
	}
	if jsonMode {
		reqBody.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w (status %d): %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var openAIResp OpenAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrUpstream)
	}

	return openAIResp.Choices[0].Message.Content, nil
}
