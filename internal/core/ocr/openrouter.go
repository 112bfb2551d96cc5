package ocr

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipeai/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1"

// transcribePrompt 要求視覺模型逐行轉寫收據，不做任何整理
const transcribePrompt = "Transcribe every line of this grocery receipt exactly as printed, one receipt line per output line. " +
	"Keep quantities, units and prices. Do not translate, summarize or add any commentary. Language hint: %s."

// OpenRouterOptions 視覺模型 OCR 設定
type OpenRouterOptions struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// OpenRouterEngine 透過 OpenRouter 的視覺模型轉寫收據影像
type OpenRouterEngine struct {
	client  *resty.Client
	opts    OpenRouterOptions
	encoder *ImageEncoder
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewOpenRouterEngine 創建 OpenRouter OCR 引擎
func NewOpenRouterEngine(opts OpenRouterOptions, encoder *ImageEncoder) *OpenRouterEngine {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultOpenRouterURL
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1000
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetAuthToken(opts.APIKey).
		SetHeader("HTTP-Referer", "https://recipeai.local").
		SetHeader("X-Title", "RecipeAI")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return &OpenRouterEngine{
		client:  client,
		opts:    opts,
		encoder: encoder,
	}
}

// Name 引擎名稱
func (e *OpenRouterEngine) Name() string {
	return "openrouter"
}

// Recognize 將影像編碼後送給視覺模型，回傳轉寫文字
func (e *OpenRouterEngine) Recognize(ctx context.Context, path, lang string) (string, error) {
	imageURL, err := e.encoder.EncodeFile(path)
	if err != nil {
		return "", err
	}

	req := map[string]interface{}{
		"model": e.opts.Model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": fmt.Sprintf(transcribePrompt, lang)},
					{"type": "image_url", "image_url": map[string]string{"url": imageURL}},
				},
			},
		},
		"max_tokens": e.opts.MaxTokens,
	}

	common.LogDebug("Sending receipt to OpenRouter",
		zap.String("model", e.opts.Model),
		zap.Int("encoded_length", len(imageURL)),
	)

	var result chatResponse
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&result).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		msg := resp.Status()
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		return "", fmt.Errorf("OpenRouter API returned error (status %d): %s", resp.StatusCode(), msg)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty content in OpenRouter response")
	}
	return stripCodeFence(content), nil
}

// stripCodeFence 去除模型偶爾包在外層的 ``` 區塊
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
