// Package gemini is the adapter for the external generative-language
// API. It owns the exact request/response wire shape; callers only see
// prompts in and displayable text out.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"chatai/chatai/apperrors"
	"chatai/chatai/config"
	"chatai/chatai/utils/logging"
)

type Client struct {
	apiKey  string
	baseURL string
	model   string
	httpc   *http.Client

	systemInstruction string
	fallback          string
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		apiKey:            cfg.GeminiAPIKey,
		baseURL:           cfg.GeminiBaseURL,
		model:             cfg.GeminiModel,
		httpc:             http.DefaultClient,
		systemInstruction: cfg.SystemInstruction,
		fallback:          cfg.FallbackMessage,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Complete sends the prompt, with the fixed system instruction
// appended, and extracts the generated text. Single best-effort
// attempt: no retry, no timeout, no rate limiting.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.post(ctx, c.url("generateContent"), prompt)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		logging.ErrorLogger.Error("gemini request failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", b),
		)
		return "", apperrors.New(apperrors.Adapter, fmt.Sprintf("generative api returned %s", resp.Status))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", apperrors.Wrap(apperrors.Adapter, "malformed generative api response", err)
	}
	return extractText(parsed)
}

// CompleteOrFallback never fails: any adapter or transport error is
// logged and replaced with the configured fallback message, so the
// transcript always receives a displayable string.
func (c *Client) CompleteOrFallback(ctx context.Context, prompt string) string {
	text, err := c.Complete(ctx, prompt)
	if err != nil {
		logging.ErrorLogger.Error("chat generation error", zap.Error(err))
		return c.fallback
	}
	return text
}

// CompleteStream yields the answer incrementally from the streaming
// endpoint, which returns a JSON array of partial responses.
func (c *Client) CompleteStream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	ch := make(chan string)
	errCh := make(chan error, 1)

	resp, err := c.post(ctx, c.url("streamGenerateContent"), prompt)
	if err != nil {
		errCh <- err
		close(ch)
		close(errCh)
		return ch, errCh
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		errCh <- apperrors.New(apperrors.Adapter, fmt.Sprintf("generative api returned %s", resp.Status))
		close(ch)
		close(errCh)
		return ch, errCh
	}

	go func() {
		defer close(ch)
		defer close(errCh)
		defer resp.Body.Close()

		decoder := json.NewDecoder(resp.Body)
		if _, err := decoder.Token(); err != nil {
			errCh <- apperrors.Wrap(apperrors.Adapter, "malformed stream", err)
			return
		}
		for decoder.More() {
			var chunk generateResponse
			if err := decoder.Decode(&chunk); err != nil {
				errCh <- apperrors.Wrap(apperrors.Adapter, "malformed stream chunk", err)
				return
			}
			text, err := extractText(chunk)
			if err != nil {
				continue
			}
			select {
			case ch <- text:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, errCh
}

func (c *Client) post(ctx context.Context, url, prompt string) (*http.Response, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt + " " + c.systemInstruction}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Adapter, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Adapter, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Transport, "generative api unreachable", err)
	}
	return resp, nil
}

func (c *Client) url(op string) string {
	return fmt.Sprintf("%s/models/%s:%s?key=%s", c.baseURL, c.model, op, c.apiKey)
}

func extractText(resp generateResponse) (string, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.New(apperrors.Adapter, "generative api returned no candidates")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
