// Package httpx holds the JSON-over-HTTP plumbing shared by the chat
// client and other gateway callers.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"chatai/chatai/apperrors"
)

// ErrorEnvelope is the gateway's error body shape.
type ErrorEnvelope struct {
	Error struct {
		Kind    apperrors.Kind `json:"kind"`
		Message string         `json:"message"`
	} `json:"error"`
}

// PostJSON sends body as JSON and decodes a 2xx response into out.
// A connection-level failure becomes a Transport error; a non-2xx
// response is decoded into the gateway's error envelope and returned
// with its original kind.
func PostJSON(ctx context.Context, client *http.Client, url, bearer string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperrors.Wrap(apperrors.Validation, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return apperrors.Wrap(apperrors.Validation, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.Transport, "server unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.Wrap(apperrors.Transport, "decode response", err)
		}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var envelope ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Kind != "" {
		return apperrors.New(envelope.Error.Kind, envelope.Error.Message)
	}
	return apperrors.New(kindForStatus(resp.StatusCode), resp.Status)
}

func kindForStatus(status int) apperrors.Kind {
	switch status {
	case http.StatusBadRequest:
		return apperrors.Validation
	case http.StatusUnauthorized:
		return apperrors.Auth
	case http.StatusConflict:
		return apperrors.Conflict
	default:
		return apperrors.Internal
	}
}
