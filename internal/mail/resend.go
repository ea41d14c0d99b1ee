package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendBaseURL = "https://api.resend.com"

// ResendSender delivers emails through the Resend HTTP API.
type ResendSender struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewResendSender builds a ResendSender.
func NewResendSender(apiKey string, timeout time.Duration) *ResendSender {
	return &ResendSender{
		baseURL: resendBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send posts the message to /emails and returns the message id.
func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	payload := resendRequest{
		From:    fmt.Sprintf("%s <%s>", msg.FromName, msg.FromAddr),
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("resend status %d: %s", resp.StatusCode, string(detail))
	}

	var parsed resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode resend response: %w", err)
	}
	return parsed.ID, nil
}
