package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrTimeout indica que la API RAG no respondió dentro del plazo.
	ErrTimeout = errors.New("rag api timeout")
	// ErrUpstream indica una respuesta de error de la API RAG.
	ErrUpstream = errors.New("rag api error")
)

// Message es un turno del historial enviado como contexto.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client define la interfaz hacia el servicio externo de respuestas RAG.
type Client interface {
	Ask(ctx context.Context, question string, history []Message) (string, error)
}

// HTTPClient implementa Client contra la API RAG por HTTP.
type HTTPClient struct {
	apiURL string
	apiKey string
	client *http.Client
	logger *zap.Logger
}

func NewHTTPClient(apiURL, apiKey string, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}
}

type askRequest struct {
	Question string    `json:"question"`
	History  []Message `json:"chat_history,omitempty"`
}

type askResponse struct {
	Answer   string `json:"answer"`
	Response string `json:"response"`
}

func (c *HTTPClient) Ask(ctx context.Context, question string, history []Message) (string, error) {
	bodyBytes, err := json.Marshal(askRequest{Question: question, History: history})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if c.logger != nil {
			c.logger.Warn("rag api error", zap.Int("status", resp.StatusCode))
		}
		return "", fmt.Errorf("%w: status=%d", ErrUpstream, resp.StatusCode)
	}

	var ar askResponse
	if err := json.Unmarshal(respBody, &ar); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	answer := ar.Answer
	if answer == "" {
		answer = ar.Response
	}
	if answer == "" {
		return "", fmt.Errorf("%w: empty answer", ErrUpstream)
	}
	return answer, nil
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
