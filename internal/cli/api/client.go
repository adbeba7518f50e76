// Package api — тонкий HTTP-клиент удалённого API дневника.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxBody ограничивает чтение тела ответа.
const maxBody = 8 << 20

// TokenSource отдаёт текущий bearer-токен. Пустая строка — без авторизации.
type TokenSource interface {
	Token() (string, error)
}

// TokenFunc адаптер функции к TokenSource.
type TokenFunc func() (string, error)

func (f TokenFunc) Token() (string, error) { return f() }

// StaticToken — фиксированный токен.
type StaticToken string

func (s StaticToken) Token() (string, error) { return string(s), nil }

// Client — клиент REST API с префиксом /api.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *zap.SugaredLogger
}

// New создаёт клиента. timeout <= 0 означает 30 секунд.
func New(baseURL string, timeout time.Duration, tokens TokenSource, log *zap.SugaredLogger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// WithHTTPClient подменяет http.Client (тесты, кастомный транспорт).
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// BaseURL возвращает адрес сервера.
func (c *Client) BaseURL() string { return c.baseURL }

// do выполняет запрос и возвращает статус и тело. Ошибки сети — SyncTransportError без статуса.
func (c *Client) do(ctx context.Context, op, method, path string, payload any, auth bool) (int, []byte, error) {
	url := c.baseURL + path
	fail := func(status int, body []byte, err error) *SyncTransportError {
		return &SyncTransportError{Op: op, Method: method, URL: url, StatusCode: status, Body: string(body), Err: err}
	}

	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: encode payload: %w", op, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return 0, nil, fail(0, nil, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if auth {
		tok, err := c.tokens.Token()
		if err != nil {
			return 0, nil, fmt.Errorf("%s: load token: %w", op, err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debugw("request failed", "op", op, "method", method, "url", url, "err", err)
		return 0, nil, fail(0, nil, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp.StatusCode, nil, fail(resp.StatusCode, nil, err)
	}
	c.log.Debugw("request done", "op", op, "method", method, "url", url,
		"status", resp.StatusCode, "duration", time.Since(start))
	return resp.StatusCode, body, nil
}

func ok(status int) bool { return status >= 200 && status < 300 }

// isSuccessBody принимает `success` и JSON-строку "success".
func isSuccessBody(body []byte) bool {
	s := strings.TrimSpace(string(body))
	if s == "success" {
		return true
	}
	var q string
	if err := json.Unmarshal([]byte(s), &q); err == nil {
		return strings.TrimSpace(q) == "success"
	}
	return false
}

// mutate отправляет изменение и проверяет ответ "success".
func (c *Client) mutate(ctx context.Context, op, method, path string, payload any) error {
	status, body, err := c.do(ctx, op, method, path, payload, true)
	if err != nil {
		return err
	}
	if !ok(status) || !isSuccessBody(body) {
		return &SyncTransportError{Op: op, Method: method, URL: c.baseURL + path, StatusCode: status, Body: string(body)}
	}
	return nil
}

// callJSON выполняет запрос и декодирует JSON-ответ в out.
func (c *Client) callJSON(ctx context.Context, op, method, path string, payload, out any, auth bool) error {
	status, body, err := c.do(ctx, op, method, path, payload, auth)
	if err != nil {
		return err
	}
	url := c.baseURL + path
	if !ok(status) {
		return &SyncTransportError{Op: op, Method: method, URL: url, StatusCode: status, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &SyncTransportError{Op: op, Method: method, URL: url, StatusCode: status, Body: string(body),
			Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
