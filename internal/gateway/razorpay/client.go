package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
	HTTP      *http.Client
}

type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
	logger    *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.KeyID) == "" || strings.TrimSpace(cfg.KeySecret) == "" {
		return nil, errors.New("razorpay key id and key secret are required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid razorpay base url %q: %w", cfg.BaseURL, err)
	}
	hc := cfg.HTTP
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   baseURL,
		http:      hc,
		logger:    logger,
	}, nil
}

func (c *Client) CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLink, error) {
	var out PaymentLink
	if err := c.do(ctx, http.MethodPost, "/v1/payment_links", req, &out); err != nil {
		return nil, err
	}
	if out.ID == "" || out.ShortURL == "" {
		return nil, &Error{Kind: ErrorKindResponse, Description: "payment link response missing id or short_url"}
	}
	return &out, nil
}

func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, &Error{Kind: ErrorKindBadRequest, Description: "payment id required"}
	}
	var out Payment
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: ErrorKindBadRequest, Description: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: ErrorKindBadRequest, Description: fmt.Sprintf("build request: %v", err)}
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Razorpay request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &Error{Kind: ErrorKindTransport, Description: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: ErrorKindTransport, StatusCode: resp.StatusCode, Description: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		gwErr := classify(resp.StatusCode, respBody)
		c.logger.Warn("Razorpay returned an error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("code", gwErr.Code))
		return gwErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Kind: ErrorKindResponse, StatusCode: resp.StatusCode, Description: fmt.Sprintf("decode response: %v", err)}
	}
	c.logger.Debug("Razorpay request succeeded", zap.String("method", method), zap.String("path", path))
	return nil
}

func classify(statusCode int, body []byte) *Error {
	e := &Error{StatusCode: statusCode}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Description != "" {
		e.Code = eb.Error.Code
		e.Description = eb.Error.Description
	} else {
		e.Description = strings.TrimSpace(string(body))
		if e.Description == "" {
			e.Description = http.StatusText(statusCode)
		}
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Kind = ErrorKindAuthentication
	case statusCode >= 500:
		e.Kind = ErrorKindServer
	default:
		e.Kind = ErrorKindBadRequest
	}
	return e
}
