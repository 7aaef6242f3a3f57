package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// SignatureHeaders are the headers receivers use to authenticate a
// delivery. The signature is bound to the timestamp to prevent replays.
type SignatureHeaders struct {
	Signature string
	Timestamp int64
	ID        string
}

// Headers returns the signature headers as a map for HTTP header setting.
func (s SignatureHeaders) Headers() map[string]string {
	return map[string]string{
		"X-Webhook-Signature": s.Signature,
		"X-Webhook-Timestamp": strconv.FormatInt(s.Timestamp, 10),
		"X-Webhook-ID":        s.ID,
	}
}

// SignPayload creates an HMAC-SHA256 signature over timestamp + "." +
// payload, the scheme most webhook receivers already know how to verify.
func SignPayload(secret string, payload []byte) (SignatureHeaders, error) {
	if secret == "" {
		return SignatureHeaders{}, errors.Join(ErrInvalidConfiguration, errors.New("secret is required"))
	}
	if len(payload) == 0 {
		return SignatureHeaders{}, errors.Join(ErrInvalidPayload, errors.New("payload cannot be empty"))
	}

	timestamp := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)

	return SignatureHeaders{
		Signature: hex.EncodeToString(mac.Sum(nil)),
		Timestamp: timestamp,
		ID:        uuid.NewString(),
	}, nil
}

// Sender delivers webhook payloads with retries. The HTTP client is reused
// across deliveries for connection pooling.
type Sender struct {
	client     *http.Client
	attempts   int
	retryDelay time.Duration
}

// SenderOption configures a Sender.
type SenderOption func(*Sender)

// WithHTTPClient substitutes the HTTP client, e.g. for tests.
func WithHTTPClient(client *http.Client) SenderOption {
	return func(s *Sender) {
		if client != nil {
			s.client = client
		}
	}
}

// WithAttempts sets how many delivery attempts are made (default 3).
func WithAttempts(n int) SenderOption {
	return func(s *Sender) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithRetryDelay sets the base delay between attempts; attempt n waits
// n times the base (default 1s).
func WithRetryDelay(d time.Duration) SenderOption {
	return func(s *Sender) {
		if d > 0 {
			s.retryDelay = d
		}
	}
}

// NewSender creates a webhook sender.
func NewSender(opts ...SenderOption) *Sender {
	s := &Sender{
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		attempts:   3,
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send marshals data to JSON and POSTs it to url, signing with secret when
// one is configured for the endpoint. Non-2xx responses and transport
// errors are retried with linear backoff; the last error is returned when
// every attempt fails.
func (s *Sender) Send(ctx context.Context, url, secret string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return errors.Join(ErrInvalidPayload, err)
	}

	var headers map[string]string
	if secret != "" {
		signed, err := SignPayload(secret, payload)
		if err != nil {
			return err
		}
		headers = signed.Headers()
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return errors.Join(ErrDeliveryFailed, ctx.Err())
			case <-time.After(time.Duration(attempt-1) * s.retryDelay):
			}
		}

		lastErr = s.deliver(ctx, url, payload, headers)
		if lastErr == nil {
			return nil
		}
	}

	return errors.Join(ErrDeliveryFailed, lastErr)
}

func (s *Sender) deliver(ctx context.Context, url string, payload []byte, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
