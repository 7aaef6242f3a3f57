package webhook_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagmate/flagmate/pkg/webhook"
)

func TestSignPayload(t *testing.T) {
	t.Parallel()

	t.Run("produces verifiable signature", func(t *testing.T) {
		t.Parallel()

		payload := []byte(`{"feature":"test"}`)
		headers, err := webhook.SignPayload("secret-key", payload)
		require.NoError(t, err)
		require.NotEmpty(t, headers.Signature)
		require.NotEmpty(t, headers.ID)

		mac := hmac.New(sha256.New, []byte("secret-key"))
		fmt.Fprintf(mac, "%d.%s", headers.Timestamp, payload)
		assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), headers.Signature)
	})

	t.Run("rejects empty secret", func(t *testing.T) {
		t.Parallel()

		_, err := webhook.SignPayload("", []byte("data"))
		require.ErrorIs(t, err, webhook.ErrInvalidConfiguration)
	})

	t.Run("rejects empty payload", func(t *testing.T) {
		t.Parallel()

		_, err := webhook.SignPayload("secret", nil)
		require.ErrorIs(t, err, webhook.ErrInvalidPayload)
	})

	t.Run("headers map carries all fields", func(t *testing.T) {
		t.Parallel()

		headers, err := webhook.SignPayload("secret", []byte("data"))
		require.NoError(t, err)

		m := headers.Headers()
		assert.Equal(t, headers.Signature, m["X-Webhook-Signature"])
		assert.Equal(t, strconv.FormatInt(headers.Timestamp, 10), m["X-Webhook-Timestamp"])
		assert.Equal(t, headers.ID, m["X-Webhook-ID"])
	})
}

func TestSenderSend(t *testing.T) {
	t.Parallel()

	t.Run("delivers signed payload", func(t *testing.T) {
		t.Parallel()

		var gotBody []byte
		var gotSignature, gotTimestamp string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			gotSignature = r.Header.Get("X-Webhook-Signature")
			gotTimestamp = r.Header.Get("X-Webhook-Timestamp")
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		sender := webhook.NewSender()
		err := sender.Send(context.Background(), srv.URL, "secret", map[string]string{"event": "test"})
		require.NoError(t, err)

		assert.JSONEq(t, `{"event":"test"}`, string(gotBody))
		require.NotEmpty(t, gotSignature)

		ts, err := strconv.ParseInt(gotTimestamp, 10, 64)
		require.NoError(t, err)
		mac := hmac.New(sha256.New, []byte("secret"))
		fmt.Fprintf(mac, "%d.%s", ts, gotBody)
		assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), gotSignature)
	})

	t.Run("skips signing without secret", func(t *testing.T) {
		t.Parallel()

		var gotSignature string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSignature = r.Header.Get("X-Webhook-Signature")
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		sender := webhook.NewSender()
		err := sender.Send(context.Background(), srv.URL, "", map[string]string{"event": "test"})
		require.NoError(t, err)
		assert.Empty(t, gotSignature)
	})

	t.Run("retries failed deliveries", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		sender := webhook.NewSender(webhook.WithRetryDelay(time.Millisecond))
		err := sender.Send(context.Background(), srv.URL, "", map[string]string{"event": "test"})
		require.NoError(t, err)
		assert.EqualValues(t, 3, calls.Load())
	})

	t.Run("returns ErrDeliveryFailed after exhausting attempts", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		sender := webhook.NewSender(
			webhook.WithAttempts(2),
			webhook.WithRetryDelay(time.Millisecond),
		)
		err := sender.Send(context.Background(), srv.URL, "", map[string]string{"event": "test"})
		require.ErrorIs(t, err, webhook.ErrDeliveryFailed)
		assert.EqualValues(t, 2, calls.Load())
	})

	t.Run("stops retrying on context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		sender := webhook.NewSender(webhook.WithRetryDelay(time.Minute))
		err := sender.Send(ctx, srv.URL, "", map[string]string{"event": "test"})
		require.ErrorIs(t, err, webhook.ErrDeliveryFailed)
	})

	t.Run("rejects unmarshalable payload", func(t *testing.T) {
		t.Parallel()

		sender := webhook.NewSender()
		err := sender.Send(context.Background(), "http://localhost", "", make(chan int))
		require.ErrorIs(t, err, webhook.ErrInvalidPayload)
	})
}
