package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendSender(t *testing.T) {
	msg := Message{
		To:       "owner@cafe.example",
		Subject:  "Quick question",
		HTML:     "<p>hi</p>",
		Text:     "hi",
		FromName: "Sydney - MagicPlate",
		FromAddr: "sydney@magicplate.info",
	}

	t.Run("posts payload and returns message id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/emails", r.URL.Path)
			assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))

			var req resendRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Sydney - MagicPlate <sydney@magicplate.info>", req.From)
			assert.Equal(t, []string{"owner@cafe.example"}, req.To)
			assert.Equal(t, "Quick question", req.Subject)

			_, _ = w.Write([]byte(`{"id":"msg-1"}`))
		}))
		defer srv.Close()

		s := NewResendSender("key-123", 5*time.Second)
		s.baseURL = srv.URL

		id, err := s.Send(context.Background(), msg)
		require.NoError(t, err)
		assert.Equal(t, "msg-1", id)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"message":"invalid"}`, http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		s := NewResendSender("key-123", 5*time.Second)
		s.baseURL = srv.URL

		_, err := s.Send(context.Background(), msg)
		assert.Error(t, err)
	})

	t.Run("transport failure is an error", func(t *testing.T) {
		s := NewResendSender("key-123", time.Second)
		s.baseURL = "http://127.0.0.1:1"
		_, err := s.Send(context.Background(), msg)
		assert.Error(t, err)
	})
}
