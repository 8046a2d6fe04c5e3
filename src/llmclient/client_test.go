package llmclient

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

func TestAPIError(t *testing.T) {
	tests := []struct {
		name        string
		err         *APIError
		expectedMsg string
		isRetryable bool
		isRateLimit bool
		isAuthError bool
	}{
		{
			name: "basic error",
			err: &APIError{
				StatusCode: 400,
				Message:    "Bad request",
			},
			expectedMsg: "API error 400: Bad request",
		},
		{
			name: "error with code",
			err: &APIError{
				StatusCode: 403,
				Message:    "Forbidden",
				Code:       "insufficient_permissions",
			},
			expectedMsg: "API error 403 (insufficient_permissions): Forbidden",
		},
		{
			name: "server error is retryable",
			err: &APIError{
				StatusCode: 500,
				Message:    "Internal server error",
			},
			expectedMsg: "API error 500: Internal server error",
			isRetryable: true,
		},
		{
			name: "rate limit error",
			err: &APIError{
				StatusCode: 429,
				Message:    "Too many requests",
			},
			expectedMsg: "API error 429: Too many requests",
			isRetryable: true,
			isRateLimit: true,
		},
		{
			name: "auth error",
			err: &APIError{
				StatusCode: 401,
				Message:    "Unauthorized",
				Code:       "invalid_api_key",
			},
			expectedMsg: "API error 401 (invalid_api_key): Unauthorized",
			isAuthError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
			assert.Equal(t, tt.isRetryable, tt.err.IsRetryable())
			assert.Equal(t, tt.isRateLimit, tt.err.IsRateLimit())
			assert.Equal(t, tt.isAuthError, tt.err.IsAuthError())
		})
	}
}

func TestCreateChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test-model", req.Model)

		json.NewEncoder(w).Encode(ChatCompletionResponse{
			Choices: []Choice{{Message: Message{Role: "assistant", Content: "hello"}}},
			Usage:   Usage{TotalTokens: 12},
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"})

	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:    client.Model(),
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "hello", resp.Choices[0].Message.Content)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
}

func TestCreateChatCompletionParsesErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", "req-123")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model not found", "code": "model_not_found"},
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})

	_, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{Model: "bad"})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "model_not_found", apiErr.Code)
	assert.Equal(t, "req-123", apiErr.RequestID)
}

func TestCreateChatCompletionRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(ChatCompletionResponse{
			Choices: []Choice{{Message: Message{Role: "assistant", Content: "recovered"}}},
		})
	}))
	defer srv.Close()

	client := NewClient(Config{
		BaseURL:    srv.URL,
		APIKey:     "k",
		RetryCount: 3,
		RetryDelay: time.Millisecond,
	})

	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "recovered", resp.Choices[0].Message.Content)
}

func TestCreateChatCompletionDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "bad"}})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "k", RetryDelay: time.Millisecond})

	_, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{Model: "m"})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
