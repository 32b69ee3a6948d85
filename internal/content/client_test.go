package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/saiisback/search-engine/internal/domain"
)

func TestClient_Fetch(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name       string
		body       string
		statusCode int
		wantErr    error
	}{
		{
			name:       "successful fetch",
			body:       `{"url":"https://x.test/a","content":{"url":"https://x.test/a","title":"T","content":"body text"},"execution_time":0.2}`,
			statusCode: http.StatusOK,
		},
		{
			name:       "payload error",
			body:       `{"url":"https://x.test/a","error":"failed to scrape page"}`,
			statusCode: http.StatusOK,
			wantErr:    ErrFetchFailed,
		},
		{
			name:       "missing content",
			body:       `{"url":"https://x.test/a"}`,
			statusCode: http.StatusOK,
			wantErr:    ErrBadPayload,
		},
		{
			name:       "malformed json",
			body:       `{"url":`,
			statusCode: http.StatusOK,
			wantErr:    ErrBadPayload,
		},
		{
			name:       "server error",
			body:       `oops`,
			statusCode: http.StatusInternalServerError,
			wantErr:    ErrFetchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("url"); got != "https://x.test/a" {
					t.Errorf("url param = %q", got)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := New(Config{BaseURL: server.URL, Timeout: 5 * time.Second}, logger)

			page, err := client.Fetch(context.Background(), "https://x.test/a")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Fetch() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Fetch() unexpected error = %v", err)
			}
			if page.Title != "T" || page.Content != "body text" {
				t.Errorf("unexpected page: %+v", page)
			}
		})
	}
}

func TestClient_Fetch_InvalidInput(t *testing.T) {
	client := New(Config{BaseURL: "http://unused.test"}, zap.NewNop())

	if _, err := client.Fetch(context.Background(), "  "); !errors.Is(err, domain.ErrEmptyURL) {
		t.Errorf("blank url error = %v, want %v", err, domain.ErrEmptyURL)
	}
	if _, err := client.Fetch(context.Background(), "ftp://x.test"); !errors.Is(err, domain.ErrInvalidURL) {
		t.Errorf("scheme error = %v, want %v", err, domain.ErrInvalidURL)
	}
}
