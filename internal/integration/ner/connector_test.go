package ner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/medlane/prediag-backend/internal/config"
	pkgretry "github.com/medlane/prediag-backend/internal/pkg/retry"
	"go.uber.org/zap"
)

func connectorConfig(url string) config.NERConnectorConfig {
	return config.NERConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Minute,
			IdleConnTimeout:       time.Minute,
			ResponseHeaderTimeout: time.Second,
			Token:                 "secret-token",
			Url:                   url,
		},
		RecognizeEndpoint: "/v1/entities",
		Retry:             *pkgretry.DefaultRetryConfig(),
	}
}

func TestConnectorRecognize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/entities" {
			t.Errorf("path = %q, want /v1/entities", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret-token" {
			t.Errorf("Authorization = %q", auth)
		}

		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "fever and headache" {
			t.Errorf("text = %q", req.Text)
		}

		json.NewEncoder(w).Encode(map[string][]string{"entities": {"fever", "headache"}})
	}))
	defer server.Close()

	c := NewConnector(connectorConfig(server.URL), zap.NewNop())

	entities, err := c.Recognize(context.Background(), "fever and headache")
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if !reflect.DeepEqual(entities, []string{"fever", "headache"}) {
		t.Errorf("entities = %v", entities)
	}
}

func TestConnectorRecognizeRetriesTransientFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string][]string{"entities": {"fever"}})
	}))
	defer server.Close()

	c := NewConnector(connectorConfig(server.URL), zap.NewNop())

	entities, err := c.Recognize(context.Background(), "fever")
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if !reflect.DeepEqual(entities, []string{"fever"}) {
		t.Errorf("entities = %v", entities)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestConnectorRecognizeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewConnector(connectorConfig(server.URL), zap.NewNop())

	if _, err := c.Recognize(context.Background(), "fever"); err == nil {
		t.Fatal("expected error on 503 response")
	}
}

func TestConnectorRecognizeUnreachable(t *testing.T) {
	c := NewConnector(connectorConfig("http://127.0.0.1:1"), zap.NewNop())

	if _, err := c.Recognize(context.Background(), "fever"); err == nil {
		t.Fatal("expected error when the service is unreachable")
	}
}
