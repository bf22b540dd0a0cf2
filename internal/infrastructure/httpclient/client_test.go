package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/teste-tivit/secure-api/internal/core/domain"
)

func TestClient_Get_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"hello"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	result, err := client.Get(context.Background(), "user")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if result.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", result.StatusCode)
	}
	if string(result.Data) != `{"message":"hello"}` {
		t.Fatalf("unexpected payload: %s", result.Data)
	}
}

func TestClient_Get_NonJSONWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("plain body"))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	result, err := client.Get(context.Background(), "health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	var wrapped map[string]string
	if err := json.Unmarshal(result.Data, &wrapped); err != nil {
		t.Fatalf("payload not valid json: %v", err)
	}
	if wrapped["text"] != "plain body" {
		t.Fatalf("unexpected wrapped payload: %v", wrapped)
	}
}

func TestClient_Get_ErrorStatusPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	result, err := client.Get(context.Background(), "admin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if result.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", result.StatusCode)
	}
}

func TestClient_Get_NetworkErrorMappedToResult(t *testing.T) {
	client := New("http://127.0.0.1:1", 200*time.Millisecond)

	result, err := client.Get(context.Background(), "user")
	if err != nil {
		t.Fatalf("transport failure should map to a typed result, got error: %v", err)
	}
	if result.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", result.StatusCode)
	}

	var payload map[string]string
	if err := json.Unmarshal(result.Data, &payload); err != nil {
		t.Fatalf("payload not valid json: %v", err)
	}
	if payload["error"] == "" {
		t.Fatalf("expected error detail in payload: %v", payload)
	}
}

func TestClient_Get_TimeoutMappedTo408(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := New(srv.URL, 50*time.Millisecond)
	result, err := client.Get(context.Background(), "health")
	if err != nil {
		t.Fatalf("timeout should map to a typed result, got error: %v", err)
	}
	if result.StatusCode != http.StatusRequestTimeout {
		t.Fatalf("status = %d, want 408", result.StatusCode)
	}

	var payload map[string]string
	if err := json.Unmarshal(result.Data, &payload); err != nil {
		t.Fatalf("payload not valid json: %v", err)
	}
	if payload["error"] != "request timeout" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestClient_PostToken(t *testing.T) {
	var received domain.TokenNotification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/token" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"stored":true}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	result, err := client.PostToken(context.Background(), domain.TokenNotification{
		Username: "usuario", Role: domain.RoleUser, Token: "jwt",
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if result.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", result.StatusCode)
	}
	if received.Username != "usuario" || received.Token != "jwt" {
		t.Fatalf("unexpected body: %+v", received)
	}
}
