package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
)

func TestBuildPrompt(t *testing.T) {
	history := []models.AssistantMessage{
		{Sender: models.AssistantSenderUser, Content: "What is a goroutine?"},
		{Sender: models.AssistantSenderAssistant, Content: "A lightweight thread managed by the runtime."},
	}

	prompt := buildPrompt(history, "How do channels work?")

	for _, want := range []string{
		"user: What is a goroutine?",
		"assistant: A lightweight thread managed by the runtime.",
		"user: How do channels work?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}

	if idx := strings.Index(prompt, "What is a goroutine?"); idx > strings.Index(prompt, "How do channels work?") {
		t.Error("history should precede the latest message")
	}
}

func TestHTTPCompletionClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reply": "Channels synchronize goroutines."}`))
	}))
	defer server.Close()

	client := NewHTTPCompletionClient(server.URL, "test-key", "assist-1")

	reply, err := client.Complete(context.Background(), "How do channels work?")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if reply != "Channels synchronize goroutines." {
		t.Errorf("unexpected reply %q", reply)
	}
}

func TestHTTPCompletionClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPCompletionClient(server.URL, "test-key", "assist-1")

	if _, err := client.Complete(context.Background(), "hello"); err == nil {
		t.Fatal("expected error on non-2xx response")
	} else if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry the status code, got %v", err)
	}
}

func TestHTTPCompletionClientEmptyReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reply": "  "}`))
	}))
	defer server.Close()

	client := NewHTTPCompletionClient(server.URL, "test-key", "assist-1")

	if _, err := client.Complete(context.Background(), "hello"); err == nil {
		t.Fatal("expected error on blank reply")
	}
}
