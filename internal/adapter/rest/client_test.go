package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/eslsoft/fluentcli/internal/entity"
	"github.com/eslsoft/fluentcli/internal/gateway"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token() (string, error) { return s.token, s.err }

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(Options{
		BaseURL: srv.URL,
		Tokens:  staticTokens{token: "tok-123"},
	})
	return client, srv
}

func TestRequestCarriesAuthHeaders(t *testing.T) {
	var gotAuth, gotRequestID string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`[]`))
	}))

	if _, err := client.ListHistory(context.Background()); err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("expected an X-Request-ID header")
	}
}

func TestTokenErrorShortCircuits(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	client := NewClient(Options{
		BaseURL: srv.URL,
		Tokens:  staticTokens{err: entity.ErrTokenExpired},
	})
	_, err := client.ListHistory(context.Background())
	if !errors.Is(err, entity.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if requests != 0 {
		t.Errorf("expected no request to leave the process, got %d", requests)
	}
}

func TestAPIErrorDecodesDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Scenario not found"}`))
	}))

	_, err := client.ListHistory(context.Background())
	var apiErr *entity.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Detail != "Scenario not found" {
		t.Errorf("unexpected APIError %+v", apiErr)
	}
}

func TestAPIErrorFallsBackToStatusText(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>nginx</html>`))
	}))

	_, err := client.ListHistory(context.Background())
	var apiErr *entity.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Detail != "Bad Gateway" {
		t.Errorf("expected status-text fallback, got %q", apiErr.Detail)
	}
}

func TestUnauthorizedMapsToNotAuthenticated(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))

	_, err := client.ListHistory(context.Background())
	if !errors.Is(err, entity.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestLoginSkipsAuthHeader(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"access_token":"fresh-token"}`))
	}))

	token, err := client.Login(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token != "fresh-token" {
		t.Errorf("unexpected token %q", token)
	}
	if gotAuth != "" {
		t.Errorf("login must not send credentials header, got %q", gotAuth)
	}
}

func TestStartConversationRoundTrip(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversation/start" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{
			"session_id": "sess-1",
			"greeting": "Welcome!",
			"suggestions": ["Hi there."]
		}`))
	}))

	res, err := client.StartConversation(context.Background(), gateway.StartParams{
		Mode: entity.ModeScenario, Level: "Beginner", Topic: "Travel", ScenarioID: "sc-1",
	})
	if err != nil {
		t.Fatalf("StartConversation failed: %v", err)
	}
	if res.SessionID != "sess-1" || res.Greeting != "Welcome!" || len(res.Suggestions) != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestEvaluateScenarioVoiceMultipart(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "turn.webm")
	if err := os.WriteFile(audioPath, []byte("fake-audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("multipart parse failed: %v", err)
		}
		if got := r.FormValue("current_turn"); got != "4" {
			t.Errorf("expected current_turn=4, got %q", got)
		}
		if got := r.FormValue("scenario_id"); got != "sc-1" {
			t.Errorf("expected scenario_id, got %q", got)
		}
		file, header, err := r.FormFile("audio")
		if err != nil {
			t.Fatalf("missing audio part: %v", err)
		}
		file.Close()
		if header.Filename != "turn.webm" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		w.Write([]byte(`{
			"transcribed_text": "I would like to check in",
			"immediate_feedback": "Good.",
			"next_ai_reply": "Passport please.",
			"next_user_suggestion": "Here you are.",
			"is_complete": false
		}`))
	}))

	res, err := client.EvaluateScenarioVoice(context.Background(), audioPath, "sc-1", "Beginner", 4, "sess-1")
	if err != nil {
		t.Fatalf("EvaluateScenarioVoice failed: %v", err)
	}
	if res.TranscribedText != "I would like to check in" || res.IsComplete {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestFetchQuizBuildsDeckPath(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[{"word":"candid","type":"TYPE_D2V","questionText":"q","correctAnswer":"candid"}]`))
	}))

	questions, err := client.FetchQuiz(context.Background(), entity.DeckKindPublic, 42)
	if err != nil {
		t.Fatalf("FetchQuiz failed: %v", err)
	}
	if gotPath != "/quiz-data/public-deck/42" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if len(questions) != 1 || questions[0].Kind != entity.QuestionTypeDefToWord {
		t.Errorf("unexpected questions %+v", questions)
	}
}

func TestGetHistoryStringEncodedMessages(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": "sess-7",
			"topic": "Travel",
			"mode": "free",
			"level": "Beginner",
			"messages": "[{\"role\":\"ai\",\"text\":\"Hi\",\"type\":\"greeting\"}]"
		}`))
	}))

	details, err := client.GetHistory(context.Background(), "sess-7")
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(details.Messages) != 1 || details.Messages[0].Text != "Hi" {
		t.Errorf("string-encoded transcript not decoded: %+v", details.Messages)
	}
}

func TestGetHistoryGarbageMessagesFallBackEmpty(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "sess-8", "topic": "Food", "mode": "free", "messages": "not json"}`))
	}))

	details, err := client.GetHistory(context.Background(), "sess-8")
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(details.Messages) != 0 {
		t.Errorf("expected empty transcript fallback, got %+v", details.Messages)
	}
	if details.ID != "sess-8" {
		t.Errorf("session metadata lost: %+v", details)
	}
}

func TestDeleteHistory(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.DeleteHistory(context.Background(), "sess-9"); err != nil {
		t.Fatalf("DeleteHistory failed: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/conversation/delete/sess-9" {
		t.Errorf("unexpected request %s %s", gotMethod, gotPath)
	}
}
