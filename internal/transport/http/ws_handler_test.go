package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quizhost/internal/app"
	"quizhost/internal/domain"
	"quizhost/internal/infra/memory"
	"quizhost/internal/pkg/logger"
)

func TestWebSocketStreamsCountdownAndResult(t *testing.T) {
	store := newMemStore()
	store.quizzes["quiz-1"] = domain.Quiz{
		ID:         "quiz-1",
		Title:      "Trivia",
		IsActive:   true,
		AccessCode: "QUIZ1",
		TimeLimit:  1,
	}
	store.questions["q1"] = domain.Question{
		ID: "q1", QuizID: "quiz-1", Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1,
	}

	log := logger.NewNop()
	cache := memory.NewContentCache(store, time.Minute)
	take := app.NewTakeServiceWithTickInterval(cache, memory.NewSessionRegistry(), app.NewAttemptService(store, log), log, 10*time.Millisecond)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/take", NewWSHandler(take, log).ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()
	view, err := take.Start(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := take.VerifyCode(ctx, view.ID, "QUIZ1"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, err := take.Begin(ctx, view.ID, "Alice", "alice@example.com", "R1"); err != nil {
		t.Fatalf("begin: %v", err)
	}

	u := "ws" + server.URL[len("http"):] + "/ws/take?sessionId=" + view.ID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// First frame is the subscription snapshot; after that ticks flow at the
	// service's tick interval.
	event := readEvent(t, conn)
	if event.Remaining < 0 || event.Remaining > 60 {
		t.Fatalf("unexpected initial remaining %d", event.Remaining)
	}
	event = readEvent(t, conn)
	if event.Type != "tick" {
		t.Fatalf("expected a tick, got %+v", event)
	}

	if _, err := take.Submit(ctx, view.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	for i := 0; i < 100; i++ {
		event = readEvent(t, conn)
		if event.Type == "submitted" {
			break
		}
	}
	if event.Type != "submitted" || event.Total != 1 {
		t.Fatalf("expected submitted event, got %+v", event)
	}

	// The handler closes the stream after the terminal event.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected connection to close after submission")
	}
}

func TestWebSocketRejectsUnknownSession(t *testing.T) {
	store := newMemStore()
	log := logger.NewNop()
	take := app.NewTakeService(memory.NewContentCache(store, time.Minute), memory.NewSessionRegistry(), app.NewAttemptService(store, log), log)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/take", NewWSHandler(take, log).ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws/take?sessionId=missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/ws/take")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing sessionId must 400, got %d", resp.StatusCode)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) app.SessionEvent {
	t.Helper()
	var event app.SessionEvent
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return event
}
