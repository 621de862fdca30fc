package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quiz-api-service/internal/domain"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload leaderboardView `json:"payload"`
}

func readLeaderboard(t *testing.T, conn *websocket.Conn) leaderboardView {
	t.Helper()
	var msg wsMessage
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "leaderboard" {
		t.Fatalf("expected leaderboard message, got %s", msg.Type)
	}
	return msg.Payload
}

func TestWebSocketLeaderboardStream(t *testing.T) {
	h, service := newTestRouter(t)
	server := httptest.NewServer(h)
	defer server.Close()

	ctx := context.Background()
	if _, err := service.CreateQuestion(ctx, domain.QuestionDraft{
		Title: "q1",
		Text:  "2 + 2?",
		Answers: []domain.AnswerDraft{
			{Text: "3"}, {Text: "4", IsCorrect: true}, {Text: "5"}, {Text: "22"},
		},
	}); err != nil {
		t.Fatalf("create question: %v", err)
	}

	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/leaderboard"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if initial := readLeaderboard(t, conn); len(initial.Entries) != 0 {
		t.Fatalf("expected empty initial leaderboard, got %+v", initial.Entries)
	}

	two := 2
	if _, _, err := service.Submit(ctx, domain.Submission{PlayerName: "Alice", Answers: []*int{&two}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	update := readLeaderboard(t, conn)
	if len(update.Entries) != 1 || update.Entries[0].PlayerName != "Alice" || update.Entries[0].Score != 1 {
		t.Fatalf("unexpected update %+v", update.Entries)
	}

	if err := service.DeleteAllParticipations(ctx); err != nil {
		t.Fatalf("delete participations: %v", err)
	}
	if cleared := readLeaderboard(t, conn); len(cleared.Entries) != 0 {
		t.Fatalf("expected cleared leaderboard, got %+v", cleared.Entries)
	}
}

func TestWebSocketRejectsPlainHTTP(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/leaderboard", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without upgrade headers, got %d", rec.Code)
	}
}
