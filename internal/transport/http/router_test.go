package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"quiz-api-service/internal/app"
	"quiz-api-service/internal/auth"
	"quiz-api-service/internal/infra/memory"
	"quiz-api-service/internal/media"
)

const testPassword = "iloveflask"

func newTestRouter(t *testing.T) (http.Handler, *app.QuizService) {
	t.Helper()
	service := app.NewQuizService(memory.NewQuestionStore(), memory.NewParticipationStore(),
		app.WithImageValidator(media.NewImageValidator(0)),
	)
	gateway := auth.NewGateway(auth.Config{Password: testPassword, Secret: "test-secret"}, memory.NewTokenRegistry())
	return NewRouter(service, gateway, RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}}), service
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/login", "", map[string]string{"password": testPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	return decode[tokenResponse](t, rec).Token
}

func questionBody(title string, correct int, position *int) map[string]any {
	answers := make([]map[string]any, 0, 4)
	for i := 1; i <= 4; i++ {
		answers = append(answers, map[string]any{"text": "answer " + strconv.Itoa(i), "isCorrect": i == correct})
	}
	body := map[string]any{"title": title, "text": title + "?", "possibleAnswers": answers}
	if position != nil {
		body["position"] = *position
	}
	return body
}

func createQuestion(t *testing.T, h http.Handler, token, title string, correct int, position *int) createdResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/questions", token, questionBody(title, correct, position))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %s: %d %s", title, rec.Code, rec.Body.String())
	}
	return decode[createdResponse](t, rec)
}

func adminTitles(t *testing.T, h http.Handler, token string) string {
	t.Helper()
	rec := do(t, h, http.MethodGet, "/questions/all", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}
	var titles []string
	for _, q := range decode[questionsEnvelope](t, rec).Questions {
		titles = append(titles, q.Title)
	}
	return strings.Join(titles, ",")
}

func TestStatusAndHealth(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/", "", nil)
	status := decode[statusResponse](t, rec)
	if rec.Code != http.StatusOK || status.Message != "Quiz API is running!" || status.Version != Version {
		t.Fatalf("unexpected status %d %+v", rec.Code, status)
	}
	if rec := do(t, h, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz %d %q", rec.Code, rec.Body.String())
	}
}

func TestLoginFailures(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/login", "", map[string]string{"password": "nope"})
	if rec.Code != http.StatusUnauthorized || decode[errorResponse](t, rec).Error != "Invalid password" {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", rec.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	h, _ := newTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/questions/all"},
		{http.MethodPost, "/questions"},
		{http.MethodPut, "/questions/1"},
		{http.MethodPut, "/questions/1/position"},
		{http.MethodDelete, "/questions/1"},
		{http.MethodDelete, "/questions/all"},
		{http.MethodDelete, "/participations/all"},
		{http.MethodPost, "/logout"},
	} {
		if rec := do(t, h, route.method, route.path, "", nil); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.path, rec.Code)
		}
	}
}

func TestQuestionLifecycle(t *testing.T) {
	h, _ := newTestRouter(t)
	token := login(t, h)

	first := createQuestion(t, h, token, "q1", 2, nil)
	createQuestion(t, h, token, "q2", 4, nil)
	third := createQuestion(t, h, token, "q3", 1, nil)
	pos := 2
	inserted := createQuestion(t, h, token, "new", 3, &pos)
	if inserted.Position != 2 {
		t.Fatalf("expected inserted at 2, got %+v", inserted)
	}
	if got := adminTitles(t, h, token); got != "q1,new,q2,q3" {
		t.Fatalf("after insert: %s", got)
	}

	rec := do(t, h, http.MethodPut, "/questions/"+strconv.FormatInt(third.ID, 10)+"/position", token, moveRequest{Position: 1})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("move: %d %s", rec.Code, rec.Body.String())
	}
	if got := adminTitles(t, h, token); got != "q3,q1,new,q2" {
		t.Fatalf("after move: %s", got)
	}

	pos = 4
	rec = do(t, h, http.MethodPut, "/questions/"+strconv.FormatInt(first.ID, 10), token, questionBody("q1b", 2, &pos))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}
	if got := adminTitles(t, h, token); got != "q3,new,q2,q1b" {
		t.Fatalf("after update: %s", got)
	}

	rec = do(t, h, http.MethodDelete, "/questions/"+strconv.FormatInt(inserted.ID, 10), token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}
	if got := adminTitles(t, h, token); got != "q3,q2,q1b" {
		t.Fatalf("after delete: %s", got)
	}

	if rec := do(t, h, http.MethodDelete, "/questions/all", token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete all: %d", rec.Code)
	}
	if got := adminTitles(t, h, token); got != "" {
		t.Fatalf("expected no questions, got %s", got)
	}
}

func TestQuestionErrors(t *testing.T) {
	h, _ := newTestRouter(t)
	token := login(t, h)
	q := createQuestion(t, h, token, "q1", 1, nil)

	pos := 3
	if rec := do(t, h, http.MethodPost, "/questions", token, questionBody("bad", 1, &pos)); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range insert, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/questions", token, questionBody("bad", 0, nil)); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without correct answer, got %d", rec.Code)
	}
	body := questionBody("img", 1, nil)
	body["image"] = "data:image/svg+xml;base64,PHN2Zz4="
	if rec := do(t, h, http.MethodPost, "/questions", token, body); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for svg image, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPut, "/questions/"+strconv.FormatInt(q.ID, 10)+"/position", token, moveRequest{Position: 2}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range move, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/questions/999", token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/questions/abc", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/questions?position=0", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for position 0, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/questions?position=2", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty slot, got %d", rec.Code)
	}
}

func TestPublicQuestionHidesCorrectness(t *testing.T) {
	h, _ := newTestRouter(t)
	token := login(t, h)
	q := createQuestion(t, h, token, "q1", 2, nil)

	for _, path := range []string{"/questions?position=1", "/questions/" + strconv.FormatInt(q.ID, 10)} {
		rec := do(t, h, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: %d %s", path, rec.Code, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "isCorrect") {
			t.Fatalf("%s leaked correctness: %s", path, rec.Body.String())
		}
		view := decode[questionEnvelope](t, rec).Question
		if view.Position != 1 || len(view.PossibleAnswers) != 4 || view.Image != nil {
			t.Fatalf("unexpected view %+v", view)
		}
	}
}

func TestParticipationFlow(t *testing.T) {
	h, _ := newTestRouter(t)
	token := login(t, h)
	for i, correct := range []int{2, 4, 1} {
		createQuestion(t, h, token, "q"+strconv.Itoa(i), correct, nil)
	}

	rec := do(t, h, http.MethodPost, "/participations", "", map[string]any{"playerName": "Ada", "answers": []int{2, 4, 1}})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	res := decode[participationResponse](t, rec)
	if res.Score != 3 || res.PlayerName != "Ada" || len(res.AnswersSummaries) != 3 || !res.AnswersSummaries[1].WasCorrect {
		t.Fatalf("unexpected result %+v", res)
	}

	rec = do(t, h, http.MethodPost, "/participations", "", map[string]any{"player_name": "Bob", "answers": []int{1, 1, 1}})
	if res := decode[participationResponse](t, rec); res.Score != 0 || res.PlayerName != "Bob" {
		t.Fatalf("unexpected legacy result %+v", res)
	}

	if rec := do(t, h, http.MethodPost, "/participations", "", map[string]any{"answers": []int{1}}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for mismatch, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/participations", "", map[string]any{"answers": []int{}}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/quiz-info", "", nil)
	info := decode[quizInfoResponse](t, rec)
	if info.Size != 3 || len(info.Scores) != 2 || info.Scores[0].PlayerName != "Ada" {
		t.Fatalf("unexpected quiz info %+v", info)
	}
	if _, err := time.Parse(dateLayout, info.Scores[0].Date); err != nil {
		t.Fatalf("unexpected date format %q: %v", info.Scores[0].Date, err)
	}

	if rec := do(t, h, http.MethodDelete, "/participations/all", token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete participations: %d", rec.Code)
	}
	info = decode[quizInfoResponse](t, do(t, h, http.MethodGet, "/quiz-info", "", nil))
	if len(info.Scores) != 0 {
		t.Fatalf("expected empty scores, got %+v", info.Scores)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	h, _ := newTestRouter(t)
	token := login(t, h)

	if rec := do(t, h, http.MethodPost, "/logout", token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/questions/all", token, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected revoked token to be rejected, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/questions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin %q (status %d)", got, rec.Code)
	}
}
