package http

import (
	"errors"
	"net/http"
	"time"

	"quiz-api-service/internal/app"
	"quiz-api-service/internal/auth"
	"quiz-api-service/internal/domain"
)

// Version is reported by the status endpoint.
const Version = "1.0.0"

type API struct {
	service *app.QuizService
	gateway *auth.Gateway
	now     func() time.Time
}

func NewAPI(service *app.QuizService, gateway *auth.Gateway) *API {
	return &API{service: service, gateway: gateway, now: time.Now}
}

func (a *API) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Message:   "Quiz API is running!",
		Version:   Version,
		Timestamp: a.now().Format(dateLayout),
	})
}

func (a *API) HandleQuizInfo(w http.ResponseWriter, r *http.Request) {
	info, err := a.service.QuizInfo(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizInfoResponse{Size: info.Size, Scores: toScoreViews(info.Scores)})
}

func (a *API) HandleQuestionByID(w http.ResponseWriter, r *http.Request) {
	id, err := questionIDParam(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	q, err := a.service.Question(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questionEnvelope{Question: toQuestionView(q, false)})
}

func (a *API) HandleQuestionByPosition(w http.ResponseWriter, r *http.Request) {
	position, err := parseIntParam(r, "position", 1)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	q, err := a.service.QuestionAt(r.Context(), position)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questionEnvelope{Question: toQuestionView(q, false)})
}

func (a *API) HandleSubmitParticipation(w http.ResponseWriter, r *http.Request) {
	var req participationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	name := req.PlayerName
	if name == "" {
		name = req.LegacyPlayerName
	}
	result, p, err := a.service.Submit(r.Context(), domain.Submission{PlayerName: name, Answers: req.Answers})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, participationResponse{
		AnswersSummaries: result.Summaries,
		PlayerName:       p.PlayerName,
		Score:            result.TotalScore,
	})
}

func (a *API) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	token, err := a.gateway.Login(r.Context(), req.Password)
	if errors.Is(err, domain.ErrUnauthorized) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid password"})
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (a *API) HandleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeServiceError(w, domain.ErrUnauthorized)
		return
	}
	if err := a.gateway.Logout(r.Context(), claims); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := a.service.Questions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	views := make([]questionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, toQuestionView(q, true))
	}
	writeJSON(w, http.StatusOK, questionsEnvelope{Questions: views})
}

func (a *API) HandleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var draft domain.QuestionDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		writeServiceError(w, err)
		return
	}
	q, err := a.service.CreateQuestion(r.Context(), draft)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: q.ID, Position: q.Position})
}

func (a *API) HandleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := questionIDParam(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var draft domain.QuestionDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := a.service.UpdateQuestion(r.Context(), id, draft); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleMoveQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := questionIDParam(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := a.service.MoveQuestion(r.Context(), id, req.Position); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := questionIDParam(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := a.service.DeleteQuestion(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleDeleteAllQuestions(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteAllQuestions(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleDeleteAllParticipations(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteAllParticipations(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
