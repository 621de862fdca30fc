package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"quiz-api-service/internal/app"
	"quiz-api-service/internal/auth"
)

type RouterOptions struct {
	// AllowedOrigins defaults to any origin, matching a browser quiz UI served elsewhere.
	AllowedOrigins []string
}

func NewRouter(service *app.QuizService, gateway *auth.Gateway, opts RouterOptions) http.Handler {
	api := NewAPI(service, gateway)
	ws := NewWSHandler(service)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/", api.HandleStatus)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/quiz-info", api.HandleQuizInfo)
	r.Get("/questions", api.HandleQuestionByPosition)
	r.Get("/questions/{id}", api.HandleQuestionByID)
	r.Post("/participations", api.HandleSubmitParticipation)
	r.Post("/login", api.HandleLogin)
	r.Get("/ws/leaderboard", ws.ServeWS)

	r.Group(func(ar chi.Router) {
		ar.Use(auth.RequireAdmin(gateway))

		ar.Post("/logout", api.HandleLogout)
		ar.Get("/questions/all", api.HandleListQuestions)
		ar.Post("/questions", api.HandleCreateQuestion)
		ar.Put("/questions/{id}", api.HandleUpdateQuestion)
		ar.Put("/questions/{id}/position", api.HandleMoveQuestion)
		ar.Delete("/questions/all", api.HandleDeleteAllQuestions)
		ar.Delete("/questions/{id}", api.HandleDeleteQuestion)
		ar.Delete("/participations/all", api.HandleDeleteAllParticipations)
	})

	return r
}
