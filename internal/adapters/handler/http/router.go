package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Pinger reports whether the backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func NewHandler(
	pollHandler *PollHandler,
	voteHandler *VoteHandler,
	resultHandler *ResultHandler,
	userHandler *UserHandler,
	authenticate func(http.Handler) http.Handler,
	db Pinger,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", health(db))

	r.Route("/api", func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/me", userHandler.GetMe)

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", pollHandler.ListPolls)
			r.Post("/", pollHandler.CreatePoll)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", pollHandler.GetPoll)
				r.Delete("/", pollHandler.DeletePoll)
				r.Post("/options", pollHandler.AddOptions)
				r.Delete("/options/{optionID}", pollHandler.RemoveOption)
				r.Post("/votes", voteHandler.VoteOnPoll)
				r.Get("/results", resultHandler.GetResults)
				r.Get("/voters", resultHandler.GetVoters)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)
			r.Put("/{id}/role", userHandler.SetRole)
		})
	})

	return r
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
