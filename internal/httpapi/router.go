// Package httpapi exposes the advisor over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/easeaico/nintendo-advisor/internal/knowledge"
	"github.com/easeaico/nintendo-advisor/internal/memory"
	"github.com/easeaico/nintendo-advisor/internal/types"
	"github.com/easeaico/nintendo-advisor/internal/wiki"
)

// UserHeader selects whose memory a request reads and writes.
const UserHeader = "X-User-ID"

// Version is reported by the root and health endpoints.
const Version = "1.0.0"

// Chatter answers chat turns.
type Chatter interface {
	Chat(ctx context.Context, userID string, history []types.ChatMessage) types.ChatResponse
}

// WikiSource backs the encyclopedia endpoints.
type WikiSource interface {
	Search(ctx context.Context, query string) ([]string, error)
	GetPage(ctx context.Context, title string) (wiki.Page, error)
}

// Answerer answers encyclopedia questions.
type Answerer interface {
	Answer(ctx context.Context, question string) (wiki.Answer, error)
}

// Deps are the services behind the routes.
type Deps struct {
	Advisor     Chatter
	Games       *knowledge.Repository
	Memory      *memory.Service
	Wiki        WikiSource
	WikiAnswers Answerer
	DefaultUser string
}

type server struct {
	Deps
	started time.Time
}

// NewRouter builds the HTTP handler.
func NewRouter(d Deps) http.Handler {
	s := &server{Deps: d, started: time.Now()}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", UserHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/chat", s.handleChat)

	r.Get("/games/list", s.handleListGames)
	r.Get("/games/platform/{platform}", s.handleGamesByPlatform)
	r.Post("/game/info", s.handleGameInfo)

	r.Get("/memory", s.handleGetMemory)
	r.Post("/memory/clear", s.handleClearMemory)
	r.Get("/profile", s.handleProfile)
	r.Post("/profile/name", s.handleSetName)
	r.Get("/profile/report", s.handleReport)

	r.Post("/wiki/search", s.handleWikiSearch)
	r.Post("/wiki/page", s.handleWikiPage)
	r.Post("/wiki/answer", s.handleWikiAnswer)

	return r
}

func (s *server) userID(r *http.Request) string {
	if id := r.Header.Get(UserHeader); id != "" {
		return id
	}
	return s.DefaultUser
}
