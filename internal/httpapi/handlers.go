package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/easeaico/nintendo-advisor/internal/memory"
	"github.com/easeaico/nintendo-advisor/internal/recommend"
	"github.com/easeaico/nintendo-advisor/internal/types"
	"github.com/easeaico/nintendo-advisor/internal/wiki"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type chatRequest struct {
	History []types.ChatMessage `json:"history"`
}

type gameInfoRequest struct {
	Query string `json:"query"`
}

type gameInfoResponse struct {
	Game *types.InfoCard `json:"game"`
}

func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to encode response", "error", err.Error())
	}
}

func sendError(w http.ResponseWriter, status int, msg string) {
	sendJSON(w, status, errorResponse{Error: msg})
}

func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func (s *server) handleRoot(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]any{
		"message": "Nintendo AI Recommender API",
		"version": Version,
		"endpoints": map[string]string{
			"/chat":                      "POST - Chat with Nintendo Game Advisor",
			"/game/info":                 "POST - Get game information",
			"/games/list":                "GET - List all games",
			"/games/platform/{platform}": "GET - Games by platform",
			"/memory":                    "GET - Get saved user memory",
			"/memory/clear":              "POST - Clear user memory",
			"/profile":                   "GET - Get user profile",
			"/profile/name":              "POST - Set user name",
			"/profile/report":            "GET - Generate personality report",
			"/wiki/search":               "POST - Search Wikipedia pages",
			"/wiki/page":                 "POST - Get Wikipedia page content",
			"/wiki/answer":               "POST - Answer question using Wikipedia",
		},
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Version:   Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decode(r, &req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid chat request")
		return
	}
	resp := s.Advisor.Chat(r.Context(), s.userID(r), req.History)
	sendJSON(w, http.StatusOK, resp)
}

func (s *server) handleListGames(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.Games.All())
}

func (s *server) handleGamesByPlatform(w http.ResponseWriter, r *http.Request) {
	platform := chi.URLParam(r, "platform")
	games := recommend.FilterByPlatform(s.Games.All(), platform)
	if games == nil {
		games = []types.GameRecord{}
	}
	sendJSON(w, http.StatusOK, games)
}

func (s *server) handleGameInfo(w http.ResponseWriter, r *http.Request) {
	var req gameInfoRequest
	if err := decode(r, &req); err != nil || strings.TrimSpace(req.Query) == "" {
		sendError(w, http.StatusBadRequest, "query cannot be empty")
		return
	}
	if g, ok := s.Games.Get(req.Query); ok {
		sendJSON(w, http.StatusOK, gameInfoResponse{Game: types.CardFromRecord(g)})
		return
	}
	if matches := s.Games.Search(req.Query, 1); len(matches) > 0 {
		sendJSON(w, http.StatusOK, gameInfoResponse{Game: types.CardFromRecord(matches[0])})
		return
	}
	sendJSON(w, http.StatusOK, gameInfoResponse{})
}

func (s *server) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.Memory.Load(r.Context(), s.userID(r)))
}

func (s *server) handleClearMemory(w http.ResponseWriter, r *http.Request) {
	if err := s.Memory.Clear(r.Context(), s.userID(r)); err != nil {
		s.memoryError(w, "failed to clear memory", err)
		return
	}
	sendJSON(w, http.StatusOK, messageResponse{Message: "Memory cleared successfully"})
}

func (s *server) handleProfile(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.Memory.Profile(r.Context(), s.userID(r)))
}

func (s *server) handleSetName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		sendError(w, http.StatusBadRequest, "name cannot be empty")
		return
	}
	name := strings.TrimSpace(req.Name)
	if err := s.Memory.SetUserName(r.Context(), s.userID(r), name); err != nil {
		s.memoryError(w, "failed to set name", err)
		return
	}
	sendJSON(w, http.StatusOK, messageResponse{Message: "Name set successfully", Name: name})
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	report := s.Memory.PersonalityReport(r.Context(), s.userID(r))
	sendJSON(w, http.StatusOK, map[string]string{"report": report})
}

func (s *server) memoryError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, memory.ErrInvalidUser) {
		sendError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	slog.Error(msg, "error", err.Error())
	sendError(w, http.StatusInternalServerError, msg)
}

func (s *server) handleWikiSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := decode(r, &req); err != nil || strings.TrimSpace(req.Query) == "" {
		sendError(w, http.StatusBadRequest, "query cannot be empty")
		return
	}
	results, err := s.Wiki.Search(r.Context(), strings.TrimSpace(req.Query))
	if err != nil && !errors.Is(err, wiki.ErrNoResults) {
		s.wikiError(w, "failed to search Wikipedia", err)
		return
	}
	if results == nil {
		results = []string{}
	}
	sendJSON(w, http.StatusOK, map[string][]string{"results": results})
}

func (s *server) handleWikiPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := decode(r, &req); err != nil || strings.TrimSpace(req.Title) == "" {
		sendError(w, http.StatusBadRequest, "title cannot be empty")
		return
	}
	page, err := s.Wiki.GetPage(r.Context(), strings.TrimSpace(req.Title))
	if err != nil {
		s.wikiError(w, "failed to get Wikipedia page", err)
		return
	}
	sendJSON(w, http.StatusOK, page)
}

func (s *server) handleWikiAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := decode(r, &req); err != nil || strings.TrimSpace(req.Question) == "" {
		sendError(w, http.StatusBadRequest, "question cannot be empty")
		return
	}
	answer, err := s.WikiAnswers.Answer(r.Context(), strings.TrimSpace(req.Question))
	if err != nil {
		s.wikiError(w, "failed to answer question", err)
		return
	}
	sendJSON(w, http.StatusOK, answer)
}

func (s *server) wikiError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, wiki.ErrNoResults) || errors.Is(err, wiki.ErrEmptyPage) {
		sendError(w, http.StatusNotFound, "no Wikipedia page found")
		return
	}
	slog.Warn(msg, "error", err.Error())
	sendError(w, http.StatusBadGateway, msg)
}
