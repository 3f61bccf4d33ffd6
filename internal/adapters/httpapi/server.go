package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/jose-valero/osu-tourney-bot/internal/infra/storage"
)

// LinkStore es el registro de vínculos osu!→Discord que administra el panel
// del torneo. Lo implementa storage.LinkRepo.
type LinkStore interface {
	UpsertLink(ctx context.Context, pl storage.PlayerLink) error
	GetByOsuNick(ctx context.Context, nick string) (storage.PlayerLink, error)
	SoftDeleteByOsuNick(ctx context.Context, nick string) (bool, error)
}

// Server es el puente HTTP para el panel del torneo: ping de salud, lectura
// del chat reciente del lobby y envío de mensajes como el bot.
type Server struct {
	secret string
	links  LinkStore
	send   func(line string)
	mux    *http.ServeMux

	mu    sync.Mutex
	chat  []string
	limit int
}

func New(secret string, links LinkStore, send func(line string)) *Server {
	s := &Server{secret: secret, links: links, send: send, mux: http.NewServeMux(), limit: 100}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/ping", s.handlePing)
	s.mux.HandleFunc("/api/message", s.handleMessage)
	s.mux.HandleFunc("/api/link", s.handleLink)
}

// Append guarda una línea del chat del lobby en el buffer circular.
func (s *Server) Append(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = append(s.chat, line)
	if len(s.chat) > s.limit {
		s.chat = s.chat[len(s.chat)-s.limit:]
	}
}

func (s *Server) authorized(r *http.Request) bool {
	return s.secret == "" || r.Header.Get("X-Api-Secret") == s.secret
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		out := make([]string, len(s.chat))
		copy(out, s.chat)
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"messages": out})

	case http.MethodPost:
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&body); err != nil || body.Text == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		s.send(body.Text)
		log.Printf("httpapi: relayed message to lobby")
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if s.links == nil {
		http.Error(w, "links disabled", http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case http.MethodGet:
		nick := r.URL.Query().Get("nick")
		if nick == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		pl, err := s.links.GetByOsuNick(r.Context(), nick)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"osu_user_id":     pl.OsuUserID,
			"osu_nick":        pl.OsuNick,
			"discord_user_id": pl.DiscordUserID,
			"linked_at":       pl.LinkedAt,
		})

	case http.MethodPost:
		var body struct {
			OsuUserID     int    `json:"osu_user_id"`
			OsuNick       string `json:"osu_nick"`
			DiscordUserID string `json:"discord_user_id"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&body); err != nil ||
			body.OsuUserID == 0 || body.OsuNick == "" || body.DiscordUserID == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := s.links.UpsertLink(r.Context(), storage.PlayerLink{
			OsuUserID:     body.OsuUserID,
			OsuNick:       body.OsuNick,
			DiscordUserID: body.DiscordUserID,
		}); err != nil {
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		log.Printf("httpapi: linked %s -> %s", body.OsuNick, body.DiscordUserID)
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		nick := r.URL.Query().Get("nick")
		if nick == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		ok, err := s.links.SoftDeleteByOsuNick(r.Context(), nick)
		if err != nil {
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		log.Printf("httpapi: unlinked %s", nick)
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) Start(addr string) {
	log.Printf("🌐 HTTP listening on %s", addr)
	if err := http.ListenAndServe(addr, s.mux); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
