package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jose-valero/osu-tourney-bot/internal/infra/storage"
)

type fakeLinks struct {
	last    storage.PlayerLink
	deleted []string
}

func (f *fakeLinks) UpsertLink(_ context.Context, pl storage.PlayerLink) error {
	f.last = pl
	return nil
}

func (f *fakeLinks) GetByOsuNick(_ context.Context, nick string) (storage.PlayerLink, error) {
	if !strings.EqualFold(nick, f.last.OsuNick) || f.last.OsuNick == "" {
		return storage.PlayerLink{}, storage.ErrNotFound
	}
	return f.last, nil
}

func (f *fakeLinks) SoftDeleteByOsuNick(_ context.Context, nick string) (bool, error) {
	if !strings.EqualFold(nick, f.last.OsuNick) || f.last.OsuNick == "" {
		return false, nil
	}
	f.deleted = append(f.deleted, nick)
	f.last = storage.PlayerLink{}
	return true, nil
}

func newTestServer() (*Server, *fakeLinks) {
	links := &fakeLinks{}
	s := New("s3cret", links, func(string) {})
	return s, links
}

func TestPing(t *testing.T) {
	s, _ := newTestServer()
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/ping", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestMessageRequiresSecret(t *testing.T) {
	s, _ := newTestServer()
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/message", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestMessageOutbox(t *testing.T) {
	s, _ := newTestServer()
	s.Append("peppy: hola")
	s.Append("BanchoBot: The match has started!")

	req := httptest.NewRequest("GET", "/api/message", nil)
	req.Header.Set("X-Api-Secret", "s3cret")
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "peppy: hola") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestMessageRelay(t *testing.T) {
	var sent []string
	s := New("s3cret", nil, func(line string) { sent = append(sent, line) })

	req := httptest.NewRequest("POST", "/api/message", strings.NewReader(`{"text":"buena suerte a todos"}`))
	req.Header.Set("X-Api-Secret", "s3cret")
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(sent) != 1 || sent[0] != "buena suerte a todos" {
		t.Fatalf("sent = %v", sent)
	}

	// cuerpo vacío
	req = httptest.NewRequest("POST", "/api/message", strings.NewReader(`{}`))
	req.Header.Set("X-Api-Secret", "s3cret")
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLinkUpsert(t *testing.T) {
	s, links := newTestServer()

	req := httptest.NewRequest("POST", "/api/link",
		strings.NewReader(`{"osu_user_id":124493,"osu_nick":"cookiezi","discord_user_id":"42"}`))
	req.Header.Set("X-Api-Secret", "s3cret")
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if links.last.OsuNick != "cookiezi" || links.last.DiscordUserID != "42" {
		t.Fatalf("link = %+v", links.last)
	}
}

func TestLinkLookupAndUnlink(t *testing.T) {
	s, links := newTestServer()
	links.last = storage.PlayerLink{OsuUserID: 124493, OsuNick: "cookiezi", DiscordUserID: "42"}

	req := httptest.NewRequest("GET", "/api/link?nick=cookiezi", nil)
	req.Header.Set("X-Api-Secret", "s3cret")
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"42"`) {
		t.Fatalf("lookup: status = %d, body %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("DELETE", "/api/link?nick=cookiezi", nil)
	req.Header.Set("X-Api-Secret", "s3cret")
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unlink: status = %d", rec.Code)
	}
	if len(links.deleted) != 1 || links.deleted[0] != "cookiezi" {
		t.Fatalf("unlink not stored: %v", links.deleted)
	}

	// el link borrado ya no resuelve
	req = httptest.NewRequest("GET", "/api/link?nick=cookiezi", nil)
	req.Header.Set("X-Api-Secret", "s3cret")
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("deleted lookup: status = %d, want 404", rec.Code)
	}

	// segundo unlink del mismo nick: 404
	req = httptest.NewRequest("DELETE", "/api/link?nick=cookiezi", nil)
	req.Header.Set("X-Api-Secret", "s3cret")
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("double unlink: status = %d, want 404", rec.Code)
	}
}

func TestChatBufferCap(t *testing.T) {
	s, _ := newTestServer()
	for i := 0; i < 250; i++ {
		s.Append("line")
	}
	s.mu.Lock()
	n := len(s.chat)
	s.mu.Unlock()
	if n != s.limit {
		t.Fatalf("buffer = %d, want %d", n, s.limit)
	}
}
