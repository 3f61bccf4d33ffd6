package service

import (
	"strings"
	"testing"

	"github.com/jose-valero/osu-tourney-bot/internal/domain"
	"github.com/jose-valero/osu-tourney-bot/internal/engine"
)

type nopLobby struct{}

func (nopLobby) ChangeMap(int)          {}
func (nopLobby) SetMods(string)         {}
func (nopLobby) StartTimer(int)         {}
func (nopLobby) AbortTimer()            {}
func (nopLobby) StartMatch(int)         {}
func (nopLobby) ClearHost()             {}
func (nopLobby) SetLobbyRules(int, int) {}
func (nopLobby) Invite(string)          {}

type chatRecorder struct{ lines []string }

func (c *chatRecorder) Send(line string) { c.lines = append(c.lines, line) }

type fakeLoader struct {
	cfg *domain.MatchConfig
	err error
}

func (f fakeLoader) LoadMatch() (*domain.MatchConfig, error) { return f.cfg, f.err }

func serviceConfig(t *testing.T) *domain.MatchConfig {
	t.Helper()
	cfg := &domain.MatchConfig{
		Name:       "Service Cup",
		BestOf:     5,
		DefaultMod: "NF",
		TieBreaker: domain.TieBreaker{Map: 999},
		Maps: map[string]domain.PoolEntry{
			"NM": {Maps: []int{101, 102}},
			"HD": {Maps: []int{201}},
		},
		Teams: []domain.Team{
			{Name: "Red", Members: []string{"red1", "red2"}},
			{Name: "Blue", Members: []string{"blue1", "blue2"}},
		},
	}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func newService(t *testing.T) (*MatchService, *chatRecorder) {
	t.Helper()
	chat := &chatRecorder{}
	s := NewMatchService(serviceConfig(t), nopLobby{}, chat, nil, fakeLoader{cfg: serviceConfig(t)})
	return s, chat
}

var referee = domain.Player{Name: "ref", Referee: true}

func TestHandleRefereeGate(t *testing.T) {
	s, _ := newService(t)
	reply, handled := s.Handle(domain.Player{Name: "red1"}, "!warmup")
	if !handled || !strings.Contains(reply, "referee") {
		t.Fatalf("reply = %q handled=%v", reply, handled)
	}
	reply, handled = s.Handle(referee, "!warmup")
	if !handled || reply != "" {
		t.Fatalf("referee warmup: reply = %q handled=%v", reply, handled)
	}
}

func TestHandleBareToken(t *testing.T) {
	s, _ := newService(t)
	s.Handle(referee, "!warmup") // salir de warmup

	// un token válido pickea
	reply, handled := s.Handle(domain.Player{Name: "red1"}, "nm1")
	if !handled || reply != "" {
		t.Fatalf("bare pick: reply = %q handled=%v", reply, handled)
	}
	if s.Engine().Phase() != engine.PhasePickedAwaitingStart {
		t.Fatalf("phase = %v", s.Engine().Phase())
	}

	// conversación normal pasa de largo
	if _, handled := s.Handle(domain.Player{Name: "red1"}, "gg wp"); handled {
		t.Fatal("chat treated as command")
	}
	if _, handled := s.Handle(domain.Player{Name: "red1"}, "no"); handled {
		t.Fatal("short word treated as command")
	}
}

func TestHandleFreeTextShorthand(t *testing.T) {
	s, _ := newService(t)
	s.Handle(referee, "!warmup")

	// "pick <token>" del líder en turno
	reply, handled := s.Handle(domain.Player{Name: "red1"}, "pick nm1")
	if !handled || reply != "" {
		t.Fatalf("pick shorthand: reply = %q handled=%v", reply, handled)
	}
	if s.Engine().Phase() != engine.PhasePickedAwaitingStart {
		t.Fatalf("phase = %v", s.Engine().Phase())
	}

	// "ban <token>" del líder del otro equipo
	reply, handled = s.Handle(domain.Player{Name: "blue1"}, "ban hd1")
	if !handled || reply != "" {
		t.Fatalf("ban shorthand: reply = %q handled=%v", reply, handled)
	}
	reply, _ = s.Handle(referee, "!pick HD1")
	if !strings.Contains(reply, "baneado") {
		t.Fatalf("shorthand ban not recorded: reply = %q", reply)
	}

	// los errores del engine sí se reportan
	reply, handled = s.Handle(domain.Player{Name: "red2"}, "pick nm2")
	if !handled || !strings.Contains(reply, "líder") {
		t.Fatalf("non-leader shorthand: reply = %q handled=%v", reply, handled)
	}

	// dos palabras de conversación pasan de largo
	if _, handled := s.Handle(domain.Player{Name: "red1"}, "pick one"); handled {
		t.Fatal("chat treated as shorthand")
	}
	if _, handled := s.Handle(domain.Player{Name: "red1"}, "ban zz9"); handled {
		t.Fatal("unknown token treated as shorthand")
	}
}

func TestHandlePickErrors(t *testing.T) {
	s, _ := newService(t)
	s.Handle(referee, "!warmup")

	reply, handled := s.Handle(domain.Player{Name: "blue1"}, "!pick NM1")
	if !handled || !strings.Contains(reply, "turno") {
		t.Fatalf("off-turn: reply = %q", reply)
	}
	reply, _ = s.Handle(domain.Player{Name: "red1"}, "!pick ZZ9")
	if !strings.Contains(reply, "no existe") {
		t.Fatalf("unknown map: reply = %q", reply)
	}
}

func TestHandleSetScore(t *testing.T) {
	s, chat := newService(t)
	reply, _ := s.Handle(referee, "!set score 2 1")
	if reply != "" {
		t.Fatalf("set score: reply = %q", reply)
	}
	found := false
	for _, l := range chat.lines {
		if strings.Contains(l, "Red 2 : Blue 1") {
			found = true
		}
	}
	if !found {
		t.Fatalf("score announce missing: %v", chat.lines)
	}

	reply, _ = s.Handle(referee, "!set score dos uno")
	if !strings.Contains(reply, "argumento") {
		t.Fatalf("bad args: reply = %q", reply)
	}
}

func TestHandleReload(t *testing.T) {
	s, chat := newService(t)
	reply, handled := s.Handle(referee, "!reload")
	if !handled || reply != "" {
		t.Fatalf("reload: reply = %q", reply)
	}
	found := false
	for _, l := range chat.lines {
		if strings.Contains(l, "Service Cup") {
			found = true
		}
	}
	if !found {
		t.Fatalf("reload announce missing: %v", chat.lines)
	}
}

func TestLooksLikePoolToken(t *testing.T) {
	cases := map[string]bool{
		"nm1":   true,
		"NM12":  true,
		"hd":    true,
		"x1":    false,
		"hola":  false,
		"nm1a":  false,
		"a":     false,
		"nmuy1": false,
	}
	for tok, want := range cases {
		if got := looksLikePoolToken(tok); got != want {
			t.Errorf("looksLikePoolToken(%q) = %v, want %v", tok, got, want)
		}
	}
}
