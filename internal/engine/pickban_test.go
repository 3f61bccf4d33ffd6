package engine

import (
	"errors"
	"testing"
)

func newController(t *testing.T) *PickBanController {
	t.Helper()
	cfg := testConfig(t, 5)
	return NewPickBanController(cfg, newRoster(cfg))
}

func TestPickResolution(t *testing.T) {
	c := newController(t)

	rec, err := c.Pick("nm2", red1, false, false)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if rec.MapID != 102 || rec.Token != "NM2" || rec.Mods != "NF" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if c.LivePick() != rec {
		t.Fatal("live pick not set")
	}
}

func TestPickTokenErrors(t *testing.T) {
	c := newController(t)
	cases := []struct {
		token string
	}{
		{"ZZ1"}, // grupo desconocido
		{"NM9"}, // índice fuera de rango
		{"NM0"},
		{"NM"},  // token pelado sobre pool múltiple
		{"N"},   // demasiado corto
	}
	for _, cse := range cases {
		if _, err := c.Pick(cse.token, ref, false, false); !errors.Is(err, ErrUnknownMap) {
			t.Errorf("Pick(%q): err = %v, want ErrUnknownMap", cse.token, err)
		}
	}

	// pool de una sola entrada: el token pelado resuelve al índice 1
	rec, err := c.Pick("DT", ref, false, false)
	if err != nil {
		t.Fatalf("bare single-entry pick: %v", err)
	}
	if rec.Token != "DT1" || rec.MapID != 301 {
		t.Fatalf("bare single-entry pick: %+v", rec)
	}
}

func TestPickTurnOrder(t *testing.T) {
	c := newController(t)

	if _, err := c.Pick("NM1", blue1, false, false); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("off-turn pick: err = %v, want ErrNotYourTurn", err)
	}
	if _, err := c.Pick("NM1", red2, false, false); !errors.Is(err, ErrNotLeader) {
		t.Fatalf("non-leader pick: err = %v, want ErrNotLeader", err)
	}
	// el referee saltea el orden de turnos
	if _, err := c.Pick("NM1", ref, false, false); err != nil {
		t.Fatalf("referee pick: %v", err)
	}
	// en warmup no hay turnos
	if _, err := c.Pick("NM2", blue2, true, false); err != nil {
		t.Fatalf("warmup pick: %v", err)
	}
	// en tiebreak sólo el referee
	if _, err := c.Pick("NM1", red1, false, true); !errors.Is(err, ErrTiebreakPick) {
		t.Fatalf("tiebreak pick: err = %v, want ErrTiebreakPick", err)
	}
}

func TestPickRepeatAndBanChecks(t *testing.T) {
	c := newController(t)

	if _, err := c.Pick("NM1", red1, false, false); err != nil {
		t.Fatalf("pick: %v", err)
	}
	c.MarkChosen()
	c.ClearLivePick()

	if _, err := c.Pick("NM1", red1, false, false); !errors.Is(err, ErrMapAlreadyPicked) {
		t.Fatalf("re-pick: err = %v, want ErrMapAlreadyPicked", err)
	}
	// override de referee sobre mapa ya jugado
	if _, err := c.Pick("NM1", ref, false, false); err != nil {
		t.Fatalf("referee re-pick: %v", err)
	}

	if _, _, err := c.Ban("NM2", blue1); err != nil {
		t.Fatalf("ban: %v", err)
	}
	if _, err := c.Pick("NM2", red1, false, false); !errors.Is(err, ErrMapBanned) {
		t.Fatalf("banned pick: err = %v, want ErrMapBanned", err)
	}
}

func TestBanQuota(t *testing.T) {
	c := newController(t) // maxBan = 2

	for _, tok := range []string{"NM1", "NM2"} {
		if _, team, err := c.Ban(tok, red1); err != nil || team != 0 {
			t.Fatalf("ban %s: team=%v err=%v", tok, team, err)
		}
	}
	if _, _, err := c.Ban("NM3", red1); !errors.Is(err, ErrBanQuota) {
		t.Fatalf("over-quota ban: err = %v, want ErrBanQuota", err)
	}
	if c.BanCount(0) != 2 {
		t.Fatalf("ban count moved on rejected ban: %d", c.BanCount(0))
	}

	// mismo mapa dos veces
	if _, _, err := c.Ban("NM1", blue1); !errors.Is(err, ErrAlreadyBanned) {
		t.Fatalf("dup ban: err = %v, want ErrAlreadyBanned", err)
	}
	// miembro que no lidera
	if _, _, err := c.Ban("HD1", red2); !errors.Is(err, ErrNotLeader) {
		t.Fatalf("non-leader ban: err = %v, want ErrNotLeader", err)
	}
}

func TestRefereeBanAndUnban(t *testing.T) {
	c := newController(t)

	// ban de referee: sin dueño, no consume cupo
	if _, team, err := c.Ban("HD1", ref); err != nil || team != NoTeam {
		t.Fatalf("referee ban: team=%v err=%v", team, err)
	}
	if c.BanCount(0) != 0 || c.BanCount(1) != 0 {
		t.Fatal("referee ban consumed a team quota")
	}

	if _, _, err := c.Ban("NM1", red1); err != nil {
		t.Fatalf("ban: %v", err)
	}
	if !c.Unban("NM1") {
		t.Fatal("unban failed")
	}
	if c.BanCount(0) != 0 {
		t.Fatalf("unban did not restore quota: %d", c.BanCount(0))
	}
	if c.Unban("NM1") {
		t.Fatal("unban of unbanned map should report false")
	}
}

func TestRotate(t *testing.T) {
	c := newController(t)
	if c.CurrentTeam() != 0 {
		t.Fatalf("initial turn = %d", c.CurrentTeam())
	}
	if got := c.Rotate(); got != 1 {
		t.Fatalf("rotate = %d, want 1", got)
	}
	if got := c.Rotate(); got != 0 {
		t.Fatalf("rotate wrap = %d, want 0", got)
	}
}

func TestPickModOverrides(t *testing.T) {
	c := newController(t)
	// pool free mod: la resolución cortocircuita al sentinel
	rec, err := c.Pick("FM1", ref, false, false)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if !rec.FreeMod || rec.Mods != FreeModToken {
		t.Fatalf("free mod pool: %+v", rec)
	}

	// multiplicador de pool
	rec, err = c.Pick("EX1", ref, false, false)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if rec.Multiplier != 2 {
		t.Fatalf("pool multiplier = %d, want 2", rec.Multiplier)
	}
}
