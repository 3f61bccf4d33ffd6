package engine

import (
	"fmt"
	"testing"

	"github.com/jose-valero/osu-tourney-bot/internal/domain"
)

func testConfig(t *testing.T, bestOf int) *domain.MatchConfig {
	t.Helper()
	cfg := &domain.MatchConfig{
		Name:       "Test Cup",
		BestOf:     bestOf,
		MaxBan:     2,
		Timer:      120,
		DefaultMod: "NF",
		TieBreaker: domain.TieBreaker{Map: 999, Timer: 300},
		FreeMod:    []string{"FM"},
		Maps: map[string]domain.PoolEntry{
			"NM": {Maps: []int{101, 102, 103}},
			"HD": {Maps: []int{201, 202}},
			"DT": {Maps: []int{301}},
			"FM": {Maps: []int{401}},
			"EX": {Maps: []int{501}, Multiplier: 2},
		},
		Multipliers: domain.ScoreMultipliers{
			Players: map[string]float64{"red2": 0.5},
			Mods:    map[string]float64{"HD": 1.06},
		},
		Teams: []domain.Team{
			{Name: "Red", Leader: "red1", Members: []string{"red1", "red2"}},
			{Name: "Blue", Leader: "blue1", Members: []string{"blue1", "blue2"}},
		},
	}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

var (
	red1  = domain.Player{Name: "red1"}
	red2  = domain.Player{Name: "red2"}
	blue1 = domain.Player{Name: "blue1"}
	blue2 = domain.Player{Name: "blue2"}
	ref   = domain.Player{Name: "ref", Referee: true}
)

// ---------- fakes ----------

type fakeLobby struct{ calls []string }

func (f *fakeLobby) ChangeMap(id int)         { f.record("map:%d", id) }
func (f *fakeLobby) SetMods(mods string)      { f.record("mods:%s", mods) }
func (f *fakeLobby) StartTimer(seconds int)   { f.record("timer:%d", seconds) }
func (f *fakeLobby) AbortTimer()              { f.record("aborttimer") }
func (f *fakeLobby) StartMatch(countdown int) { f.record("start:%d", countdown) }
func (f *fakeLobby) ClearHost()               { f.record("clearhost") }
func (f *fakeLobby) SetLobbyRules(tm, sm int) { f.record("rules:%d,%d", tm, sm) }
func (f *fakeLobby) Invite(player string)     { f.record("invite:%s", player) }
func (f *fakeLobby) record(format string, a ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, a...))
}
func (f *fakeLobby) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

type fakeAnnouncer struct {
	events    []string
	summaries []RoundSummary
}

func (f *fakeAnnouncer) TurnToPick(team string)  { f.add("turn:" + team) }
func (f *fakeAnnouncer) PickTimeout(team string) { f.add("timeout:" + team) }
func (f *fakeAnnouncer) AllReady()               { f.add("allready") }
func (f *fakeAnnouncer) RoundResult(s RoundSummary) {
	f.summaries = append(f.summaries, s)
	f.add("round:" + s.Outcome.RoundScores[0].Name)
}
func (f *fakeAnnouncer) RoundDraw(s RoundSummary) {
	f.summaries = append(f.summaries, s)
	f.add("draw")
}
func (f *fakeAnnouncer) MatchWon(team string)        { f.add("won:" + team) }
func (f *fakeAnnouncer) TiebreakStarted()            { f.add("tiebreak") }
func (f *fakeAnnouncer) PickLoaded(tok, m, t string) { f.add("pick:" + tok + ":" + m) }
func (f *fakeAnnouncer) BanRecorded(tok, by string, ref bool) {
	f.add(fmt.Sprintf("ban:%s:%s:%v", tok, by, ref))
}
func (f *fakeAnnouncer) BanRemoved(tok string)      { f.add("unban:" + tok) }
func (f *fakeAnnouncer) WarmupToggled(on bool)      { f.add(fmt.Sprintf("warmup:%v", on)) }
func (f *fakeAnnouncer) ResetDone(scope string)     { f.add("reset:" + scope) }
func (f *fakeAnnouncer) ConfigReloaded(name string) { f.add("reload:" + name) }
func (f *fakeAnnouncer) ScoreSet(s []TeamPoints)    { f.add("scoreset") }
func (f *fakeAnnouncer) add(e string)               { f.events = append(f.events, e) }
func (f *fakeAnnouncer) count(e string) int {
	n := 0
	for _, ev := range f.events {
		if ev == e {
			n++
		}
	}
	return n
}
func (f *fakeAnnouncer) has(e string) bool { return f.count(e) > 0 }
