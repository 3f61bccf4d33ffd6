package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Player es la identidad que entrega el transporte de chat. La autenticación
// (quién controla el nick) es problema del transporte, no nuestro.
type Player struct {
	Name    string
	Referee bool
}

// Team: membresía inmutable durante el match; se reemplaza entera en reload.
type Team struct {
	Name       string   `json:"name"`
	Leader     string   `json:"leader"`
	Members    []string `json:"members"`
	Multiplier float64  `json:"multiplier"`
}

func (t Team) HasMember(name string) bool {
	for _, m := range t.Members {
		if strings.EqualFold(m, name) {
			return true
		}
	}
	return false
}

// PoolEntry: grupo de mapas bajo un token de pool (ej. "NM", "HD").
// Acepta en JSON tanto la forma corta [ids...] como la forma completa
// {"maps": [...], "mods": "...", "multiplier": ...}.
type PoolEntry struct {
	Maps       []int   `json:"maps"`
	Mods       string  `json:"mods"`
	Multiplier float64 `json:"multiplier"`
}

func (p *PoolEntry) UnmarshalJSON(b []byte) error {
	var ids []int
	if err := json.Unmarshal(b, &ids); err == nil {
		p.Maps = ids
		return nil
	}
	type plain PoolEntry
	var full plain
	if err := json.Unmarshal(b, &full); err != nil {
		return err
	}
	*p = PoolEntry(full)
	return nil
}

type TieBreaker struct {
	Map   int `json:"map"`
	Timer int `json:"timer"`
}

// ScoreMultipliers: tablas por jugador / equipo / mapa / token de mod.
// Las de mods sólo aplican cuando la ronda es free mod.
type ScoreMultipliers struct {
	Players map[string]float64 `json:"players"`
	Teams   map[string]float64 `json:"teams"`
	Maps    map[string]float64 `json:"maps"`
	Mods    map[string]float64 `json:"mods"`
}

// MatchConfig es la raíz agregada: se carga entera y se swapea atómica en
// reload, nunca se muta parcialmente.
type MatchConfig struct {
	Name            string               `json:"name"`
	BestOf          int                  `json:"bestOf"`
	MaxBan          int                  `json:"maxBan"`
	Timer           int                  `json:"timer"`
	DefaultMod      string               `json:"defaultMod"`
	RotateOnTimeout *bool                `json:"rotateOnTimeout"`
	TieBreaker      TieBreaker           `json:"tieBreaker"`
	FreeMod         []string             `json:"freeMod"`
	Maps            map[string]PoolEntry `json:"maps"`
	Multipliers     ScoreMultipliers     `json:"customScoreMultipliers"`
	Teams           []Team               `json:"teams"`
	ActiveTeams     []string             `json:"activeTeams"`
}

// PointsToWin = ceil(bestOf/2).
func (m *MatchConfig) PointsToWin() int {
	return (m.BestOf + 1) / 2
}

func (m *MatchConfig) RotatesOnTimeout() bool {
	return m.RotateOnTimeout == nil || *m.RotateOnTimeout
}

func (m *MatchConfig) IsFreeModPool(group string) bool {
	for _, g := range m.FreeMod {
		if strings.EqualFold(g, group) {
			return true
		}
	}
	return false
}

// Normalize aplica defaults y valida lo mínimo para arbitrar.
func (m *MatchConfig) Normalize() error {
	if m.BestOf <= 0 {
		m.BestOf = 5
	}
	if m.MaxBan <= 0 {
		m.MaxBan = 2
	}
	if m.Timer <= 0 {
		m.Timer = 120
	}
	if m.TieBreaker.Timer <= 0 {
		m.TieBreaker.Timer = 300
	}
	if m.DefaultMod == "" {
		m.DefaultMod = "NF"
	}
	if len(m.Teams) < 2 {
		return fmt.Errorf("match config: need at least 2 teams, got %d", len(m.Teams))
	}
	for i := range m.Teams {
		t := &m.Teams[i]
		if len(t.Members) == 0 {
			return fmt.Errorf("match config: team %q has no members", t.Name)
		}
		if len(t.Members) == 1 {
			t.Name = t.Members[0]
		}
		if t.Leader == "" {
			t.Leader = t.Members[0]
		}
		if t.Multiplier == 0 {
			if v, ok := m.Multipliers.Teams[t.Name]; ok {
				t.Multiplier = v
			} else {
				t.Multiplier = 1
			}
		}
	}
	if len(m.ActiveTeams) == 0 {
		m.ActiveTeams = []string{m.Teams[0].Name, m.Teams[1].Name}
	}
	if len(m.ActiveTeams) != 2 {
		return fmt.Errorf("match config: activeTeams must name exactly 2 teams")
	}
	for _, name := range m.ActiveTeams {
		if m.teamByName(name) == nil {
			return fmt.Errorf("match config: active team %q not in roster", name)
		}
	}
	return nil
}

func (m *MatchConfig) teamByName(name string) *Team {
	for i := range m.Teams {
		if strings.EqualFold(m.Teams[i].Name, name) {
			return &m.Teams[i]
		}
	}
	return nil
}

// ActiveRoster devuelve los dos equipos activos en orden de presentación.
func (m *MatchConfig) ActiveRoster() []Team {
	out := make([]Team, 0, 2)
	for _, name := range m.ActiveTeams {
		if t := m.teamByName(name); t != nil {
			out = append(out, *t)
		}
	}
	return out
}
