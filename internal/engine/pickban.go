package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/jose-valero/osu-tourney-bot/internal/domain"
)

// PickBanController hace cumplir la legalidad del draft: orden de turnos,
// membresía del pool, disponibilidad del mapa y cupos de ban.
type PickBanController struct {
	cfg    *domain.MatchConfig
	roster roster

	turn   TeamID
	pick   *PickRecord
	chosen map[string]bool
	// banned: token de display → equipo que baneó; NoTeam para bans de referee
	banned   map[string]TeamID
	banCount []int
}

func NewPickBanController(cfg *domain.MatchConfig, r roster) *PickBanController {
	return &PickBanController{
		cfg:      cfg,
		roster:   r,
		chosen:   map[string]bool{},
		banned:   map[string]TeamID{},
		banCount: make([]int, r.count()),
	}
}

func (c *PickBanController) CurrentTeam() TeamID   { return c.turn }
func (c *PickBanController) LivePick() *PickRecord { return c.pick }
func (c *PickBanController) ClearLivePick()        { c.pick = nil }
func (c *PickBanController) BanCount(t TeamID) int { return c.banCount[t] }

func (c *PickBanController) SetTurn(t TeamID) bool {
	if t < 0 || int(t) >= c.roster.count() {
		return false
	}
	c.turn = t
	return true
}

// Rotate avanza el turno: (actual + 1) mod equipos. Exactamente una vez por
// evento; el que llama decide cuándo.
func (c *PickBanController) Rotate() TeamID {
	c.turn = (c.turn + 1) % TeamID(c.roster.count())
	return c.turn
}

// MarkChosen registra el pick vivo como jugado (al arrancar la ronda).
func (c *PickBanController) MarkChosen() {
	if c.pick != nil {
		c.chosen[c.pick.Token] = true
	}
}

// Pick resuelve y fija el pick vivo. Referees saltean turno y repetición;
// durante el tiebreak sólo pickea un referee; en warmup no hay turnos.
func (c *PickBanController) Pick(token string, p domain.Player, warmup, tiebreak bool) (*PickRecord, error) {
	if tiebreak && !p.Referee {
		return nil, ErrTiebreakPick
	}
	if !warmup && !tiebreak && !p.Referee {
		if c.roster.teamOf(p.Name) != c.turn {
			return nil, ErrNotYourTurn
		}
		if !c.roster.leads(p.Name, c.turn) {
			return nil, ErrNotLeader
		}
	}

	rec, err := c.resolve(token)
	if err != nil {
		return nil, err
	}
	if _, isBanned := c.banned[rec.Token]; isBanned {
		return nil, ErrMapBanned
	}
	if c.chosen[rec.Token] && !p.Referee {
		return nil, ErrMapAlreadyPicked
	}

	c.pick = rec
	return rec, nil
}

// Ban registra un veto. Un equipo nunca supera maxBan; el ban de referee se
// guarda sin dueño y no consume cupo de nadie.
func (c *PickBanController) Ban(token string, p domain.Player) (*PickRecord, TeamID, error) {
	rec, err := c.resolve(token)
	if err != nil {
		return nil, NoTeam, err
	}
	if _, dup := c.banned[rec.Token]; dup {
		return nil, NoTeam, ErrAlreadyBanned
	}

	team := c.roster.teamOf(p.Name)
	if team == NoTeam && !p.Referee {
		return nil, NoTeam, ErrNotLeader
	}
	if team != NoTeam && !c.roster.leads(p.Name, team) && !p.Referee {
		return nil, NoTeam, ErrNotLeader
	}
	if p.Referee && team == NoTeam {
		c.banned[rec.Token] = NoTeam
		return rec, NoTeam, nil
	}
	if c.banCount[team] >= c.cfg.MaxBan {
		return nil, NoTeam, ErrBanQuota
	}
	c.banned[rec.Token] = team
	c.banCount[team]++
	return rec, team, nil
}

// Unban revierte un ban (sólo referee) y devuelve el cupo al equipo dueño.
func (c *PickBanController) Unban(token string) bool {
	token = strings.ToUpper(strings.TrimSpace(token))
	team, ok := c.banned[token]
	if !ok {
		return false
	}
	if team != NoTeam && c.banCount[team] > 0 {
		c.banCount[team]--
	}
	delete(c.banned, token)
	return true
}

// ResetPicks limpia pick vivo, historial de elegidos y todos los bans.
func (c *PickBanController) ResetPicks() {
	c.pick = nil
	c.chosen = map[string]bool{}
	c.banned = map[string]TeamID{}
	c.banCount = make([]int, c.roster.count())
}

// resolve convierte "HD2" en un PickRecord: grupo de pool + índice 1-based.
// Un token pelado sobre un pool de una sola entrada resuelve al índice 1.
func (c *PickBanController) resolve(token string) (*PickRecord, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	if len(token) < 2 {
		return nil, ErrUnknownMap
	}
	group := token[:2]
	entry, ok := c.cfg.Maps[group]
	if !ok {
		return nil, ErrUnknownMap
	}

	display := token
	idx, err := strconv.Atoi(token[2:])
	switch {
	case len(token) == 2 || err != nil:
		if len(entry.Maps) != 1 {
			return nil, ErrUnknownMap
		}
		idx = 1
		display = group + "1"
	case idx < 1 || idx > len(entry.Maps):
		return nil, ErrUnknownMap
	}

	requested := entry.Mods
	if requested == "" {
		requested = group
	}
	mods, freeMod := ResolveMod(requested, c.cfg.DefaultMod, c.cfg.IsFreeModPool(group))

	return &PickRecord{
		MapID:      entry.Maps[idx-1],
		Token:      display,
		Mods:       mods,
		FreeMod:    freeMod,
		Multiplier: c.pointMultiplier(display, group),
	}, nil
}

// pointMultiplier: entrada de pool > tabla por token completo > tabla por
// grupo > 1.
func (c *PickBanController) pointMultiplier(display, group string) int {
	if e, ok := c.cfg.Maps[group]; ok && e.Multiplier > 0 {
		return int(math.Round(e.Multiplier))
	}
	if v, ok := c.cfg.Multipliers.Maps[display]; ok && v > 0 {
		return int(math.Round(v))
	}
	if v, ok := c.cfg.Multipliers.Maps[group]; ok && v > 0 {
		return int(math.Round(v))
	}
	return 1
}
