package engine

import (
	"math"
	"sort"
	"strings"

	"github.com/jose-valero/osu-tourney-bot/internal/domain"
)

// ScoreLedger acumula puntajes de ronda por equipo y lleva el marcador del
// match. Todo el estado vive en el goroutine del transporte: el único
// mecanismo de seguridad es el guard one-shot de finalización.
type ScoreLedger struct {
	roster      roster
	pointsToWin int
	playerMults map[string]float64
	modMults    map[string]float64

	roundScore []int64
	results    []PlayerScore
	started    int
	finished   int
	freeMod    bool
	active     bool
	finalized  bool

	matchScore []int
}

func NewScoreLedger(cfg *domain.MatchConfig, r roster) *ScoreLedger {
	pm := make(map[string]float64, len(cfg.Multipliers.Players))
	for name, v := range cfg.Multipliers.Players {
		pm[strings.ToLower(name)] = v
	}
	return &ScoreLedger{
		roster:      r,
		pointsToWin: cfg.PointsToWin(),
		playerMults: pm,
		modMults:    cfg.Multipliers.Mods,
		roundScore:  make([]int64, r.count()),
		matchScore:  make([]int, r.count()),
	}
}

func (l *ScoreLedger) PointsToWin() int { return l.pointsToWin }

// StartRound abre la ventana de scoring: expected es cuántos jugadores de los
// equipos arrancaron el mapa; freeMod habilita las tablas por mod.
func (l *ScoreLedger) StartRound(expected int, freeMod bool) {
	l.roundScore = make([]int64, l.roster.count())
	l.results = nil
	l.started = expected
	l.finished = 0
	l.freeMod = freeMod
	l.active = true
	l.finalized = false
}

// RecordPlayerResult suma el resultado de un jugador. No-op fuera de una
// ronda activa o para jugadores que no resuelven a ningún equipo. Devuelve
// true cuando ya terminaron todos los que arrancaron.
func (l *ScoreLedger) RecordPlayerResult(player string, rawScore int64, passed bool, mods Mods) bool {
	if !l.active {
		return false
	}
	team := l.roster.teamOf(player)
	if team == NoTeam {
		return false
	}

	mult := 1.0
	effective := int64(0)
	if passed {
		mult = l.multiplierFor(player, team, mods)
		effective = int64(math.Round(float64(rawScore) * mult))
		l.roundScore[team] += effective
	}
	l.results = append(l.results, PlayerScore{
		Name:       player,
		Team:       team,
		Raw:        rawScore,
		Effective:  effective,
		Multiplier: mult,
		Passed:     passed,
		Mods:       mods.String(),
	})

	// el contador de terminados avanza pase o no pase
	l.finished++
	return l.finished >= l.started
}

func (l *ScoreLedger) multiplierFor(player string, team TeamID, mods Mods) float64 {
	mult := 1.0
	if v, ok := l.playerMults[strings.ToLower(player)]; ok {
		mult *= v
	}
	mult *= l.roster.teams[team].multiplier
	if l.freeMod {
		for token, v := range l.modMults {
			if ParseMods(token)&mods != 0 {
				mult *= v
			}
		}
	}
	return mult
}

// FinalizeRound cierra la ronda bajo el guard one-shot: una señal duplicada
// de "todos terminaron" vuelve con ErrScoreFinalized y no toca nada.
func (l *ScoreLedger) FinalizeRound(pick *PickRecord) (RoundOutcome, error) {
	if l.finalized {
		return RoundOutcome{}, ErrScoreFinalized
	}
	l.finalized = true
	l.active = false

	sorted := make([]TeamScore, 0, l.roster.count())
	for i, s := range l.roundScore {
		sorted = append(sorted, TeamScore{Team: TeamID(i), Name: l.roster.name(TeamID(i)), Score: s})
	}
	// desempate por orden de presentación, no por regla: empate exacto se
	// declara draw y lo adjudica el referee
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	out := RoundOutcome{Winner: NoTeam, RoundScores: sorted}
	if len(sorted) >= 2 && sorted[0].Score == sorted[1].Score {
		out.Draw = true
		out.MatchScores = l.MatchScores()
		return out, nil
	}

	winner := sorted[0].Team
	delta := 1
	if pick != nil && pick.Multiplier > 0 {
		delta = pick.Multiplier
	}
	l.matchScore[winner] += delta

	out.Winner = winner
	out.Margin = sorted[0].Score - sorted[1].Score
	out.MatchScores = l.MatchScores()

	// la detección se evalúa recién después del incremento; un win manda
	if l.matchScore[winner] >= l.pointsToWin {
		out.Won = true
		return out, nil
	}
	tied := true
	for _, s := range l.matchScore {
		if s != l.pointsToWin-1 {
			tied = false
			break
		}
	}
	out.TieBreak = tied
	return out, nil
}

// AbortRound descarta la ronda en curso sin consumir el guard.
func (l *ScoreLedger) AbortRound() {
	l.active = false
	l.results = nil
	l.roundScore = make([]int64, l.roster.count())
	l.started = 0
	l.finished = 0
}

func (l *ScoreLedger) Results() []PlayerScore { return l.results }

func (l *ScoreLedger) MatchScores() []TeamPoints {
	out := make([]TeamPoints, 0, len(l.matchScore))
	for i, s := range l.matchScore {
		out = append(out, TeamPoints{Team: TeamID(i), Name: l.roster.name(TeamID(i)), Points: s})
	}
	return out
}

// SetMatchScores pisa el marcador (ajuste manual del referee).
func (l *ScoreLedger) SetMatchScores(scores []int) {
	for i := range l.matchScore {
		if i < len(scores) {
			l.matchScore[i] = scores[i]
		}
	}
}

// ResetMatch limpia el marcador del match; el estado de fase lo maneja el
// orquestador.
func (l *ScoreLedger) ResetMatch() {
	l.matchScore = make([]int, l.roster.count())
	l.AbortRound()
	l.finalized = false
}
