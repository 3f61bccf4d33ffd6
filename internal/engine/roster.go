package engine

import (
	"strings"

	"github.com/jose-valero/osu-tourney-bot/internal/domain"
)

type teamInfo struct {
	name       string
	leader     string
	members    []string
	multiplier float64
}

// roster: los dos equipos activos, indexados por TeamID denso. Se reconstruye
// entero en cada reload; ninguna referencia a equipos viejos sobrevive.
type roster struct {
	teams []teamInfo
}

func newRoster(cfg *domain.MatchConfig) roster {
	active := cfg.ActiveRoster()
	teams := make([]teamInfo, 0, len(active))
	for _, t := range active {
		teams = append(teams, teamInfo{
			name:       t.Name,
			leader:     t.Leader,
			members:    append([]string(nil), t.Members...),
			multiplier: t.Multiplier,
		})
	}
	return roster{teams: teams}
}

func (r roster) count() int { return len(r.teams) }

func (r roster) name(id TeamID) string {
	if id < 0 || int(id) >= len(r.teams) {
		return ""
	}
	return r.teams[id].name
}

// teamOf resuelve el equipo de un jugador; NoTeam si no es miembro de nadie.
func (r roster) teamOf(player string) TeamID {
	for i, t := range r.teams {
		for _, m := range t.members {
			if strings.EqualFold(m, player) {
				return TeamID(i)
			}
		}
	}
	return NoTeam
}

func (r roster) leads(player string, id TeamID) bool {
	if id < 0 || int(id) >= len(r.teams) {
		return false
	}
	return strings.EqualFold(r.teams[id].leader, player)
}
