package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jose-valero/osu-tourney-bot/internal/domain"
	"github.com/jose-valero/osu-tourney-bot/internal/engine"
)

// MatchService traduce el chat del lobby a comandos del engine y los hechos
// del engine de vuelta a mensajes. Es el Announcer del orquestador.
type MatchService struct {
	eng    *engine.MatchOrchestrator
	chat   ChatSender
	notify Notifier
	loader MatchConfigLoader
}

func NewMatchService(cfg *domain.MatchConfig, lobby engine.LobbyControl, chat ChatSender, notify Notifier, loader MatchConfigLoader) *MatchService {
	s := &MatchService{chat: chat, notify: notify, loader: loader}
	s.eng = engine.NewMatchOrchestrator(cfg, lobby, s)
	return s
}

// Engine expone el orquestador para que el adapter de bancho le enchufe los
// eventos de ciclo de vida del lobby.
func (s *MatchService) Engine() *engine.MatchOrchestrator { return s.eng }

// Handle procesa una línea de chat. Devuelve la respuesta y si la línea era
// nuestra; un mensaje ajeno vuelve con handled=false y se ignora.
func (s *MatchService) Handle(p domain.Player, msg string) (string, bool) {
	fields := strings.Fields(msg)
	if len(fields) == 0 {
		return "", false
	}

	switch strings.ToLower(fields[0]) {
	case "!pick":
		if len(fields) < 2 {
			return "ℹ️ uso: !pick <mapa> (ej: !pick NM2)", true
		}
		return s.render(s.eng.Pick(fields[1], p)), true

	case "!ban":
		if len(fields) < 2 {
			return "ℹ️ uso: !ban <mapa>", true
		}
		return s.render(s.eng.Ban(fields[1], p)), true

	case "!unban":
		if len(fields) < 2 {
			return "ℹ️ uso: !unban <mapa>", true
		}
		return s.render(s.eng.Unban(fields[1], p)), true

	case "!warmup":
		return s.render(s.eng.ToggleWarmup(p)), true

	case "!inviteall":
		return s.render(s.eng.InviteAll(p)), true

	case "!reset":
		scope := ""
		if len(fields) > 1 {
			scope = strings.ToLower(fields[1])
		}
		return s.render(s.eng.Reset(scope, p)), true

	case "!reload":
		return s.reload(p), true

	case "!set":
		return s.handleSet(fields[1:], p), true

	case "!trigger":
		return s.handleTrigger(fields[1:], p), true
	}

	// atajo de texto libre de los líderes: "pick nm1" / "ban hd1". Un token
	// que no resuelve a ningún pool era conversación normal.
	if len(fields) == 2 && looksLikePoolToken(fields[1]) {
		switch strings.ToLower(fields[0]) {
		case "pick":
			if err := s.eng.Pick(fields[1], p); !errors.Is(err, engine.ErrUnknownMap) {
				return s.render(err), true
			}
		case "ban":
			if err := s.eng.Ban(fields[1], p); !errors.Is(err, engine.ErrUnknownMap) {
				return s.render(err), true
			}
		}
	}

	// pick por token pelado: los jugadores tiran "nm2" directo al chat.
	// Si el token no resuelve a ningún pool era conversación normal.
	if len(fields) == 1 && looksLikePoolToken(fields[0]) {
		err := s.eng.Pick(fields[0], p)
		if errors.Is(err, engine.ErrUnknownMap) {
			return "", false
		}
		return s.render(err), true
	}
	return "", false
}

func (s *MatchService) handleSet(args []string, p domain.Player) string {
	if len(args) == 0 {
		return "ℹ️ uso: !set pick <n> | !set score <a> <b> | !set teams <A> <B>"
	}
	switch strings.ToLower(args[0]) {
	case "pick":
		if len(args) < 2 {
			return "ℹ️ uso: !set pick <n> (1-based)"
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return s.render(engine.ErrBadArgument)
		}
		return s.render(s.eng.SetPickTeam(n-1, p))
	case "score":
		if len(args) < 3 {
			return "ℹ️ uso: !set score <a> <b>"
		}
		a, errA := strconv.Atoi(args[1])
		b, errB := strconv.Atoi(args[2])
		if errA != nil || errB != nil || a < 0 || b < 0 {
			return s.render(engine.ErrBadArgument)
		}
		return s.render(s.eng.SetScore([]int{a, b}, p))
	case "teams":
		if len(args) < 3 {
			return "ℹ️ uso: !set teams <equipoA> <equipoB>"
		}
		return s.render(s.eng.SetActiveTeams(args[1], args[2], p))
	}
	return "ℹ️ uso: !set pick <n> | !set score <a> <b> | !set teams <A> <B>"
}

func (s *MatchService) handleTrigger(args []string, p domain.Player) string {
	if len(args) == 0 {
		return "ℹ️ uso: !trigger score | !trigger tb"
	}
	switch strings.ToLower(args[0]) {
	case "score":
		return s.render(s.eng.TriggerScore(p))
	case "tb":
		return s.render(s.eng.TriggerTiebreak(p))
	}
	return "ℹ️ uso: !trigger score | !trigger tb"
}

func (s *MatchService) reload(p domain.Player) string {
	if s.loader == nil {
		return "⚠️ no hay archivo de config para recargar"
	}
	cfg, err := s.loader.LoadMatch()
	if err != nil {
		return "⚠️ no pude recargar la config: " + err.Error()
	}
	return s.render(s.eng.Reload(cfg, p))
}

// render mapea la taxonomía de errores del engine a mensajes de chat. Un
// error nil no responde nada: el hecho ya salió por el Announcer.
func (s *MatchService) render(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, engine.ErrNotReferee):
		return "⛔ ese comando es sólo para el referee"
	case errors.Is(err, engine.ErrNotLeader):
		return "⛔ sólo el líder del equipo puede hacer eso"
	case errors.Is(err, engine.ErrNotYourTurn):
		return "⛔ no es el turno de tu equipo"
	case errors.Is(err, engine.ErrTiebreakPick):
		return "⛔ en el tiebreak pickea el referee"
	case errors.Is(err, engine.ErrUnknownMap):
		return "❓ ese mapa no existe en el pool"
	case errors.Is(err, engine.ErrMapBanned):
		return "🚫 ese mapa está baneado"
	case errors.Is(err, engine.ErrMapAlreadyPicked):
		return "🚫 ese mapa ya se jugó"
	case errors.Is(err, engine.ErrBanQuota):
		return "🚫 tu equipo ya usó todos sus bans"
	case errors.Is(err, engine.ErrAlreadyBanned):
		return "ℹ️ ese mapa ya estaba baneado"
	case errors.Is(err, engine.ErrBadArgument):
		return "❓ no entendí el argumento"
	}
	return "⚠️ " + err.Error()
}

func looksLikePoolToken(tok string) bool {
	if len(tok) < 2 || len(tok) > 4 {
		return false
	}
	for i, r := range tok {
		letter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		if i < 2 && !letter {
			return false
		}
		if i >= 2 && !digit {
			return false
		}
	}
	return true
}

// ---------- Announcer ----------

func (s *MatchService) TurnToPick(team string) {
	s.chat.Send(fmt.Sprintf("🎯 turno de pick: %s (tenés %d segundos)", team, s.eng.Config().Timer))
}

func (s *MatchService) PickTimeout(team string) {
	s.chat.Send("⏰ se acabó el tiempo de pick de " + team)
}

func (s *MatchService) AllReady() {
	s.chat.Send("✅ todos listos, arrancamos en 10")
}

func (s *MatchService) PickLoaded(token, mods, team string) {
	s.chat.Send(fmt.Sprintf("📍 %s cargado (%s)", token, mods))
}

func (s *MatchService) BanRecorded(token, by string, referee bool) {
	if referee {
		s.chat.Send("🚫 " + token + " baneado por el referee")
		return
	}
	s.chat.Send("🚫 " + token + " baneado por " + by)
}

func (s *MatchService) BanRemoved(token string) {
	s.chat.Send("♻️ ban de " + token + " levantado")
}

func (s *MatchService) WarmupToggled(on bool) {
	if on {
		s.chat.Send("🔥 warmup activado, jueguen tranquilos")
		return
	}
	s.chat.Send("🏁 warmup terminado, empieza el match")
}

func (s *MatchService) RoundResult(sum engine.RoundSummary) {
	top := sum.Outcome.RoundScores[0]
	second := sum.Outcome.RoundScores[1]
	s.chat.Send(fmt.Sprintf("🏁 %s: %s %d — %s %d (dif %d)",
		sum.Pick, top.Name, top.Score, second.Name, second.Score, sum.Outcome.Margin))
	s.chat.Send("📊 " + formatMatchScore(sum.Outcome.MatchScores))
	s.pushCard(sum)
}

func (s *MatchService) RoundDraw(sum engine.RoundSummary) {
	s.chat.Send(fmt.Sprintf("⚖️ empate exacto en %s: el referee decide (!set score / !set pick)", sum.Pick))
	s.pushCard(sum)
}

func (s *MatchService) MatchWon(team string) {
	scores := s.eng.Ledger().MatchScores()
	s.chat.Send("🏆 ¡" + team + " gana el match! " + formatMatchScore(scores))
	if s.notify == nil {
		return
	}
	name := s.eng.Config().Name
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.notify.MatchWonCard(ctx, name, team, scores)
	}()
}

func (s *MatchService) TiebreakStarted() {
	s.chat.Send("⚡ ¡TIEBREAK! FreeMod, se juega todo en un mapa")
}

func (s *MatchService) ResetDone(scope string) {
	switch scope {
	case "pick":
		s.chat.Send("♻️ picks y bans reiniciados")
	case "score":
		s.chat.Send("♻️ marcador reiniciado")
	default:
		s.chat.Send("♻️ match reiniciado (picks y marcador)")
	}
}

func (s *MatchService) ConfigReloaded(name string) {
	s.chat.Send("🔄 config recargada: " + name)
}

func (s *MatchService) ScoreSet(scores []engine.TeamPoints) {
	s.chat.Send("📊 marcador ajustado: " + formatMatchScore(scores))
}

func (s *MatchService) pushCard(sum engine.RoundSummary) {
	if s.notify == nil {
		return
	}
	name := s.eng.Config().Name
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.notify.RoundCard(ctx, name, sum)
	}()
}

func formatMatchScore(scores []engine.TeamPoints) string {
	parts := make([]string, 0, len(scores))
	for _, t := range scores {
		parts = append(parts, fmt.Sprintf("%s %d", t.Name, t.Points))
	}
	return strings.Join(parts, " : ")
}
