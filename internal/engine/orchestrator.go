package engine

import (
	"log"

	"github.com/jose-valero/osu-tourney-bot/internal/domain"
)

// MatchOrchestrator es la máquina de fases del match: es dueña del ledger y
// del controller de picks, consume los eventos de ciclo de vida del lobby y
// decide rotación, tiebreak y cierre. Un evento a la vez, siempre en el mismo
// goroutine del transporte; acá no hay locks a propósito.
type MatchOrchestrator struct {
	cfg    *domain.MatchConfig
	roster roster
	ledger *ScoreLedger
	picks  *PickBanController

	lobby    LobbyControl
	announce Announcer

	phase Phase
	// startPending evita anunciar el start dos veces ante señales all-ready
	// repetidas; se limpia al cerrar la ronda o ante un abort.
	startPending bool
}

func NewMatchOrchestrator(cfg *domain.MatchConfig, lobby LobbyControl, announce Announcer) *MatchOrchestrator {
	o := &MatchOrchestrator{lobby: lobby, announce: announce, phase: PhaseWarmup}
	o.install(cfg)
	return o
}

// install reconstruye roster, ledger y controller desde un snapshot nuevo.
// Nada del estado viejo sobrevive: los ledgers van por TeamID denso.
func (o *MatchOrchestrator) install(cfg *domain.MatchConfig) {
	o.cfg = cfg
	o.roster = newRoster(cfg)
	o.ledger = NewScoreLedger(cfg, o.roster)
	o.picks = NewPickBanController(cfg, o.roster)
	o.startPending = false
}

func (o *MatchOrchestrator) Phase() Phase                { return o.phase }
func (o *MatchOrchestrator) Config() *domain.MatchConfig { return o.cfg }
func (o *MatchOrchestrator) Ledger() *ScoreLedger        { return o.ledger }

func (o *MatchOrchestrator) CurrentTeamName() string {
	return o.roster.name(o.picks.CurrentTeam())
}

// ---------- comandos de chat ----------

func (o *MatchOrchestrator) Pick(token string, p domain.Player) error {
	if o.phase == PhaseMatchComplete && !p.Referee {
		return ErrNotYourTurn
	}
	rec, err := o.picks.Pick(token, p, o.phase == PhaseWarmup, o.phase == PhaseTieBreak)
	if err != nil {
		return err
	}
	o.lobby.ChangeMap(rec.MapID)
	o.lobby.SetMods(rec.Mods)
	o.announce.PickLoaded(rec.Token, rec.Mods, o.CurrentTeamName())
	if o.phase == PhaseAwaitingPick || o.phase == PhaseRoundScored {
		o.phase = PhasePickedAwaitingStart
	}
	return nil
}

func (o *MatchOrchestrator) Ban(token string, p domain.Player) error {
	rec, team, err := o.picks.Ban(token, p)
	if err != nil {
		return err
	}
	if team == NoTeam {
		o.announce.BanRecorded(rec.Token, p.Name, true)
	} else {
		o.announce.BanRecorded(rec.Token, o.roster.name(team), false)
	}
	return nil
}

func (o *MatchOrchestrator) Unban(token string, p domain.Player) error {
	if !p.Referee {
		return ErrNotReferee
	}
	if len(token) < 2 {
		return ErrBadArgument
	}
	if o.picks.Unban(token) {
		o.announce.BanRemoved(token)
	}
	return nil
}

// ToggleWarmup prende/apaga el calentamiento. Al apagarlo se preparan las
// reglas del lobby (team-vs, score v2) y se suelta el host.
func (o *MatchOrchestrator) ToggleWarmup(p domain.Player) error {
	if !p.Referee {
		return ErrNotReferee
	}
	if o.phase == PhaseWarmup {
		o.phase = PhaseAwaitingPick
		o.announce.WarmupToggled(false)
		o.lobby.ClearHost()
		o.lobby.SetLobbyRules(2, 3)
		return nil
	}
	o.phase = PhaseWarmup
	o.ledger.AbortRound()
	o.picks.ClearLivePick()
	o.startPending = false
	o.announce.WarmupToggled(true)
	return nil
}

func (o *MatchOrchestrator) InviteAll(p domain.Player) error {
	if !p.Referee {
		return ErrNotReferee
	}
	for _, t := range o.cfg.Teams {
		for _, m := range t.Members {
			o.lobby.Invite(m)
		}
	}
	return nil
}

// Reset fuerza la máquina de vuelta a AwaitingPick. scope: "pick", "score" o
// vacío (ambos).
func (o *MatchOrchestrator) Reset(scope string, p domain.Player) error {
	if !p.Referee {
		return ErrNotReferee
	}
	switch scope {
	case "pick":
		o.picks.ResetPicks()
	case "score":
		o.ledger.ResetMatch()
	default:
		o.picks.ResetPicks()
		o.ledger.ResetMatch()
	}
	o.startPending = false
	if o.phase != PhaseWarmup {
		o.phase = PhaseAwaitingPick
	}
	o.announce.ResetDone(scope)
	return nil
}

// Reload swapea el snapshot de config completo: los equipos se reconstruyen
// y el marcador vuelve a cero, así ningún registro apunta a un equipo viejo.
func (o *MatchOrchestrator) Reload(cfg *domain.MatchConfig, p domain.Player) error {
	if !p.Referee {
		return ErrNotReferee
	}
	o.install(cfg)
	if o.phase != PhaseWarmup {
		o.phase = PhaseAwaitingPick
	}
	o.announce.ConfigReloaded(cfg.Name)
	return nil
}

// SetActiveTeams elige los 2 equipos del roster que juegan; reconstruye los
// ledgers como un reload.
func (o *MatchOrchestrator) SetActiveTeams(a, b string, p domain.Player) error {
	if !p.Referee {
		return ErrNotReferee
	}
	next := *o.cfg
	next.ActiveTeams = []string{a, b}
	if err := next.Normalize(); err != nil {
		return ErrBadArgument
	}
	o.install(&next)
	if o.phase != PhaseWarmup {
		o.phase = PhaseAwaitingPick
	}
	o.announce.ConfigReloaded(next.Name)
	return nil
}

// SetPickTeam fija el turno a dedo y rearma el timer de pick.
func (o *MatchOrchestrator) SetPickTeam(idx int, p domain.Player) error {
	if !p.Referee {
		return ErrNotReferee
	}
	if !o.picks.SetTurn(TeamID(idx)) {
		return ErrBadArgument
	}
	if o.phase != PhaseWarmup && o.phase != PhaseTieBreak {
		o.phase = PhaseAwaitingPick
	}
	o.lobby.StartTimer(o.cfg.Timer)
	o.announce.TurnToPick(o.CurrentTeamName())
	return nil
}

func (o *MatchOrchestrator) SetScore(scores []int, p domain.Player) error {
	if !p.Referee {
		return ErrNotReferee
	}
	o.ledger.SetMatchScores(scores)
	o.announce.ScoreSet(o.ledger.MatchScores())
	return nil
}

func (o *MatchOrchestrator) TriggerScore(p domain.Player) error {
	if !p.Referee {
		return ErrNotReferee
	}
	o.finalizeRound()
	return nil
}

func (o *MatchOrchestrator) TriggerTiebreak(p domain.Player) error {
	if !p.Referee {
		return ErrNotReferee
	}
	o.enterTiebreak()
	return nil
}

// ---------- eventos de ciclo de vida ----------

// OnMatchStarted: arranca la ventana de scoring. startedPlayers cuenta sólo
// jugadores presentes que resuelven a un equipo activo.
func (o *MatchOrchestrator) OnMatchStarted(lobbyPlayers []string) {
	if o.phase == PhaseWarmup {
		return
	}
	o.picks.MarkChosen()
	started := 0
	for _, name := range lobbyPlayers {
		if o.roster.teamOf(name) != NoTeam {
			started++
		}
	}
	freeMod := o.phase == PhaseTieBreak
	if pick := o.picks.LivePick(); pick != nil && pick.FreeMod {
		freeMod = true
	}
	o.ledger.StartRound(started, freeMod)
	if o.phase != PhaseTieBreak {
		o.phase = PhaseRoundInProgress
	}
}

func (o *MatchOrchestrator) OnPlayerFinished(name string, score int64, passed bool, mods Mods) {
	if o.phase == PhaseWarmup {
		return
	}
	if o.ledger.RecordPlayerResult(name, score, passed, mods) {
		o.finalizeRound()
		o.startPending = false
	}
}

// OnAllPlayersReady dispara el start con countdown, una sola vez por ronda.
func (o *MatchOrchestrator) OnAllPlayersReady() {
	if o.picks.LivePick() == nil || o.phase == PhaseWarmup || o.startPending {
		return
	}
	o.announce.AllReady()
	o.lobby.StartMatch(10)
	o.startPending = true
}

// OnTimerFinished: venció el timer de pick sin pick vivo → rota el turno
// (salvo que la config lo deshabilite).
func (o *MatchOrchestrator) OnTimerFinished() {
	if o.phase != PhaseAwaitingPick || o.picks.LivePick() != nil {
		return
	}
	o.announce.PickTimeout(o.CurrentTeamName())
	if o.cfg.RotatesOnTimeout() {
		o.rotateTurn()
	}
}

// OnMatchAborted: cancela la ronda en curso sin consumir el guard de score.
func (o *MatchOrchestrator) OnMatchAborted() {
	o.startPending = false
	o.ledger.AbortRound()
	if o.phase == PhaseRoundInProgress {
		if o.picks.LivePick() != nil {
			o.phase = PhasePickedAwaitingStart
		} else {
			o.phase = PhaseAwaitingPick
		}
	}
}

// OnStartAborted limpia sólo el guard de start pendiente.
func (o *MatchOrchestrator) OnStartAborted() {
	o.startPending = false
}

// ---------- internos ----------

func (o *MatchOrchestrator) finalizeRound() {
	wasTiebreak := o.phase == PhaseTieBreak
	pick := o.picks.LivePick()
	out, err := o.ledger.FinalizeRound(pick)
	if err != nil {
		// señal duplicada: el guard one-shot ya cerró esta ronda
		log.Printf("engine: %v", err)
		return
	}

	summary := RoundSummary{Outcome: out, Players: o.ledger.Results(), TieBreak: wasTiebreak}
	if wasTiebreak {
		summary.Pick = "TB"
	} else if pick != nil {
		summary.Pick = pick.Token
	}
	o.picks.ClearLivePick()
	o.phase = PhaseRoundScored

	if out.Draw {
		// empate exacto: sin regla de desempate, adjudica el referee
		o.announce.RoundDraw(summary)
		return
	}
	o.announce.RoundResult(summary)

	switch {
	case out.Won:
		o.phase = PhaseMatchComplete
		o.announce.MatchWon(o.roster.name(out.Winner))
	case out.TieBreak:
		o.enterTiebreak()
	default:
		o.rotateTurn()
	}
}

func (o *MatchOrchestrator) enterTiebreak() {
	o.phase = PhaseTieBreak
	o.announce.TiebreakStarted()
	o.lobby.ChangeMap(o.cfg.TieBreaker.Map)
	o.lobby.SetMods(FreeModToken)
	o.lobby.AbortTimer()
	o.lobby.StartTimer(o.cfg.TieBreaker.Timer)
}

func (o *MatchOrchestrator) rotateTurn() {
	if o.phase == PhaseTieBreak {
		return
	}
	o.picks.Rotate()
	o.phase = PhaseAwaitingPick
	o.lobby.StartTimer(o.cfg.Timer)
	o.announce.TurnToPick(o.CurrentTeamName())
}
