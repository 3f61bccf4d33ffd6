package engine

import "errors"

// LobbyControl son las instrucciones que el engine emite hacia el lobby del
// juego. El adapter las traduce al protocolo real (!mp ...); acá sólo hechos.
type LobbyControl interface {
	ChangeMap(id int)
	SetMods(mods string)
	StartTimer(seconds int)
	AbortTimer()
	StartMatch(countdown int)
	ClearHost()
	SetLobbyRules(teamMode, scoreMode int)
	Invite(player string)
}

// Announcer recibe los hechos anunciables. Las llamadas son fire-and-forget:
// el engine nunca espera al transporte.
type Announcer interface {
	TurnToPick(team string)
	PickTimeout(team string)
	AllReady()
	RoundResult(s RoundSummary)
	RoundDraw(s RoundSummary)
	MatchWon(team string)
	TiebreakStarted()
	PickLoaded(token, mods, team string)
	BanRecorded(token, by string, referee bool)
	BanRemoved(token string)
	WarmupToggled(on bool)
	ResetDone(scope string)
	ConfigReloaded(name string)
	ScoreSet(scores []TeamPoints)
}

// Taxonomía de fallas locales: entrada inválida y violaciones de política se
// reportan al chat sin cambiar estado; nada de esto tumba el proceso.
var (
	ErrNotReferee       = errors.New("referee only")
	ErrNotLeader        = errors.New("only a team leader can do that")
	ErrNotYourTurn      = errors.New("not your team's turn to pick")
	ErrTiebreakPick     = errors.New("only a referee picks during the tiebreak")
	ErrUnknownMap       = errors.New("map does not exist")
	ErrMapBanned        = errors.New("map is banned")
	ErrMapAlreadyPicked = errors.New("map was already picked")
	ErrBanQuota         = errors.New("team ban limit reached")
	ErrAlreadyBanned    = errors.New("map is already banned")
	ErrBadArgument      = errors.New("malformed argument")
	// ErrScoreFinalized la captura el guard one-shot; se loguea como warning
	// y no genera mensaje al usuario.
	ErrScoreFinalized = errors.New("round score already finalized")
)
