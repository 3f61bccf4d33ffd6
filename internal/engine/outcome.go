package engine

// TeamID es un índice denso asignado al cargar la config. Los ledgers se
// indexan por TeamID y nunca por identidad de objeto (los equipos se
// reemplazan enteros en reload).
type TeamID int

const NoTeam TeamID = -1

type TeamScore struct {
	Team  TeamID
	Name  string
	Score int64
}

type TeamPoints struct {
	Team   TeamID
	Name   string
	Points int
}

// RoundOutcome es el hecho estructurado que emite FinalizeRound. El
// transporte decide cómo anunciarlo; acá no hay markup.
type RoundOutcome struct {
	Winner TeamID
	Draw   bool
	// Margin: diferencia de puntaje entre el primero y el segundo.
	Margin int64
	// RoundScores ordenado descendente por puntaje de ronda.
	RoundScores []TeamScore
	// MatchScores en orden de presentación (activeTeams).
	MatchScores []TeamPoints
	// Won: el ganador llegó a pointsToWin.
	Won bool
	// TieBreak: ambos quedaron exactamente en pointsToWin-1.
	TieBreak bool
}

// PlayerScore es el desglose individual que alimenta la card de resultado.
type PlayerScore struct {
	Name       string
	Team       TeamID
	Raw        int64
	Effective  int64
	Multiplier float64
	Passed     bool
	Mods       string
}

// RoundSummary agrupa todo lo que necesita el canal de notificaciones.
type RoundSummary struct {
	Outcome RoundOutcome
	Players []PlayerScore
	// Pick: token de display de la ronda ("HD2"), o "TB" en tiebreak.
	Pick     string
	TieBreak bool
}

// PickRecord es el pick vivo; a lo sumo uno, se limpia al cerrar la ronda.
type PickRecord struct {
	MapID int
	// Token de display tal como se anuncia (grupo + índice, ej. "NM3").
	Token string
	// Mods efectivos ya resueltos, o FreeModToken.
	Mods    string
	FreeMod bool
	// Multiplicador de puntos de match definido por pool (1 = mapa normal).
	Multiplier int
}
