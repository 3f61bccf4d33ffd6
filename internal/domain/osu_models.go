package domain

// Beatmap es el DTO mínimo que usamos del web API: lo justo para armar
// mirrors y el card de la ronda.
type Beatmap struct {
	ID          int     `json:"id"`
	SetID       int     `json:"beatmapset_id"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Version     string  `json:"version"`
	Creator     string  `json:"creator"`
	Stars       float64 `json:"difficulty_rating"`
	BPM         float64 `json:"bpm"`
	TotalLength int     `json:"total_length"`
	Status      string  `json:"status"`
}

// OsuUser: perfil resumido para !rank.
type OsuUser struct {
	ID          int     `json:"id"`
	Username    string  `json:"username"`
	CountryCode string  `json:"country_code"`
	GlobalRank  int     `json:"global_rank"`
	CountryRank int     `json:"country_rank"`
	PP          float64 `json:"pp"`
	PlayCount   int     `json:"play_count"`
}
