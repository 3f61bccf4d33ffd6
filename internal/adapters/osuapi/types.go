package osuapi

type tokenDTO struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// --- Beatmaps ---
type beatmapDTO struct {
	ID          int     `json:"id"`
	SetID       int     `json:"beatmapset_id"`
	Version     string  `json:"version"`
	Stars       float64 `json:"difficulty_rating"`
	BPM         float64 `json:"bpm"`
	TotalLength int     `json:"total_length"`
	Status      string  `json:"status"`
	Beatmapset  struct {
		Artist  string `json:"artist"`
		Title   string `json:"title"`
		Creator string `json:"creator"`
	} `json:"beatmapset"`
}

// --- Users ---
type userDTO struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	Country    struct {
		Code string `json:"code"`
	} `json:"country"`
	Statistics struct {
		GlobalRank  int     `json:"global_rank"`
		CountryRank int     `json:"country_rank"`
		PP          float64 `json:"pp"`
		PlayCount   int     `json:"play_count"`
	} `json:"statistics"`
}
