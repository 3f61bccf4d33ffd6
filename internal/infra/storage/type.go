package storage

import "time"

type PlayerLink struct {
	OsuUserID     int
	OsuNick       string
	DiscordUserID string
	LinkedAt      time.Time
}

// CachedBeatmap es el snapshot local del web API; lo justo para mirrors y
// cards sin volver a pegarle al API.
type CachedBeatmap struct {
	BeatmapID int
	SetID     int
	Artist    string
	Title     string
	Version   string
	Creator   string
	Stars     float64
	FetchedAt time.Time
}
