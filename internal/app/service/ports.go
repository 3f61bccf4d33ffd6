package service

import (
	"context"

	"github.com/jose-valero/osu-tourney-bot/internal/domain"
	"github.com/jose-valero/osu-tourney-bot/internal/engine"
	"github.com/jose-valero/osu-tourney-bot/internal/infra/storage"
)

// Lo implementa internal/adapters/osuapi.Client
type OsuAPI interface {
	GetBeatmap(ctx context.Context, beatmapID int) (*domain.Beatmap, error)
	GetUser(ctx context.Context, nick string) (*domain.OsuUser, error)
}

// Lo implementa internal/adapters/bancho.Lobby (el canal #multiplayer)
type ChatSender interface {
	Send(line string)
}

// Lo implementa internal/adapters/discordcard.Notifier. Las llamadas salen
// en goroutines propias: un Discord caído jamás frena el arbitraje.
type Notifier interface {
	RoundCard(ctx context.Context, match string, s engine.RoundSummary) error
	MatchWonCard(ctx context.Context, match, winner string, scores []engine.TeamPoints) error
}

// Lo implementa internal/infra/storage.BeatmapCacheRepo
type BeatmapCache interface {
	Get(ctx context.Context, beatmapID int) (storage.CachedBeatmap, error)
	Put(ctx context.Context, cb storage.CachedBeatmap) error
}

// Lo implementa internal/infra/config (archivo JSON del torneo)
type MatchConfigLoader interface {
	LoadMatch() (*domain.MatchConfig, error)
}
