package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jose-valero/osu-tourney-bot/internal/infra/storage"
)

const rankCooldown = 10 * time.Second

// LookupService resuelve !mirror y !rank contra el web API, con cache de
// beatmaps en Postgres para no quemar cuota en lobbies largos.
type LookupService struct {
	api   OsuAPI
	cache BeatmapCache

	currentMap int
	// lastMirror evita repetir el mismo mirror si lo piden dos veces seguidas
	lastMirror int
	lastRank   map[string]time.Time
}

func NewLookupService(api OsuAPI, cache BeatmapCache) *LookupService {
	return &LookupService{api: api, cache: cache, lastRank: map[string]time.Time{}}
}

// SetCurrentMap lo llama el adapter de bancho cuando el lobby cambia de mapa.
func (s *LookupService) SetCurrentMap(beatmapID int) {
	s.currentMap = beatmapID
	s.lastMirror = 0
}

func (s *LookupService) Mirror(ctx context.Context) (string, error) {
	if s.currentMap == 0 {
		return "ℹ️ todavía no hay mapa en el lobby", nil
	}
	if s.lastMirror == s.currentMap {
		return "", nil
	}

	bm, err := s.lookupBeatmap(ctx, s.currentMap)
	if err != nil {
		return "⚠️ no pude resolver el mapa, probá de nuevo en un rato", nil
	}
	s.lastMirror = s.currentMap
	return fmt.Sprintf("🔗 %s - %s [%s] (%.2f⭐) | beatconnect: https://beatconnect.io/b/%d | catboy: https://catboy.best/d/%d",
		bm.Artist, bm.Title, bm.Version, bm.Stars, bm.SetID, bm.SetID), nil
}

func (s *LookupService) Rank(ctx context.Context, nick string) (string, error) {
	if last, ok := s.lastRank[nick]; ok && time.Since(last) < rankCooldown {
		return "", nil
	}
	s.lastRank[nick] = time.Now()

	u, err := s.api.GetUser(ctx, nick)
	if err != nil {
		return "⚠️ no encontré el perfil de " + nick, nil
	}
	return fmt.Sprintf("🏅 %s: #%d global (#%d %s) — %.0fpp",
		u.Username, u.GlobalRank, u.CountryRank, u.CountryCode, u.PP), nil
}

// lookupBeatmap: cache primero, API después; el miss se guarda para la
// próxima. Un Put fallido no rompe la respuesta.
func (s *LookupService) lookupBeatmap(ctx context.Context, id int) (storage.CachedBeatmap, error) {
	if s.cache != nil {
		if cb, err := s.cache.Get(ctx, id); err == nil {
			return cb, nil
		}
	}
	bm, err := s.api.GetBeatmap(ctx, id)
	if err != nil {
		return storage.CachedBeatmap{}, err
	}
	cb := storage.CachedBeatmap{
		BeatmapID: bm.ID,
		SetID:     bm.SetID,
		Artist:    bm.Artist,
		Title:     bm.Title,
		Version:   bm.Version,
		Creator:   bm.Creator,
		Stars:     bm.Stars,
		FetchedAt: time.Now(),
	}
	if s.cache != nil {
		_ = s.cache.Put(ctx, cb)
	}
	return cb, nil
}
