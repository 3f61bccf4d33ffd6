package storage

import (
	"context"
	"database/sql"
	"time"
)

type BeatmapCacheRepo struct{ db *sql.DB }

func NewBeatmapCacheRepo(db *sql.DB) *BeatmapCacheRepo { return &BeatmapCacheRepo{db: db} }

func (r *BeatmapCacheRepo) Get(ctx context.Context, beatmapID int) (CachedBeatmap, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT beatmap_id, set_id, artist, title, version, creator, stars, fetched_at
FROM beatmap_cache
WHERE beatmap_id = $1
`, beatmapID)
	var cb CachedBeatmap
	err := row.Scan(&cb.BeatmapID, &cb.SetID, &cb.Artist, &cb.Title, &cb.Version, &cb.Creator, &cb.Stars, &cb.FetchedAt)
	if err == sql.ErrNoRows {
		return CachedBeatmap{}, ErrNotFound
	}
	return cb, err
}

func (r *BeatmapCacheRepo) Put(ctx context.Context, cb CachedBeatmap) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO beatmap_cache
  (beatmap_id, set_id, artist, title, version, creator, stars, fetched_at)
VALUES
  ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (beatmap_id) DO UPDATE SET
  set_id     = EXCLUDED.set_id,
  artist     = EXCLUDED.artist,
  title      = EXCLUDED.title,
  version    = EXCLUDED.version,
  creator    = EXCLUDED.creator,
  stars      = EXCLUDED.stars,
  fetched_at = EXCLUDED.fetched_at
`, cb.BeatmapID, cb.SetID, cb.Artist, cb.Title, cb.Version, cb.Creator, cb.Stars, cb.FetchedAt)
	return err
}

// PruneOlderThan borra entradas viejas del cache; lo corre el janitor.
func (r *BeatmapCacheRepo) PruneOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM beatmap_cache
 WHERE fetched_at < NOW() - make_interval(secs => $1)
`, age.Seconds())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
