package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	pq "github.com/lib/pq"
)

type LinkRepo struct{ db *sql.DB }

func NewLinkRepo(db *sql.DB) *LinkRepo { return &LinkRepo{db: db} }

var ErrNotFound = errors.New("not found")

// Upsert por osu_user_id; el nick se refresca porque la gente se renombra.
func (r *LinkRepo) UpsertLink(ctx context.Context, pl PlayerLink) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO player_links
  (osu_user_id, osu_nick, discord_user_id, deleted_at)
VALUES
  ($1,$2,$3,NULL)
ON CONFLICT (osu_user_id) DO UPDATE SET
  osu_nick        = EXCLUDED.osu_nick,
  discord_user_id = EXCLUDED.discord_user_id,
  deleted_at      = NULL
`, pl.OsuUserID, pl.OsuNick, pl.DiscordUserID)
	return err
}

func (r *LinkRepo) GetByOsuNick(ctx context.Context, nick string) (PlayerLink, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT osu_user_id, osu_nick, discord_user_id, linked_at
FROM player_links
WHERE LOWER(osu_nick) = LOWER($1) AND deleted_at IS NULL
`, nick)
	var pl PlayerLink
	err := row.Scan(&pl.OsuUserID, &pl.OsuNick, &pl.DiscordUserID, &pl.LinkedAt)
	if err == sql.ErrNoRows {
		return PlayerLink{}, ErrNotFound
	}
	return pl, err
}

func (r *LinkRepo) SoftDeleteByOsuNick(ctx context.Context, nick string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE player_links
   SET deleted_at = NOW()
 WHERE LOWER(osu_nick) = LOWER($1)
   AND deleted_at IS NULL
`, nick)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// PruneDeletedOlderThan purga links soft-deleted viejos; lo corre el janitor.
func (r *LinkRepo) PruneDeletedOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM player_links
 WHERE deleted_at IS NOT NULL
   AND deleted_at < NOW() - make_interval(secs => $1)
`, age.Seconds())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FindDiscordByNicks: devuelve mapa osu_nick (lower) -> discord_user_id,
// para mencionar a todo un lobby en un solo query.
func (r *LinkRepo) FindDiscordByNicks(ctx context.Context, nicks []string) (map[string]string, error) {
	out := map[string]string{}
	if len(nicks) == 0 {
		return out, nil
	}
	lowered := make([]string, len(nicks))
	for i, n := range nicks {
		lowered[i] = strings.ToLower(n)
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT LOWER(osu_nick), discord_user_id
  FROM player_links
 WHERE LOWER(osu_nick) = ANY($1) AND deleted_at IS NULL
`, pq.Array(lowered))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var nick, did string
		if err := rows.Scan(&nick, &did); err != nil {
			return nil, err
		}
		out[nick] = did
	}
	return out, rows.Err()
}
