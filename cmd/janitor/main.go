package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/jose-valero/osu-tourney-bot/internal/infra/storage"
)

const (
	beatmapCacheTTL = 30 * 24 * time.Hour
	deadLinkTTL     = 90 * 24 * time.Hour
)

// Limpieza periódica del cache de beatmaps y de links borrados; corre como
// lambda agendada.
func handler(ctx context.Context) (string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "no DATABASE_URL", nil
	}

	db, err := storage.Open(ctx, dsn)
	if err != nil {
		return fmt.Sprintf("open: %v", err), nil
	}
	defer db.Close()

	cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	maps, err := storage.NewBeatmapCacheRepo(db).PruneOlderThan(cctx, beatmapCacheTTL)
	if err != nil {
		log.Printf("prune beatmap_cache: %v", err)
	}
	links, err := storage.NewLinkRepo(db).PruneDeletedOlderThan(cctx, deadLinkTTL)
	if err != nil {
		log.Printf("prune player_links: %v", err)
	}
	return fmt.Sprintf("pruned %d beatmaps, %d links", maps, links), nil
}

func main() { lambda.Start(handler) }
