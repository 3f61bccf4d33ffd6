package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jose-valero/osu-tourney-bot/internal/domain"
)

// MatchLoader carga el archivo JSON del torneo. Se relee entero en cada
// !reload; el engine swapea el snapshot atómico.
type MatchLoader struct {
	Path string
}

func (l MatchLoader) LoadMatch() (*domain.MatchConfig, error) {
	raw, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("match config: %w", err)
	}
	var cfg domain.MatchConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("match config: %w", err)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
