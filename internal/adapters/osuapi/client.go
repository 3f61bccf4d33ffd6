package osuapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jose-valero/osu-tourney-bot/internal/domain"
)

func (c *Client) GetBeatmap(ctx context.Context, beatmapID int) (*domain.Beatmap, error) {
	var dto beatmapDTO
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/beatmaps/%d", beatmapID), nil, &dto); err != nil {
		return nil, err
	}
	return &domain.Beatmap{
		ID:          dto.ID,
		SetID:       dto.SetID,
		Title:       dto.Beatmapset.Title,
		Artist:      dto.Beatmapset.Artist,
		Version:     dto.Version,
		Creator:     dto.Beatmapset.Creator,
		Stars:       dto.Stars,
		BPM:         dto.BPM,
		TotalLength: dto.TotalLength,
		Status:      dto.Status,
	}, nil
}

// GetUser busca por nick en el modo standard.
func (c *Client) GetUser(ctx context.Context, nick string) (*domain.OsuUser, error) {
	q := url.Values{}
	q.Set("key", "username")

	var dto userDTO
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/users/%s/osu", url.PathEscape(nick)), q, &dto); err != nil {
		return nil, err
	}
	return &domain.OsuUser{
		ID:          dto.ID,
		Username:    dto.Username,
		CountryCode: dto.Country.Code,
		GlobalRank:  dto.Statistics.GlobalRank,
		CountryRank: dto.Statistics.CountryRank,
		PP:          dto.Statistics.PP,
		PlayCount:   dto.Statistics.PlayCount,
	}, nil
}
