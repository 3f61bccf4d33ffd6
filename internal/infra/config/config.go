package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL     string
	BanchoNick      string
	BanchoPassword  string
	LobbyChannel    string // #mp_12345
	Referees        []string
	MatchConfigPath string

	OsuClientID     int
	OsuClientSecret string

	DiscordToken     string // opcional: sin token no hay cards
	DiscordChannelID string

	APISecret string
	HTTPAddr  string // opcional, default :8080
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatalf("faltante env %s", k)
		}
		return v
	}

	clientID, _ := strconv.Atoi(get("OSU_CLIENT_ID", true))

	cfg := Config{
		DatabaseURL:      get("DATABASE_URL", true),
		BanchoNick:       get("BANCHO_NICK", true),
		BanchoPassword:   get("BANCHO_PASSWORD", true),
		LobbyChannel:     get("LOBBY_CHANNEL", true),
		MatchConfigPath:  get("MATCH_CONFIG_PATH", false),
		OsuClientID:      clientID,
		OsuClientSecret:  get("OSU_CLIENT_SECRET", true),
		DiscordToken:     get("DISCORD_BOT_TOKEN", false),
		DiscordChannelID: get("DISCORD_CHANNEL_ID", false),
		APISecret:        get("API_SECRET", false),
		HTTPAddr:         get("HTTP_ADDR", false), // puede quedar vacío
	}
	if refs := get("REFEREES", false); refs != "" {
		for _, r := range strings.Split(refs, ",") {
			if r = strings.TrimSpace(r); r != "" {
				cfg.Referees = append(cfg.Referees, r)
			}
		}
	}
	if cfg.MatchConfigPath == "" {
		cfg.MatchConfigPath = "match.json"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	return cfg
}
