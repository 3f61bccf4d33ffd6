package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"github.com/jose-valero/osu-tourney-bot/internal/adapters/bancho"
	"github.com/jose-valero/osu-tourney-bot/internal/adapters/discordcard"
	"github.com/jose-valero/osu-tourney-bot/internal/adapters/httpapi"
	"github.com/jose-valero/osu-tourney-bot/internal/adapters/osuapi"
	"github.com/jose-valero/osu-tourney-bot/internal/app/service"
	"github.com/jose-valero/osu-tourney-bot/internal/infra/config"
	"github.com/jose-valero/osu-tourney-bot/internal/infra/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal("migrate:", err)
	}
	log.Println("✅ DB lista y migrada")

	// Repos
	linksRepo := storage.NewLinkRepo(db)
	cacheRepo := storage.NewBeatmapCacheRepo(db)

	// Config del match: si falta el archivo el bot arranca igual, sólo
	// sin arbitraje (!mirror y !rank siguen andando)
	loader := config.MatchLoader{Path: cfg.MatchConfigPath}
	matchCfg, err := loader.LoadMatch()
	if err != nil {
		log.Printf("⚠️ sin config de match (%v): arbitraje deshabilitado", err)
	} else {
		log.Printf("✅ match cargado: %s (BO%d)", matchCfg.Name, matchCfg.BestOf)
	}

	// osu! web API
	api := osuapi.New(cfg.OsuClientID, cfg.OsuClientSecret)

	// Bancho IRC
	client := bancho.NewClient(cfg.BanchoNick, cfg.BanchoPassword)
	lobby := bancho.NewLobby(client, cfg.LobbyChannel)

	// Discord (opcional: sin token no hay cards, el arbitraje sigue igual)
	var notifier service.Notifier
	if cfg.DiscordToken != "" && cfg.DiscordChannelID != "" {
		auth := cfg.DiscordToken
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
			auth = "Bot " + strings.TrimSpace(auth)
		}
		s, err := discordgo.New(auth)
		if err != nil {
			log.Fatal(err)
		}
		if err := s.Open(); err != nil {
			log.Fatal(err)
		}
		defer s.Close()
		log.Printf("✅ Discord conectado como %s", s.State.User.Username)
		notifier = discordcard.New(s, cfg.DiscordChannelID, linksRepo)
	}

	// Services
	var matchSvc *service.MatchService
	if matchCfg != nil {
		matchSvc = service.NewMatchService(matchCfg, lobby, lobby, notifier, loader)
	}
	lookupSvc := service.NewLookupService(api, cacheRepo)

	// Panel HTTP del torneo
	web := httpapi.New(cfg.APISecret, linksRepo, lobby.Send)
	go web.Start(cfg.HTTPAddr)

	// Router de chat
	dispatcher := bancho.NewDispatcher(matchSvc, lookupSvc, lobby, cfg.Referees)
	client.OnMessage(func(channel, from, text string) {
		if channel == lobby.Channel() {
			web.Append(from + ": " + text)
		}
		dispatcher.Handle(channel, from, text)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		log.Fatal(err)
	}
	log.Printf("✅ conectado a bancho como %s, arbitrando %s", cfg.BanchoNick, cfg.LobbyChannel)

	if matchCfg != nil {
		lobby.SetName(matchCfg.Name + ": (" + matchCfg.ActiveTeams[0] + ") vs (" + matchCfg.ActiveTeams[1] + ")")
	}

	errc := make(chan error, 1)
	go func() { errc <- client.Run(ctx) }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	select {
	case <-stop:
	case err := <-errc:
		log.Fatalf("bancho: %v", err)
	}
}
