package bancho

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jose-valero/osu-tourney-bot/internal/app/service"
	"github.com/jose-valero/osu-tourney-bot/internal/domain"
	"github.com/jose-valero/osu-tourney-bot/internal/engine"
)

const banchoBot = "BanchoBot"

// Dispatcher enruta los PRIVMSG del canal del multi: lo que dice BanchoBot
// son eventos de ciclo de vida, lo que dice cualquier otro es un comando (o
// ruido de chat).
type Dispatcher struct {
	match  *service.MatchService
	lookup *service.LookupService
	lobby  *Lobby

	referees map[string]bool
	// presencia y mods por jugador, mantenidos con los mensajes de bancho
	present    map[string]bool
	playerMods map[string]engine.Mods
}

func NewDispatcher(match *service.MatchService, lookup *service.LookupService, lobby *Lobby, referees []string) *Dispatcher {
	d := &Dispatcher{
		match:      match,
		lookup:     lookup,
		lobby:      lobby,
		referees:   map[string]bool{},
		present:    map[string]bool{},
		playerMods: map[string]engine.Mods{},
	}
	for _, r := range referees {
		d.referees[strings.ToLower(r)] = true
	}
	return d
}

func (d *Dispatcher) Handle(channel, from, text string) {
	if channel != d.lobby.Channel() {
		return
	}
	if from == banchoBot {
		if d.match != nil {
			d.handleBancho(text)
		} else if m := reBeatmap.FindStringSubmatch(text); m != nil {
			if id, err := strconv.Atoi(m[1]); err == nil {
				d.lookup.SetCurrentMap(id)
			}
		}
		return
	}

	p := domain.Player{Name: from, Referee: d.referees[strings.ToLower(from)]}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}

	switch strings.ToLower(fields[0]) {
	case "!mirror":
		d.replyLookup(func(ctx context.Context) (string, error) {
			return d.lookup.Mirror(ctx)
		})
		return
	case "!rank":
		nick := from
		if len(fields) > 1 {
			nick = strings.Join(fields[1:], " ")
		}
		d.replyLookup(func(ctx context.Context) (string, error) {
			return d.lookup.Rank(ctx, nick)
		})
		return
	}

	// sin config de match el bot sigue vivo para lookups, pero no arbitra
	if d.match == nil {
		return
	}
	if reply, handled := d.match.Handle(p, text); handled && reply != "" {
		d.lobby.Send(reply)
	}
}

// replyLookup corre el lookup fuera de la goroutine de lectura: el web API
// puede tardar y el socket de IRC no espera a nadie.
func (d *Dispatcher) replyLookup(fn func(ctx context.Context) (string, error)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		reply, err := fn(ctx)
		if err == nil && reply != "" {
			d.lobby.Send(reply)
		}
	}()
}

var (
	reFinished = regexp.MustCompile(`^(.+) finished playing \(Score: (\d+), (PASSED|FAILED)\)`)
	reJoined   = regexp.MustCompile(`^(.+) joined in slot \d+`)
	reLeft     = regexp.MustCompile(`^(.+) left the game`)
	reBeatmap  = regexp.MustCompile(`https://osu\.ppy\.sh/b/(\d+)`)
	reSlot     = regexp.MustCompile(`^Slot \d+\s+\S+(?:\s+\S+)?\s+https://osu\.ppy\.sh/u/\d+\s+(.+?)(?:\s+\[(.+)\])?\s*$`)
)

func (d *Dispatcher) handleBancho(text string) {
	eng := d.match.Engine()
	switch {
	case strings.HasPrefix(text, "The match has started"):
		players := make([]string, 0, len(d.present))
		for name := range d.present {
			players = append(players, name)
		}
		eng.OnMatchStarted(players)

	case strings.HasPrefix(text, "All players are ready"):
		eng.OnAllPlayersReady()

	case strings.HasPrefix(text, "Countdown finished"):
		eng.OnTimerFinished()

	case strings.HasPrefix(text, "Countdown aborted"):
		eng.OnStartAborted()

	case strings.HasPrefix(text, "Match Aborted") || strings.HasPrefix(text, "Aborted the match"):
		eng.OnMatchAborted()

	default:
		d.parseDetail(text)
	}
}

func (d *Dispatcher) parseDetail(text string) {
	eng := d.match.Engine()

	if m := reFinished.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(m[1])
		score, _ := strconv.ParseInt(m[2], 10, 64)
		eng.OnPlayerFinished(name, score, m[3] == "PASSED", d.playerMods[strings.ToLower(name)])
		return
	}
	if m := reJoined.FindStringSubmatch(text); m != nil {
		d.present[strings.TrimSpace(m[1])] = true
		return
	}
	if m := reLeft.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(m[1])
		delete(d.present, name)
		delete(d.playerMods, strings.ToLower(name))
		return
	}
	if m := reSlot.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(m[1])
		d.present[name] = true
		d.playerMods[strings.ToLower(name)] = parseLongMods(m[2])
		return
	}
	if m := reBeatmap.FindStringSubmatch(text); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			d.lookup.SetCurrentMap(id)
		}
	}
}

// nombres largos de los "!mp settings" → bits; lo que no matchea se ignora
var longMods = map[string]string{
	"nofail":      "NF",
	"easy":        "EZ",
	"hidden":      "HD",
	"hardrock":    "HR",
	"suddendeath": "SD",
	"doubletime":  "DT",
	"nightcore":   "NC",
	"halftime":    "HT",
	"flashlight":  "FL",
	"relax":       "RX",
	"autopilot":   "AP",
	"spunout":     "SO",
	"perfect":     "PF",
	"touchdevice": "TD",
}

func parseLongMods(list string) engine.Mods {
	var mods engine.Mods
	for _, part := range strings.Split(list, ",") {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(part), " ", ""))
		if code, ok := longMods[key]; ok {
			mods |= engine.ParseMods(code)
		}
	}
	return mods
}
