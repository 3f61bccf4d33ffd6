package bancho

import (
	"fmt"

	"github.com/jose-valero/osu-tourney-bot/internal/engine"
)

// Lobby traduce las órdenes del engine a comandos !mp sobre el canal del
// multi. Implementa engine.LobbyControl y el ChatSender de los services.
type Lobby struct {
	client  *Client
	channel string
}

func NewLobby(client *Client, channel string) *Lobby {
	return &Lobby{client: client, channel: channel}
}

func (l *Lobby) Channel() string { return l.channel }

func (l *Lobby) Send(line string) {
	l.client.Privmsg(l.channel, line)
}

func (l *Lobby) SetName(name string) {
	l.Send("!mp name " + name)
}

func (l *Lobby) ChangeMap(id int) {
	l.Send(fmt.Sprintf("!mp map %d 0", id))
}

func (l *Lobby) SetMods(mods string) {
	if mods == engine.FreeModToken {
		l.Send("!mp mods Freemod")
		return
	}
	l.Send("!mp mods " + mods)
}

func (l *Lobby) StartTimer(seconds int) {
	l.Send(fmt.Sprintf("!mp timer %d", seconds))
}

func (l *Lobby) AbortTimer() {
	l.Send("!mp aborttimer")
}

func (l *Lobby) StartMatch(countdown int) {
	l.Send(fmt.Sprintf("!mp start %d", countdown))
}

func (l *Lobby) ClearHost() {
	l.Send("!mp clearhost")
}

func (l *Lobby) SetLobbyRules(teamMode, scoreMode int) {
	l.Send(fmt.Sprintf("!mp set %d %d", teamMode, scoreMode))
}

func (l *Lobby) Invite(player string) {
	l.Send("!mp invite " + player)
}
