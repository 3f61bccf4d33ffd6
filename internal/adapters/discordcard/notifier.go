package discordcard

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/osu-tourney-bot/internal/engine"
)

// LinkLookup resuelve nicks de osu! a IDs de Discord para mencionar a la
// gente en los cards. Lo implementa storage.LinkRepo.
type LinkLookup interface {
	FindDiscordByNicks(ctx context.Context, nicks []string) (map[string]string, error)
}

// Notifier publica cards de resultado en un canal de Discord. Es el espejo
// "rico" del chat del lobby: si Discord falla, sólo se loguea.
type Notifier struct {
	session   *discordgo.Session
	channelID string
	links     LinkLookup
}

func New(session *discordgo.Session, channelID string, links LinkLookup) *Notifier {
	return &Notifier{session: session, channelID: channelID, links: links}
}

func (n *Notifier) RoundCard(ctx context.Context, match string, s engine.RoundSummary) error {
	title := "📍 " + s.Pick
	if s.TieBreak {
		title = "⚡ Tiebreak"
	}
	if s.Outcome.Draw {
		title += " — empate"
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: n.scoreLine(s),
		Color:       0xff66aa,
		Footer:      &discordgo.MessageEmbedFooter{Text: match},
		Fields:      n.playerFields(ctx, s.Players),
	}
	_, err := n.session.ChannelMessageSendEmbed(n.channelID, embed)
	if err != nil {
		log.Printf("discord card: %v", err)
	}
	return err
}

func (n *Notifier) MatchWonCard(ctx context.Context, match, winner string, scores []engine.TeamPoints) error {
	parts := make([]string, 0, len(scores))
	for _, t := range scores {
		parts = append(parts, fmt.Sprintf("**%s** %d", t.Name, t.Points))
	}
	embed := &discordgo.MessageEmbed{
		Title:       "🏆 " + winner + " gana el match",
		Description: strings.Join(parts, " : "),
		Color:       0xffd700,
		Footer:      &discordgo.MessageEmbedFooter{Text: match},
	}
	_, err := n.session.ChannelMessageSendEmbed(n.channelID, embed)
	if err != nil {
		log.Printf("discord card: %v", err)
	}
	return err
}

func (n *Notifier) scoreLine(s engine.RoundSummary) string {
	rs := s.Outcome.RoundScores
	if len(rs) < 2 {
		return ""
	}
	line := fmt.Sprintf("**%s** %d — **%s** %d", rs[0].Name, rs[0].Score, rs[1].Name, rs[1].Score)
	if !s.Outcome.Draw {
		line += fmt.Sprintf(" (dif %d)", s.Outcome.Margin)
	}
	ms := make([]string, 0, len(s.Outcome.MatchScores))
	for _, t := range s.Outcome.MatchScores {
		ms = append(ms, fmt.Sprintf("%s %d", t.Name, t.Points))
	}
	return line + "\nMarcador: " + strings.Join(ms, " : ")
}

// playerFields arma una columna por jugador; si el nick está linkeado a
// Discord lo menciona.
func (n *Notifier) playerFields(ctx context.Context, players []engine.PlayerScore) []*discordgo.MessageEmbedField {
	mentions := map[string]string{}
	if n.links != nil {
		nicks := make([]string, 0, len(players))
		for _, p := range players {
			nicks = append(nicks, p.Name)
		}
		if m, err := n.links.FindDiscordByNicks(ctx, nicks); err == nil {
			mentions = m
		}
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(players))
	for _, p := range players {
		name := p.Name
		if did, ok := mentions[strings.ToLower(p.Name)]; ok {
			name = fmt.Sprintf("%s (<@%s>)", p.Name, did)
		}
		value := fmt.Sprintf("%d", p.Effective)
		if p.Multiplier != 1 {
			value = fmt.Sprintf("%d (x%.2f)", p.Effective, p.Multiplier)
		}
		if !p.Passed {
			value = "❌ " + value
		}
		if p.Mods != "" {
			value += " " + p.Mods
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   name,
			Value:  value,
			Inline: true,
		})
	}
	return fields
}
