package bancho

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"time"
)

const defaultAddr = "irc.ppy.sh:6667"

// Client es la conexión IRC con bancho. Mantiene una sola goroutine de
// lectura; todos los eventos del lobby salen de ahí en orden.
type Client struct {
	nick     string
	password string
	addr     string

	conn   net.Conn
	writer *pacedWriter

	onMessage func(channel, from, text string)
}

type ClientOption func(*Client)

func WithAddr(addr string) ClientOption {
	return func(c *Client) { c.addr = addr }
}

func NewClient(nick, password string, opts ...ClientOption) *Client {
	c := &Client{nick: nick, password: password, addr: defaultAddr}
	for _, o := range opts {
		o(c)
	}
	c.writer = newPacedWriter(650*time.Millisecond, c.writeRaw)
	return c
}

// OnMessage registra el handler de PRIVMSG. Se llama desde la goroutine de
// lectura: el handler no debe bloquear.
func (c *Client) OnMessage(fn func(channel, from, text string)) {
	c.onMessage = fn
}

func (c *Client) Connect(ctx context.Context) error {
	d := net.Dialer{Timeout: 10 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("bancho dial: %w", err)
	}
	c.conn = conn

	if err := c.writeRaw("PASS " + c.password); err != nil {
		return err
	}
	if err := c.writeRaw("NICK " + c.nick); err != nil {
		return err
	}
	return nil
}

// Run lee líneas hasta que la conexión muera o el contexto se cancele.
func (c *Client) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = c.conn.Close()
	}()

	sc := bufio.NewScanner(c.conn)
	sc.Buffer(make([]byte, 0, 4096), 64*1024)
	for sc.Scan() {
		c.handleLine(strings.TrimRight(sc.Text(), "\r\n"))
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("bancho read: %w", sc.Err())
}

func (c *Client) handleLine(line string) {
	if strings.HasPrefix(line, "PING") {
		_ = c.writeRaw("PONG" + strings.TrimPrefix(line, "PING"))
		return
	}

	// :nick!user@host PRIVMSG #canal :texto
	prefix, rest, ok := strings.Cut(line, " PRIVMSG ")
	if !ok {
		return
	}
	from := strings.TrimPrefix(prefix, ":")
	if i := strings.IndexByte(from, '!'); i >= 0 {
		from = from[:i]
	}
	channel, text, ok := strings.Cut(rest, " :")
	if !ok {
		return
	}
	if c.onMessage != nil {
		c.onMessage(strings.TrimSpace(channel), from, text)
	}
}

// Privmsg manda un mensaje a un canal o usuario, respetando el pacing.
func (c *Client) Privmsg(target, text string) {
	if err := c.writer.Write("PRIVMSG " + target + " :" + text); err != nil {
		log.Printf("bancho send: %v", err)
	}
}

func (c *Client) writeRaw(line string) error {
	_, err := fmt.Fprintf(c.conn, "%s\r\n", line)
	return err
}
