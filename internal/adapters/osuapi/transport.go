package osuapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultBase  = "https://osu.ppy.sh/api/v2"
	defaultToken = "https://osu.ppy.sh/oauth/token"
)

type Client struct {
	clientID     int
	clientSecret string
	http         *http.Client
	baseURL      string
	tokenURL     string

	mu      sync.Mutex
	token   string
	expires time.Time
}

func New(clientID int, clientSecret string, opts ...Option) *Client {
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: 10 * time.Second},
		baseURL:      defaultBase,
		tokenURL:     defaultToken,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// bearer devuelve un token client-credentials vigente, renovándolo con un
// margen de 30s para no pegarle al API con uno por vencer.
func (c *Client) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Until(c.expires) > 30*time.Second {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("client_id", strconv.Itoa(c.clientID))
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "public")

	req, _ := http.NewRequestWithContext(ctx, "POST", c.tokenURL, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("osu oauth: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var tok tokenDTO
	if err := json.NewDecoder(res.Body).Decode(&tok); err != nil {
		return "", err
	}
	c.token = tok.AccessToken
	c.expires = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.token, nil
}

// doJSON: construye URL, agrega Authorization, maneja 404 y 429 con
// Retry-After simple.
func (c *Client) doJSON(ctx context.Context, method, path string, q url.Values, out any) error {
	tok, err := c.bearer(ctx)
	if err != nil {
		return err
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, _ := http.NewRequestWithContext(ctx, method, u, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("osu http: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		if ra := res.Header.Get("Retry-After"); ra != "" {
			if sec, _ := strconv.Atoi(ra); sec > 0 {
				select {
				case <-time.After(time.Duration(sec) * time.Second):
				case <-ctx.Done():
					return ctx.Err()
				}
				// un reintento
				return c.doJSON(ctx, method, path, q, out)
			}
		}
	}

	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	return json.NewDecoder(res.Body).Decode(out)
}
