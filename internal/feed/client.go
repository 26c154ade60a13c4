package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/players"
)

// Name identifies this feed in logs and metrics.
const Name = "nhle"

// Config controls how the client reaches the NHL web API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client fetches the NHL web API and maps payloads to domain types.
type Client struct {
	baseURL    string
	httpClient httpDoer
	rosters    singleflight.Group
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}
}

// FetchScoreboard returns the focus date and its games.
func (c *Client) FetchScoreboard(ctx context.Context) (games.Scoreboard, error) {
	var payload scoreboardResponse
	if err := c.FetchJSON(ctx, c.baseURL+"/scoreboard/now", &payload); err != nil {
		return games.Scoreboard{}, err
	}
	if payload.FocusedDate == "" {
		return games.Scoreboard{}, fmt.Errorf("feed: scoreboard missing focusedDate")
	}
	return mapScoreboard(payload), nil
}

// FetchGame returns a full snapshot from the play-by-play endpoint.
func (c *Client) FetchGame(ctx context.Context, gameID string) (games.Game, error) {
	payload, err := c.playByPlay(ctx, gameID)
	if err != nil {
		return games.Game{}, err
	}
	return mapGame(payload)
}

// FetchRecapLink returns the three-minute recap link, or "" until it is published.
func (c *Client) FetchRecapLink(ctx context.Context, gameID string) (string, error) {
	var payload boxscoreResponse
	if err := c.FetchJSON(ctx, c.gameURL(gameID, "boxscore"), &payload); err != nil {
		return "", err
	}
	if payload.GameVideo.ThreeMinRecap <= 0 {
		return "", nil
	}
	return MediaLink(payload.GameVideo.ThreeMinRecap), nil
}

// FetchRoster returns the players dressed for a game. Concurrent calls for
// the same game share one upstream request.
func (c *Client) FetchRoster(ctx context.Context, gameID string) ([]players.Player, error) {
	v, err, _ := c.rosters.Do(gameID, func() (any, error) {
		payload, err := c.playByPlay(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return mapRoster(payload), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]players.Player), nil
}

func (c *Client) playByPlay(ctx context.Context, gameID string) (playByPlayResponse, error) {
	var payload playByPlayResponse
	if err := c.FetchJSON(ctx, c.gameURL(gameID, "play-by-play"), &payload); err != nil {
		return playByPlayResponse{}, err
	}
	return payload, nil
}

func (c *Client) gameURL(gameID, resource string) string {
	return fmt.Sprintf("%s/gamecenter/%s/%s", c.baseURL, gameID, resource)
}

// FetchJSON GETs url and decodes the JSON body into out.
func (c *Client) FetchJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("feed: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{
			Feed:       Name,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{URL: url, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("feed: decode %s: %w", url, err)
	}
	return nil
}

func parseRetryAfter(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
