// Package redis is the hot half of the persistence contract: an
// in-progress game's current record, per-country submissions, and
// phase-deadline timers, all cheap to read and write every turn. The
// durable archive (internal/storage/postgres) is authoritative for
// finished games and survives a cache flush.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jkolbly/diplomacy-rest/internal/engine"
	"github.com/jkolbly/diplomacy-rest/internal/storage"
)

// Client wraps a go-redis connection for game-state caching.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a Client from a connection URL.
func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

// NewClientFromPool wraps an existing redis.Client, for tests.
func NewClientFromPool(rdb *redis.Client) *Client { return &Client{rdb: rdb} }

// Close closes the underlying connection.
func (c *Client) Close() error { return c.rdb.Close() }

var _ storage.Store = (*Client)(nil)

func recordKey(id int64) string        { return fmt.Sprintf("game:%d:record", id) }
func ordersKey(id int64, country string) string { return fmt.Sprintf("game:%d:orders:%s", id, country) }
func readyKey(id int64) string          { return fmt.Sprintf("game:%d:ready", id) }
func timerKey(id int64) string          { return fmt.Sprintf("game:%d:timer", id) }
func drawVoteKey(id int64) string       { return fmt.Sprintf("game:%d:draw_votes", id) }
func activeSetKey() string              { return "games:active" }

// Save stores the game's current record and tracks it as active (or
// moves it out of the active set once it has ended).
func (c *Client) Save(ctx context.Context, rec engine.GameRecord) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal game record: %w", err)
	}
	if err := c.rdb.Set(ctx, recordKey(rec.ID), blob, 0).Err(); err != nil {
		return err
	}
	if rec.Outcome == engine.Playing {
		return c.rdb.SAdd(ctx, activeSetKey(), rec.ID).Err()
	}
	return c.rdb.SRem(ctx, activeSetKey(), rec.ID).Err()
}

// Load retrieves a game's current record.
func (c *Client) Load(ctx context.Context, id int64) (*engine.GameRecord, error) {
	data, err := c.rdb.Get(ctx, recordKey(id)).Bytes()
	if err == redis.Nil {
		return nil, &engine.NotFoundError{Kind: "game", ID: fmt.Sprint(id)}
	}
	if err != nil {
		return nil, fmt.Errorf("get game record: %w", err)
	}
	var rec engine.GameRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal game record: %w", err)
	}
	return &rec, nil
}

// ListActive returns every game id currently tracked as in progress.
func (c *Client) ListActive(ctx context.Context) ([]int64, error) {
	members, err := c.rdb.SMembers(ctx, activeSetKey()).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		var id int64
		if _, err := fmt.Sscanf(m, "%d", &id); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// MarkDeleted drops a game from the active set and removes its cached
// record, ready set, timer and draw votes.
func (c *Client) MarkDeleted(ctx context.Context, id int64) error {
	if err := c.rdb.SRem(ctx, activeSetKey(), id).Err(); err != nil {
		return err
	}
	return c.rdb.Del(ctx, recordKey(id), readyKey(id), timerKey(id), drawVoteKey(id)).Err()
}

// SetOrders caches one country's submitted orders for the current phase.
func (c *Client) SetOrders(ctx context.Context, id int64, country string, orders []engine.Order) error {
	blob, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, ordersKey(id, country), blob, 0).Err()
}

// GetOrders retrieves a country's cached orders, or nil if not yet submitted.
func (c *Client) GetOrders(ctx context.Context, id int64, country string) ([]engine.Order, error) {
	data, err := c.rdb.Get(ctx, ordersKey(id, country)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var orders []engine.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// MarkReady adds a country to the ready set for the current phase.
func (c *Client) MarkReady(ctx context.Context, id int64, country string) error {
	return c.rdb.SAdd(ctx, readyKey(id), country).Err()
}

// ReadyCountries returns the countries that have marked ready this phase.
func (c *Client) ReadyCountries(ctx context.Context, id int64) ([]string, error) {
	return c.rdb.SMembers(ctx, readyKey(id)).Result()
}

// phaseGracePeriod is the extra time after a phase deadline before
// resolution triggers, giving players a few seconds of leeway.
const phaseGracePeriod = 5 * time.Second

// SetTimer arms a phase-deadline key whose expiry (observed via Redis
// keyspace notifications by the caller) signals that the phase should
// resolve even if not every country has marked ready.
func (c *Client) SetTimer(ctx context.Context, id int64, deadline time.Time) error {
	ttl := time.Until(deadline) + phaseGracePeriod
	if ttl <= 0 {
		ttl = time.Second
	}
	return c.rdb.Set(ctx, timerKey(id), deadline.Unix(), ttl).Err()
}

// ClearTimer removes a game's phase-deadline key.
func (c *Client) ClearTimer(ctx context.Context, id int64) error {
	return c.rdb.Del(ctx, timerKey(id)).Err()
}

// AddDrawVote records a country's vote to end the game in a draw.
func (c *Client) AddDrawVote(ctx context.Context, id int64, country string) error {
	return c.rdb.SAdd(ctx, drawVoteKey(id), country).Err()
}

// RemoveDrawVote withdraws a country's draw vote.
func (c *Client) RemoveDrawVote(ctx context.Context, id int64, country string) error {
	return c.rdb.SRem(ctx, drawVoteKey(id), country).Err()
}

// DrawVoteCountries returns the countries currently voting to draw.
func (c *Client) DrawVoteCountries(ctx context.Context, id int64) ([]string, error) {
	return c.rdb.SMembers(ctx, drawVoteKey(id)).Result()
}

// ClearPhaseData removes orders, ready status, and timer for a game,
// called after a phase resolves and before the next one opens.
func (c *Client) ClearPhaseData(ctx context.Context, id int64, countries []string) error {
	keys := []string{readyKey(id), timerKey(id), drawVoteKey(id)}
	for _, country := range countries {
		keys = append(keys, ordersKey(id, country))
	}
	return c.rdb.Del(ctx, keys...).Err()
}
