// Package redis holds the session-scoped state that does not belong in
// the catalog database: live clickstream fan-out, recently viewed
// products, and carts. Everything here is disposable demo state.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wayfinder-supply/wayfinder/internal/domain"
)

// ClickstreamChannel carries every accepted clickstream event for live
// subscribers.
const ClickstreamChannel = "clickstream:live"

// recentViewedCap bounds the per-user recently viewed list.
const recentViewedCap = 20

type Store struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("redis.Store.Close: %w", err)
	}
	return nil
}

func (s *Store) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := s.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.Store.Publish: %w", err)
	}
	return nil
}

func (s *Store) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := s.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.Store.Subscribe: receive confirmation: %w", err)
	}

	out := make(chan []byte, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}

// PublishClickEvent fans a clickstream event out to live websocket
// subscribers.
func (s *Store) PublishClickEvent(ctx context.Context, ev *domain.ClickEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("redis.Store.PublishClickEvent: marshal: %w", err)
	}
	return s.Publish(ctx, ClickstreamChannel, payload)
}

// RecordView pushes a product onto a user's recently viewed list,
// deduplicating and keeping the newest entries first.
func (s *Store) RecordView(ctx context.Context, userID, productID string) error {
	key := recentKey(userID)
	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, key, 0, productID)
	pipe.LPush(ctx, key, productID)
	pipe.LTrim(ctx, key, 0, recentViewedCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis.Store.RecordView: %w", err)
	}
	return nil
}

// RecentlyViewed returns a user's most recent product ids, newest first.
func (s *Store) RecentlyViewed(ctx context.Context, userID string, limit int) ([]string, error) {
	ids, err := s.client.LRange(ctx, recentKey(userID), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis.Store.RecentlyViewed: %w", err)
	}
	return ids, nil
}

// AddToCart merges one line into a user's cart, accumulating quantity
// for repeat adds of the same product.
func (s *Store) AddToCart(ctx context.Context, userID string, item domain.CartItem) error {
	key := cartKey(userID)

	raw, err := s.client.HGet(ctx, key, item.ProductID).Result()
	if err == nil {
		var existing domain.CartItem
		if jsonErr := json.Unmarshal([]byte(raw), &existing); jsonErr == nil {
			item.Quantity += existing.Quantity
		}
	} else if err != redis.Nil {
		return fmt.Errorf("redis.Store.AddToCart: %w", err)
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("redis.Store.AddToCart: marshal: %w", err)
	}
	if err := s.client.HSet(ctx, key, item.ProductID, payload).Err(); err != nil {
		return fmt.Errorf("redis.Store.AddToCart: %w", err)
	}
	return nil
}

// Cart returns every line in a user's cart.
func (s *Store) Cart(ctx context.Context, userID string) ([]domain.CartItem, error) {
	raw, err := s.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis.Store.Cart: %w", err)
	}

	items := make([]domain.CartItem, 0, len(raw))
	for _, v := range raw {
		var item domain.CartItem
		if err := json.Unmarshal([]byte(v), &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// RemoveFromCart drops one product line from a user's cart.
func (s *Store) RemoveFromCart(ctx context.Context, userID, productID string) error {
	if err := s.client.HDel(ctx, cartKey(userID), productID).Err(); err != nil {
		return fmt.Errorf("redis.Store.RemoveFromCart: %w", err)
	}
	return nil
}

// ClearCart drops a user's cart entirely.
func (s *Store) ClearCart(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis.Store.ClearCart: %w", err)
	}
	return nil
}

func recentKey(userID string) string { return "recent:" + userID }
func cartKey(userID string) string   { return "cart:" + userID }
