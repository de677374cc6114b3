package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfinder-supply/wayfinder/internal/domain"
)

type ClickstreamRepo struct {
	pool *pgxpool.Pool
}

func NewClickstreamRepo(pool *pgxpool.Pool) *ClickstreamRepo {
	return &ClickstreamRepo{pool: pool}
}

func (r *ClickstreamRepo) Insert(ctx context.Context, ev *domain.ClickEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO clickstream_events (id, ts, user_id, action, product_id, meta_tags, session_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.ID, ev.Timestamp, ev.UserID, ev.Action, ev.ProductID, ev.MetaTags, ev.SessionID,
	)
	if err != nil {
		return fmt.Errorf("clickstreamRepo.Insert: %w", err)
	}

	return nil
}

func (r *ClickstreamRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.ClickEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, ts, user_id, action, product_id, meta_tags, session_id
		 FROM clickstream_events
		 WHERE user_id = $1
		 ORDER BY ts DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("clickstreamRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	var events []*domain.ClickEvent
	for rows.Next() {
		var ev domain.ClickEvent
		err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.UserID, &ev.Action,
			&ev.ProductID, &ev.MetaTags, &ev.SessionID)
		if err != nil {
			return nil, fmt.Errorf("clickstreamRepo.ListByUser: scan: %w", err)
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clickstreamRepo.ListByUser: rows: %w", err)
	}

	return events, nil
}

func (r *ClickstreamRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM clickstream_events WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("clickstreamRepo.DeleteByUser: %w", err)
	}

	return tag.RowsAffected(), nil
}
