package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sportserve/matchcenter/internal/domain/snapshot"
	qb "github.com/sportserve/matchcenter/internal/platform/querybuilder"
)

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) UpsertMany(ctx context.Context, items []snapshot.Payload) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert feed snapshots: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := feedSnapshotInsertModel{
			Source:        item.Source,
			FeedKind:      item.FeedKind,
			ParamsKey:     item.ParamsKey,
			CompetitionID: nullableString(item.CompetitionID),
			SeasonID:      nullableString(item.SeasonID),
			MatchID:       nullableString(item.MatchID),
			Body:          item.Body,
			BodyHash:      item.BodyHash,
		}

		query, args, err := qb.InsertModel("feed_snapshots", insertModel, `ON CONFLICT (source, feed_kind, params_key)
DO UPDATE SET
    competition_id = EXCLUDED.competition_id,
    season_id = EXCLUDED.season_id,
    match_id = EXCLUDED.match_id,
    body = EXCLUDED.body,
    body_hash = EXCLUDED.body_hash,
    fetched_at = NOW()
WHERE feed_snapshots.body_hash IS DISTINCT FROM EXCLUDED.body_hash`)
		if err != nil {
			return fmt.Errorf("build upsert feed snapshot query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert feed snapshot feed=%s key=%s: %w", item.FeedKind, item.ParamsKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert feed snapshots tx: %w", err)
	}

	return nil
}

// LatestByFeed returns the most recent archived payloads for one feed kind,
// newest first. Used by the internal inspection endpoint.
func (r *SnapshotRepository) LatestByFeed(ctx context.Context, feedKind string, limit int) ([]snapshot.Payload, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []feedSnapshotModel
	err := r.db.SelectContext(ctx, &rows, `SELECT source, feed_kind, params_key, competition_id, season_id, match_id, body, body_hash, fetched_at
FROM feed_snapshots
WHERE feed_kind = $1
ORDER BY fetched_at DESC
LIMIT $2`, feedKind, limit)
	if err != nil {
		return nil, fmt.Errorf("list feed snapshots feed=%s: %w", feedKind, err)
	}

	out := make([]snapshot.Payload, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
