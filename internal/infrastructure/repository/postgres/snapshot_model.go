package postgres

import (
	"time"

	"github.com/sportserve/matchcenter/internal/domain/snapshot"
)

type feedSnapshotInsertModel struct {
	Source        string  `db:"source"`
	FeedKind      string  `db:"feed_kind"`
	ParamsKey     string  `db:"params_key"`
	CompetitionID *string `db:"competition_id"`
	SeasonID      *string `db:"season_id"`
	MatchID       *string `db:"match_id"`
	Body          string  `db:"body"`
	BodyHash      string  `db:"body_hash"`
}

type feedSnapshotModel struct {
	Source        string    `db:"source"`
	FeedKind      string    `db:"feed_kind"`
	ParamsKey     string    `db:"params_key"`
	CompetitionID *string   `db:"competition_id"`
	SeasonID      *string   `db:"season_id"`
	MatchID       *string   `db:"match_id"`
	Body          string    `db:"body"`
	BodyHash      string    `db:"body_hash"`
	FetchedAt     time.Time `db:"fetched_at"`
}

func (m feedSnapshotModel) toDomain() snapshot.Payload {
	return snapshot.Payload{
		Source:        m.Source,
		FeedKind:      m.FeedKind,
		ParamsKey:     m.ParamsKey,
		CompetitionID: derefString(m.CompetitionID),
		SeasonID:      derefString(m.SeasonID),
		MatchID:       derefString(m.MatchID),
		Body:          m.Body,
		BodyHash:      m.BodyHash,
		FetchedAt:     m.FetchedAt,
	}
}
