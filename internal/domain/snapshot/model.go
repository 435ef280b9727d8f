package snapshot

import "time"

// Payload is one archived raw feed response. The archive is write-only from
// the read path's perspective; nothing in request handling depends on it.
type Payload struct {
	Source        string
	FeedKind      string
	ParamsKey     string
	CompetitionID string
	SeasonID      string
	MatchID       string
	Body          string
	BodyHash      string
	FetchedAt     time.Time
}
