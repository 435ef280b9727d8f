package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/sportserve/matchcenter/external/statsfeed"
	"github.com/sportserve/matchcenter/internal/domain/commentary"
	"github.com/sportserve/matchcenter/internal/domain/match"
	"github.com/sportserve/matchcenter/internal/platform/feedid"
	"github.com/sportserve/matchcenter/internal/platform/logging"
)

// LiveMatchState is the single {period, minute} view assembled from the match
// detail and commentary feeds. Minute is nil whenever the match is not live
// or the commentary feed could not supply one.
type LiveMatchState struct {
	MatchID   string
	Period    match.Period
	Minute    *int
	HomeScore *int
	AwayScore *int
	Events    []commentary.Event
}

type matchDetailFetcher interface {
	MatchDetail(ctx context.Context, matchID string) (statsfeed.MatchDetail, error)
	Commentary(ctx context.Context, matchID string) ([]commentary.Event, error)
}

// LiveStateService aggregates the two live feeds for one match. The detail
// feed is required; the commentary feed only enriches and its failure
// degrades the view instead of failing it.
type LiveStateService struct {
	feed        matchDetailFetcher
	feedTimeout time.Duration
	logger      *logging.Logger
}

func NewLiveStateService(feed matchDetailFetcher, feedTimeout time.Duration, logger *logging.Logger) *LiveStateService {
	if logger == nil {
		logger = logging.Default()
	}
	if feedTimeout <= 0 {
		feedTimeout = 5 * time.Second
	}
	return &LiveStateService{feed: feed, feedTimeout: feedTimeout, logger: logger}
}

func (s *LiveStateService) LiveState(ctx context.Context, matchID string) (LiveMatchState, error) {
	ctx, span := startUsecaseSpan(ctx, "LiveStateService.LiveState")
	defer span.End()

	matchID = feedid.Normalize(strings.TrimSpace(matchID))
	if matchID == "" {
		return LiveMatchState{}, ErrInvalidInput
	}

	detailCtx, cancel := context.WithTimeout(ctx, s.feedTimeout)
	detail, err := s.feed.MatchDetail(detailCtx, matchID)
	cancel()
	if err != nil {
		return LiveMatchState{}, err
	}

	state := LiveMatchState{
		MatchID:   detail.Match.ID,
		Period:    detail.Match.Period,
		HomeScore: detail.Match.HomeScore,
		AwayScore: detail.Match.AwayScore,
		Events:    []commentary.Event{},
	}

	commentaryCtx, cancel := context.WithTimeout(ctx, s.feedTimeout)
	defer cancel()
	events, err := s.feed.Commentary(commentaryCtx, matchID)
	if err != nil {
		// Period-only view beats no view; the caller never sees this error.
		s.logger.WarnContext(ctx, "commentary feed degraded, serving period only",
			"matchId", matchID, "error", err.Error())
		return state, nil
	}
	state.Events = events

	if detail.Match.Period.IsLive() {
		state.Minute = commentary.LatestMinute(events)
	}
	return state, nil
}
