package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sportserve/matchcenter/external/statsfeed"
	"github.com/sportserve/matchcenter/internal/domain/match"
	"github.com/sportserve/matchcenter/internal/domain/standing"
	"github.com/sportserve/matchcenter/internal/platform/logging"
)

type stubWarmFeed struct {
	mu           sync.Mutex
	calls        []string
	standingsErr error
}

func (s *stubWarmFeed) record(feed, competitionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, feed+":"+competitionID)
}

func (s *stubWarmFeed) Fixtures(ctx context.Context, competitionID, seasonID string) ([]match.Match, []statsfeed.TeamInfo, error) {
	s.record(statsfeed.FeedFixtures, competitionID)
	return nil, nil, nil
}

func (s *stubWarmFeed) Standings(ctx context.Context, competitionID, seasonID string) (map[string][]standing.OfficialRow, []statsfeed.TeamInfo, error) {
	s.record(statsfeed.FeedStandings, competitionID)
	return nil, nil, s.standingsErr
}

func (s *stubWarmFeed) Squads(ctx context.Context, competitionID, seasonID string) ([]statsfeed.SquadTeam, error) {
	s.record(statsfeed.FeedSquads, competitionID)
	return nil, nil
}

func TestRefreshSweepsConfiguredTargets(t *testing.T) {
	t.Parallel()

	feed := &stubWarmFeed{}
	svc := NewRefreshService(feed, RefreshConfig{
		Targets: []RefreshTarget{
			{CompetitionID: "8", SeasonID: "2025"},
			{CompetitionID: "5", SeasonID: "2025"},
		},
	}, logging.NewNop())

	result, err := svc.Refresh(context.Background(), RefreshInput{})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if result.TargetCount != 2 || result.TaskCount != 6 {
		t.Fatalf("expected 2 targets and 6 tasks, got %d/%d", result.TargetCount, result.TaskCount)
	}
	if result.SuccessCount != 6 || result.FailedCount != 0 {
		t.Fatalf("expected full success, got %+v", result)
	}
	if len(feed.calls) != 6 {
		t.Fatalf("expected 6 feed calls, got %d", len(feed.calls))
	}

	// Rows come back sorted by competition then feed regardless of worker order.
	if result.Tasks[0].CompetitionID != "5" || result.Tasks[0].Feed != statsfeed.FeedFixtures {
		t.Fatalf("unexpected first row %+v", result.Tasks[0])
	}
}

func TestRefreshIsolatesFailedFeed(t *testing.T) {
	t.Parallel()

	feed := &stubWarmFeed{standingsErr: errors.New("feed unavailable")}
	svc := NewRefreshService(feed, RefreshConfig{
		Targets: []RefreshTarget{{CompetitionID: "8", SeasonID: "2025"}},
	}, logging.NewNop())

	result, err := svc.Refresh(context.Background(), RefreshInput{})
	if err != nil {
		t.Fatalf("one failed feed must not fail the sweep: %v", err)
	}
	if result.SuccessCount != 2 || result.FailedCount != 1 {
		t.Fatalf("expected 2 successes and 1 failure, got %+v", result)
	}

	for _, row := range result.Tasks {
		if row.Feed == statsfeed.FeedStandings {
			if row.Status != refreshStatusFailed || row.Message == "" {
				t.Fatalf("standings row must carry the failure, got %+v", row)
			}
		} else if row.Status != refreshStatusSuccess {
			t.Fatalf("sibling rows must succeed, got %+v", row)
		}
	}
}

func TestRefreshExplicitTargetOverridesConfig(t *testing.T) {
	t.Parallel()

	feed := &stubWarmFeed{}
	svc := NewRefreshService(feed, RefreshConfig{
		Targets: []RefreshTarget{{CompetitionID: "8", SeasonID: "2025"}},
	}, logging.NewNop())

	result, err := svc.Refresh(context.Background(), RefreshInput{
		CompetitionID: "5",
		SeasonID:      "2024",
		Feeds:         []string{"fixtures"},
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if result.TaskCount != 1 {
		t.Fatalf("expected 1 task, got %d", result.TaskCount)
	}
	if feed.calls[0] != "fixtures:5" {
		t.Fatalf("expected the explicit target to be swept, got %v", feed.calls)
	}
}

func TestRefreshRejectsUnknownFeed(t *testing.T) {
	t.Parallel()

	svc := NewRefreshService(&stubWarmFeed{}, RefreshConfig{
		Targets: []RefreshTarget{{CompetitionID: "8", SeasonID: "2025"}},
	}, logging.NewNop())

	if _, err := svc.Refresh(context.Background(), RefreshInput{Feeds: []string{"lineups"}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRefreshRejectsHalfScopedTarget(t *testing.T) {
	t.Parallel()

	svc := NewRefreshService(&stubWarmFeed{}, RefreshConfig{}, logging.NewNop())
	if _, err := svc.Refresh(context.Background(), RefreshInput{CompetitionID: "8"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
