package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sportserve/matchcenter/external/statsfeed"
	"github.com/sportserve/matchcenter/internal/domain/match"
	"github.com/sportserve/matchcenter/internal/domain/standing"
	"github.com/sportserve/matchcenter/internal/platform/logging"
)

// RefreshTarget names one competition season whose feeds are kept warm.
type RefreshTarget struct {
	CompetitionID string
	SeasonID      string
}

type RefreshConfig struct {
	Targets    []RefreshTarget
	MaxWorkers int
}

type RefreshInput struct {
	CompetitionID string
	SeasonID      string
	// Feeds narrows the sweep to selected feed kinds; empty means all.
	Feeds      []string
	MaxWorkers int
}

type RefreshResult struct {
	TargetCount  int                 `json:"target_count"`
	TaskCount    int                 `json:"task_count"`
	SuccessCount int                 `json:"success_count"`
	FailedCount  int                 `json:"failed_count"`
	WorkerCount  int                 `json:"worker_count"`
	Tasks        []RefreshTaskResult `json:"tasks"`
}

type RefreshTaskResult struct {
	CompetitionID string `json:"competition_id"`
	SeasonID      string `json:"season_id"`
	Feed          string `json:"feed"`
	Status        string `json:"status"`
	DurationMs    int64  `json:"duration_ms"`
	Message       string `json:"message,omitempty"`
}

const (
	refreshStatusSuccess = "success"
	refreshStatusFailed  = "failed"
)

type refreshTask struct {
	target RefreshTarget
	feed   string
}

type feedWarmer interface {
	Fixtures(ctx context.Context, competitionID, seasonID string) ([]match.Match, []statsfeed.TeamInfo, error)
	Standings(ctx context.Context, competitionID, seasonID string) (map[string][]standing.OfficialRow, []statsfeed.TeamInfo, error)
	Squads(ctx context.Context, competitionID, seasonID string) ([]statsfeed.SquadTeam, error)
}

// RefreshService sweeps the configured competition seasons through the feed
// client so that the read-through cache and the snapshot archive stay warm
// between user requests. Each task is isolated; a failed feed only shows up
// as a failed row.
type RefreshService struct {
	feed   feedWarmer
	cfg    RefreshConfig
	logger *logging.Logger
}

func NewRefreshService(feed feedWarmer, cfg RefreshConfig, logger *logging.Logger) *RefreshService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 2
	}
	return &RefreshService{feed: feed, cfg: cfg, logger: logger}
}

func (s *RefreshService) Refresh(ctx context.Context, input RefreshInput) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "RefreshService.Refresh")
	defer span.End()

	if s.feed == nil {
		return RefreshResult{}, fmt.Errorf("%w: feed client is not configured", ErrDependencyUnavailable)
	}

	targets, err := s.resolveTargets(input)
	if err != nil {
		return RefreshResult{}, err
	}
	feeds, err := normalizeRefreshFeeds(input.Feeds)
	if err != nil {
		return RefreshResult{}, err
	}

	tasks := make([]refreshTask, 0, len(targets)*len(feeds))
	for _, target := range targets {
		for _, feed := range feeds {
			tasks = append(tasks, refreshTask{target: target, feed: feed})
		}
	}

	workerCount := normalizeRefreshWorkerCount(input.MaxWorkers, s.cfg.MaxWorkers, len(tasks))
	result := RefreshResult{
		TargetCount: len(targets),
		TaskCount:   len(tasks),
		WorkerCount: workerCount,
		Tasks:       make([]RefreshTaskResult, 0, len(tasks)),
	}
	if len(tasks) == 0 {
		return result, nil
	}

	rows := make(chan RefreshTaskResult, len(tasks))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RefreshTaskResult{
				CompetitionID: task.target.CompetitionID,
				SeasonID:      task.target.SeasonID,
				Feed:          task.feed,
				Status:        refreshStatusSuccess,
			}
			if err := s.warm(ctx, task); err != nil {
				row.Status = refreshStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "feed warm sweep task failed",
					"competitionId", task.target.CompetitionID,
					"seasonId", task.target.SeasonID,
					"feed", task.feed,
					"error", err.Error(),
				)
			} else {
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()
			rows <- row
		}); err != nil {
			workers.Done()
			return RefreshResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		if result.Tasks[i].CompetitionID != result.Tasks[j].CompetitionID {
			return result.Tasks[i].CompetitionID < result.Tasks[j].CompetitionID
		}
		return result.Tasks[i].Feed < result.Tasks[j].Feed
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func (s *RefreshService) warm(ctx context.Context, task refreshTask) error {
	switch task.feed {
	case statsfeed.FeedFixtures:
		_, _, err := s.feed.Fixtures(ctx, task.target.CompetitionID, task.target.SeasonID)
		return err
	case statsfeed.FeedStandings:
		_, _, err := s.feed.Standings(ctx, task.target.CompetitionID, task.target.SeasonID)
		return err
	case statsfeed.FeedSquads:
		_, err := s.feed.Squads(ctx, task.target.CompetitionID, task.target.SeasonID)
		return err
	default:
		return fmt.Errorf("%w: unsupported feed=%s", ErrInvalidInput, task.feed)
	}
}

func (s *RefreshService) resolveTargets(input RefreshInput) ([]RefreshTarget, error) {
	competitionID := strings.TrimSpace(input.CompetitionID)
	seasonID := strings.TrimSpace(input.SeasonID)
	if competitionID != "" || seasonID != "" {
		if competitionID == "" || seasonID == "" {
			return nil, fmt.Errorf("%w: competition_id and season_id go together", ErrInvalidInput)
		}
		return []RefreshTarget{{CompetitionID: competitionID, SeasonID: seasonID}}, nil
	}

	targets := make([]RefreshTarget, 0, len(s.cfg.Targets))
	for _, target := range s.cfg.Targets {
		target.CompetitionID = strings.TrimSpace(target.CompetitionID)
		target.SeasonID = strings.TrimSpace(target.SeasonID)
		if target.CompetitionID == "" || target.SeasonID == "" {
			continue
		}
		targets = append(targets, target)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no refresh targets configured", ErrNotFound)
	}
	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].CompetitionID < targets[j].CompetitionID
	})
	return targets, nil
}

func normalizeRefreshFeeds(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return []string{statsfeed.FeedFixtures, statsfeed.FeedStandings, statsfeed.FeedSquads}, nil
	}

	seen := make(map[string]struct{}, len(raw))
	feeds := make([]string, 0, len(raw))
	for _, item := range raw {
		feed := strings.TrimSpace(strings.ToLower(item))
		if feed == "" {
			continue
		}
		switch feed {
		case statsfeed.FeedFixtures, statsfeed.FeedStandings, statsfeed.FeedSquads:
		default:
			return nil, fmt.Errorf("%w: unsupported feed=%s", ErrInvalidInput, item)
		}
		if _, exists := seen[feed]; exists {
			continue
		}
		seen[feed] = struct{}{}
		feeds = append(feeds, feed)
	}
	if len(feeds) == 0 {
		return nil, fmt.Errorf("%w: feeds is required", ErrInvalidInput)
	}
	return feeds, nil
}

func normalizeRefreshWorkerCount(requested, configured, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	value := requested
	if value <= 0 {
		value = configured
	}
	if value <= 0 {
		value = 1
	}
	if value > 4 {
		value = 4
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
