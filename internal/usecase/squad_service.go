package usecase

import (
	"context"
	"time"

	"github.com/sportserve/matchcenter/external/statsfeed"
	"github.com/sportserve/matchcenter/internal/domain/player"
	"github.com/sportserve/matchcenter/internal/domain/team"
	"github.com/sportserve/matchcenter/internal/platform/feedid"
	"github.com/sportserve/matchcenter/internal/platform/logging"
)

// ResolvedSquad is one club's registered players with team and player
// entities resolved against the CMS.
type ResolvedSquad struct {
	Team    team.Team
	Players []player.Player
}

type SquadsResult struct {
	Squads   []ResolvedSquad
	Outcomes []FeedOutcome
	Partial  bool
}

type squadFeedClient interface {
	Squads(ctx context.Context, competitionID, seasonID string) ([]statsfeed.SquadTeam, error)
	TeamSeasonStats(ctx context.Context, teamID, competitionID, seasonID string) (statsfeed.SeasonStats, error)
}

type cmsSquadReader interface {
	TeamsByFeedIDs(ctx context.Context, feedIDs []string) ([]team.CMSRecord, error)
	PlayersByFeedIDs(ctx context.Context, feedIDs []string) ([]player.CMSRecord, error)
}

// SquadService serves season squads and per-team season stats. The squads
// feed is primary; CMS lookups only enrich and degrade on failure.
type SquadService struct {
	feed        squadFeedClient
	cms         cmsSquadReader
	feedTimeout time.Duration
	cmsTimeout  time.Duration
	logger      *logging.Logger
}

func NewSquadService(feed squadFeedClient, cms cmsSquadReader, feedTimeout, cmsTimeout time.Duration, logger *logging.Logger) *SquadService {
	if logger == nil {
		logger = logging.Default()
	}
	if feedTimeout <= 0 {
		feedTimeout = 5 * time.Second
	}
	if cmsTimeout <= 0 {
		cmsTimeout = 3 * time.Second
	}
	return &SquadService{feed: feed, cms: cms, feedTimeout: feedTimeout, cmsTimeout: cmsTimeout, logger: logger}
}

func (s *SquadService) Squads(ctx context.Context, competitionID, seasonID string) (SquadsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SquadService.Squads")
	defer span.End()

	if competitionID == "" || seasonID == "" {
		return SquadsResult{}, ErrInvalidInput
	}

	feedCtx, cancel := context.WithTimeout(ctx, s.feedTimeout)
	squads, err := s.feed.Squads(feedCtx, competitionID, seasonID)
	cancel()
	if err != nil {
		s.logger.ErrorContext(ctx, "squads feed failed",
			"competitionId", competitionID, "seasonId", seasonID, "error", err.Error())
		return SquadsResult{}, err
	}

	result := SquadsResult{
		Outcomes: []FeedOutcome{{Source: "squads", OK: true}},
	}

	teamFeedIDs := make([]string, 0, len(squads))
	playerFeedIDs := make([]string, 0)
	for _, squad := range squads {
		teamFeedIDs = append(teamFeedIDs, squad.Team.FeedID)
		for _, p := range squad.Players {
			playerFeedIDs = append(playerFeedIDs, p.FeedID)
		}
	}

	teamRecords, playerRecords, cmsOutcome := s.lookupCMS(ctx, teamFeedIDs, playerFeedIDs)
	result.Outcomes = append(result.Outcomes, cmsOutcome)
	result.Partial = !cmsOutcome.OK

	teamInfos := make([]statsfeed.TeamInfo, 0, len(squads))
	for _, squad := range squads {
		teamInfos = append(teamInfos, squad.Team)
	}
	teams := ResolveTeams(teamInfos, teamRecords)
	teamsByID := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
	}

	result.Squads = make([]ResolvedSquad, 0, len(squads))
	for _, squad := range squads {
		teamID := feedid.Normalize(squad.Team.FeedID)
		result.Squads = append(result.Squads, ResolvedSquad{
			Team:    teamsByID[teamID],
			Players: ResolvePlayers(teamID, squad.Players, playerRecords),
		})
	}
	return result, nil
}

// TeamSeasonStats passes the season aggregate feed through with the usual
// per-feed timeout.
func (s *SquadService) TeamSeasonStats(ctx context.Context, teamID, competitionID, seasonID string) (statsfeed.SeasonStats, error) {
	ctx, span := startUsecaseSpan(ctx, "SquadService.TeamSeasonStats")
	defer span.End()

	teamID = feedid.Normalize(teamID)
	if teamID == "" || competitionID == "" || seasonID == "" {
		return statsfeed.SeasonStats{}, ErrInvalidInput
	}

	feedCtx, cancel := context.WithTimeout(ctx, s.feedTimeout)
	defer cancel()
	return s.feed.TeamSeasonStats(feedCtx, teamID, competitionID, seasonID)
}

func (s *SquadService) lookupCMS(ctx context.Context, teamFeedIDs, playerFeedIDs []string) ([]team.CMSRecord, []player.CMSRecord, FeedOutcome) {
	if s.cms == nil {
		return nil, nil, FeedOutcome{Source: "cms", OK: true}
	}

	cmsCtx, cancel := context.WithTimeout(ctx, s.cmsTimeout)
	defer cancel()

	teamRecords, err := s.cms.TeamsByFeedIDs(cmsCtx, teamFeedIDs)
	if err != nil {
		s.logger.WarnContext(ctx, "cms team lookup failed, serving unresolved squads", "error", err.Error())
		return nil, nil, FeedOutcome{Source: "cms", OK: false, Error: err.Error()}
	}
	playerRecords, err := s.cms.PlayersByFeedIDs(cmsCtx, playerFeedIDs)
	if err != nil {
		s.logger.WarnContext(ctx, "cms player lookup failed, serving unresolved players", "error", err.Error())
		return teamRecords, nil, FeedOutcome{Source: "cms", OK: false, Error: err.Error()}
	}
	return teamRecords, playerRecords, FeedOutcome{Source: "cms", OK: true}
}
