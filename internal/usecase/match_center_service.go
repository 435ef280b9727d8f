package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sportserve/matchcenter/external/statsfeed"
	"github.com/sportserve/matchcenter/internal/domain/match"
	"github.com/sportserve/matchcenter/internal/domain/standing"
	"github.com/sportserve/matchcenter/internal/domain/team"
	"github.com/sportserve/matchcenter/internal/platform/logging"
)

// EnrichedMatch is one fixture carrying resolved team entities instead of
// bare feed ids.
type EnrichedMatch struct {
	Match    match.Match
	HomeTeam team.Team
	AwayTeam team.Team
}

// FeedOutcome records whether one upstream source contributed to a response.
// Failed sources are reported here instead of failing the request.
type FeedOutcome struct {
	Source string
	OK     bool
	Error  string
}

type EnrichedFixturesResult struct {
	Matches  []EnrichedMatch
	Teams    []team.Team
	Outcomes []FeedOutcome
	Partial  bool
}

type StandingsResult struct {
	Groups   []standing.GroupStanding
	Outcomes []FeedOutcome
	Partial  bool
}

type sportsFeedClient interface {
	Fixtures(ctx context.Context, competitionID, seasonID string) ([]match.Match, []statsfeed.TeamInfo, error)
	Standings(ctx context.Context, competitionID, seasonID string) (map[string][]standing.OfficialRow, []statsfeed.TeamInfo, error)
}

type cmsTeamReader interface {
	TeamsByFeedIDs(ctx context.Context, feedIDs []string) ([]team.CMSRecord, error)
}

type MatchCenterConfig struct {
	// FeedTimeout bounds each upstream fetch independently; a slow feed
	// times out alone without cancelling its siblings.
	FeedTimeout time.Duration
	CMSTimeout  time.Duration
	Rules       standing.Rules
}

// MatchCenterService is the request-scoped orchestrator: it fans out to the
// sports feeds and the CMS, joins the results, and assembles best-effort
// enriched responses. It holds no mutable state between requests.
type MatchCenterService struct {
	feed   sportsFeedClient
	cms    cmsTeamReader
	cfg    MatchCenterConfig
	logger *logging.Logger
}

func NewMatchCenterService(feed sportsFeedClient, cms cmsTeamReader, cfg MatchCenterConfig, logger *logging.Logger) *MatchCenterService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FeedTimeout <= 0 {
		cfg.FeedTimeout = 5 * time.Second
	}
	if cfg.CMSTimeout <= 0 {
		cfg.CMSTimeout = 3 * time.Second
	}
	if cfg.Rules == (standing.Rules{}) {
		cfg.Rules = standing.DefaultRules()
	}

	return &MatchCenterService{feed: feed, cms: cms, cfg: cfg, logger: logger}
}

// EnrichedFixtures returns the fixture list for a season with home and away
// teams resolved against the CMS. The fixtures feed is the primary source
// and its failure fails the call; a CMS failure only leaves teams
// unresolved.
func (s *MatchCenterService) EnrichedFixtures(ctx context.Context, competitionID, seasonID string) (EnrichedFixturesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchCenterService.EnrichedFixtures")
	defer span.End()

	if competitionID == "" || seasonID == "" {
		return EnrichedFixturesResult{}, ErrInvalidInput
	}

	fixturesCtx, cancel := context.WithTimeout(ctx, s.cfg.FeedTimeout)
	matches, feedTeams, err := s.feed.Fixtures(fixturesCtx, competitionID, seasonID)
	cancel()
	if err != nil {
		s.logger.ErrorContext(ctx, "fixtures feed failed",
			"competitionId", competitionID, "seasonId", seasonID, "error", err.Error())
		return EnrichedFixturesResult{}, err
	}

	result := EnrichedFixturesResult{
		Outcomes: []FeedOutcome{{Source: "fixtures", OK: true}},
	}

	teams, cmsOutcome := s.resolveAgainstCMS(ctx, feedTeams)
	result.Outcomes = append(result.Outcomes, cmsOutcome)
	result.Partial = !cmsOutcome.OK
	result.Teams = teams

	byID := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	result.Matches = make([]EnrichedMatch, 0, len(matches))
	for _, m := range matches {
		result.Matches = append(result.Matches, EnrichedMatch{
			Match:    m,
			HomeTeam: byID[m.HomeTeamID],
			AwayTeam: byID[m.AwayTeamID],
		})
	}
	return result, nil
}

// Standings fans out to the fixtures and standings feeds concurrently. The
// local record computation from fixtures is always performed; official
// positions overlay it when the standings feed answered. A standings feed
// failure degrades the response to computed positions, a fixtures feed
// failure fails the call.
func (s *MatchCenterService) Standings(ctx context.Context, competitionID, seasonID string) (StandingsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchCenterService.Standings")
	defer span.End()

	if competitionID == "" || seasonID == "" {
		return StandingsResult{}, ErrInvalidInput
	}

	var (
		matches      []match.Match
		fixtureTeams []statsfeed.TeamInfo
		fixturesErr  error

		official      map[string][]standing.OfficialRow
		standingTeams []statsfeed.TeamInfo
		standingsErr  error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FeedTimeout)
		defer cancel()
		matches, fixtureTeams, fixturesErr = s.feed.Fixtures(fetchCtx, competitionID, seasonID)
	})
	wg.Go(func() {
		fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FeedTimeout)
		defer cancel()
		official, standingTeams, standingsErr = s.feed.Standings(fetchCtx, competitionID, seasonID)
	})
	wg.Wait()

	if fixturesErr != nil {
		s.logger.ErrorContext(ctx, "fixtures feed failed",
			"competitionId", competitionID, "seasonId", seasonID, "error", fixturesErr.Error())
		return StandingsResult{}, fixturesErr
	}

	result := StandingsResult{
		Outcomes: []FeedOutcome{{Source: "fixtures", OK: true}},
	}
	if standingsErr != nil {
		s.logger.WarnContext(ctx, "standings feed failed, serving computed positions",
			"competitionId", competitionID, "seasonId", seasonID, "error", standingsErr.Error())
		result.Outcomes = append(result.Outcomes, FeedOutcome{Source: "standings", OK: false, Error: standingsErr.Error()})
		result.Partial = true
		official = nil
	} else {
		result.Outcomes = append(result.Outcomes, FeedOutcome{Source: "standings", OK: true})
	}

	feedTeams := mergeTeamInfos(fixtureTeams, standingTeams)
	teams, cmsOutcome := s.resolveAgainstCMS(ctx, feedTeams)
	result.Outcomes = append(result.Outcomes, cmsOutcome)
	if !cmsOutcome.OK {
		result.Partial = true
	}
	names := teamNamesByID(teams)

	groupIDs := collectGroupIDs(matches, official)
	result.Groups = make([]standing.GroupStanding, 0, len(groupIDs))
	for _, groupID := range groupIDs {
		group := standing.BuildGroup(groupID, matches, official[groupID], names, s.cfg.Rules)
		result.Groups = append(result.Groups, group)
	}
	return result, nil
}

// resolveAgainstCMS merges feed teams with their CMS records. The CMS is
// optional enrichment: on failure the feed-only merge is returned and the
// outcome flags the degradation.
func (s *MatchCenterService) resolveAgainstCMS(ctx context.Context, feedTeams []statsfeed.TeamInfo) ([]team.Team, FeedOutcome) {
	if s.cms == nil || len(feedTeams) == 0 {
		return ResolveTeams(feedTeams, nil), FeedOutcome{Source: "cms", OK: true}
	}

	feedIDs := make([]string, 0, len(feedTeams))
	for _, ft := range feedTeams {
		feedIDs = append(feedIDs, ft.FeedID)
	}

	cmsCtx, cancel := context.WithTimeout(ctx, s.cfg.CMSTimeout)
	defer cancel()
	records, err := s.cms.TeamsByFeedIDs(cmsCtx, feedIDs)
	if err != nil {
		s.logger.WarnContext(ctx, "cms lookup failed, serving unresolved teams", "error", err.Error())
		return ResolveTeams(feedTeams, nil), FeedOutcome{Source: "cms", OK: false, Error: err.Error()}
	}
	return ResolveTeams(feedTeams, records), FeedOutcome{Source: "cms", OK: true}
}

// mergeTeamInfos unions team lists from two feeds, first occurrence wins.
func mergeTeamInfos(lists ...[]statsfeed.TeamInfo) []statsfeed.TeamInfo {
	out := make([]statsfeed.TeamInfo, 0)
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, info := range list {
			if _, ok := seen[info.FeedID]; ok {
				continue
			}
			seen[info.FeedID] = struct{}{}
			out = append(out, info)
		}
	}
	return out
}

// collectGroupIDs unions the group scopes seen in fixtures and in the
// official table, preserving first-seen order.
func collectGroupIDs(matches []match.Match, official map[string][]standing.OfficialRow) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, m := range matches {
		if _, ok := seen[m.GroupID]; ok {
			continue
		}
		seen[m.GroupID] = struct{}{}
		out = append(out, m.GroupID)
	}
	extra := make([]string, 0)
	for groupID := range official {
		if _, ok := seen[groupID]; ok {
			continue
		}
		seen[groupID] = struct{}{}
		extra = append(extra, groupID)
	}
	sort.Strings(extra)
	return append(out, extra...)
}
