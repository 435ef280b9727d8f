package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/sportserve/matchcenter/internal/domain/snapshot"
	"github.com/sportserve/matchcenter/internal/domain/team"
	"github.com/sportserve/matchcenter/internal/platform/logging"
	"github.com/sportserve/matchcenter/internal/usecase"
)

// SnapshotReader exposes the raw-payload archive to the internal
// inspection endpoint. Nil when archiving is disabled.
type SnapshotReader interface {
	LatestByFeed(ctx context.Context, feedKind string, limit int) ([]snapshot.Payload, error)
}

type Handler struct {
	matchCenterService *usecase.MatchCenterService
	liveStateService   *usecase.LiveStateService
	squadService       *usecase.SquadService
	refreshService     *usecase.RefreshService
	snapshots          SnapshotReader
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	matchCenterService *usecase.MatchCenterService,
	liveStateService *usecase.LiveStateService,
	squadService *usecase.SquadService,
	refreshService *usecase.RefreshService,
	snapshots SnapshotReader,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchCenterService: matchCenterService,
		liveStateService:   liveStateService,
		squadService:       squadService,
		refreshService:     refreshService,
		snapshots:          snapshots,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	seasonID := r.PathValue("seasonID")
	if err := h.validateRequest(ctx, seasonScopeRequest{CompetitionID: competitionID, SeasonID: seasonID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matchCenterService.EnrichedFixtures(ctx, competitionID, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "competition_id", competitionID, "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]enrichedMatchDTO, 0, len(result.Matches))
	for _, m := range result.Matches {
		items = append(items, enrichedMatchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesResponseDTO{
		Items:   items,
		Sources: outcomesToDTO(result.Outcomes),
		Partial: result.Partial,
	})
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	seasonID := r.PathValue("seasonID")
	if err := h.validateRequest(ctx, seasonScopeRequest{CompetitionID: competitionID, SeasonID: seasonID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matchCenterService.Standings(ctx, competitionID, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "competition_id", competitionID, "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	groups := make([]groupStandingDTO, 0, len(result.Groups))
	for _, group := range result.Groups {
		rows := make([]standingRowDTO, 0, len(group.Rows))
		for _, row := range group.Rows {
			rows = append(rows, standingRowDTO{
				Position:       row.Position,
				Official:       row.Official,
				TeamID:         row.TeamID,
				Name:           row.Name,
				Played:         row.Played,
				Won:            row.Won,
				Drawn:          row.Drawn,
				Lost:           row.Lost,
				GoalsFor:       row.GoalsFor,
				GoalsAgainst:   row.GoalsAgainst,
				GoalDifference: row.GoalDifference(),
				Points:         row.Points,
			})
		}
		groups = append(groups, groupStandingDTO{GroupID: group.GroupID, Rows: rows})
	}

	writeSuccess(ctx, w, http.StatusOK, standingsResponseDTO{
		Groups:  groups,
		Sources: outcomesToDTO(result.Outcomes),
		Partial: result.Partial,
	})
}

func (h *Handler) ListSquads(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSquads")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	seasonID := r.PathValue("seasonID")
	if err := h.validateRequest(ctx, seasonScopeRequest{CompetitionID: competitionID, SeasonID: seasonID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.squadService.Squads(ctx, competitionID, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list squads failed", "competition_id", competitionID, "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]squadDTO, 0, len(result.Squads))
	for _, squad := range result.Squads {
		players := make([]playerDTO, 0, len(squad.Players))
		for _, p := range squad.Players {
			players = append(players, playerDTO{
				ID:        p.ID,
				Name:      p.Name,
				FirstName: p.FirstName,
				LastName:  p.LastName,
				Position:  p.Position,
				ShirtNo:   p.ShirtNo,
				PhotoURL:  p.PhotoURL,
				CMSUID:    p.CMSUID,
				Resolved:  p.Resolved(),
			})
		}
		items = append(items, squadDTO{
			Team:    teamToDTO(squad.Team),
			Players: players,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, squadsResponseDTO{
		Items:   items,
		Sources: outcomesToDTO(result.Outcomes),
		Partial: result.Partial,
	})
}

func (h *Handler) GetTeamSeasonStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamSeasonStats")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	seasonID := r.PathValue("seasonID")
	teamID := r.PathValue("teamID")
	if err := h.validateRequest(ctx, teamStatsRequest{CompetitionID: competitionID, SeasonID: seasonID, TeamID: teamID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.squadService.TeamSeasonStats(ctx, teamID, competitionID, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team season stats failed", "team_id", teamID, "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonStatsDTO{
		TeamID:        stats.TeamID,
		CompetitionID: stats.CompetitionID,
		SeasonID:      stats.SeasonID,
		Values:        stats.Values,
	})
}

func (h *Handler) GetLiveMatchState(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLiveMatchState")
	defer span.End()

	matchID := r.PathValue("matchID")
	if err := h.validateRequest(ctx, liveStateRequest{MatchID: matchID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.liveStateService.LiveState(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get live match state failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	events := make([]commentaryEventDTO, 0, len(state.Events))
	for _, e := range state.Events {
		dto := commentaryEventDTO{
			Type:      string(e.Type),
			Card:      string(e.Card),
			Minute:    e.Minute,
			Period:    e.Period,
			TeamID:    e.TeamID,
			PlayerID:  e.PlayerID,
			PlayerID2: e.PlayerID2,
			Text:      e.Text,
		}
		if !e.PostedAt.IsZero() {
			dto.PostedAt = e.PostedAt.UTC().Format(time.RFC3339)
		}
		events = append(events, dto)
	}

	writeSuccess(ctx, w, http.StatusOK, liveStateDTO{
		MatchID:   state.MatchID,
		Period:    string(state.Period),
		Minute:    state.Minute,
		HomeScore: state.HomeScore,
		AwayScore: state.AwayScore,
		Events:    events,
	})
}

func (h *Handler) RunRefreshJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshJob")
	defer span.End()

	var payload refreshJobRequest
	if r.Body != nil && r.ContentLength != 0 {
		decoder := jsoniter.NewDecoder(r.Body)
		if err := decoder.Decode(&payload); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
			return
		}
	}

	result, err := h.refreshService.Refresh(ctx, usecase.RefreshInput{
		CompetitionID: payload.CompetitionID,
		SeasonID:      payload.SeasonID,
		Feeds:         payload.Feeds,
		MaxWorkers:    payload.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "refresh job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSnapshots")
	defer span.End()

	if h.snapshots == nil {
		writeError(ctx, w, fmt.Errorf("%w: snapshot archive is disabled", usecase.ErrDependencyUnavailable))
		return
	}

	feed := r.URL.Query().Get("feed")
	if err := h.validateRequest(ctx, snapshotListRequest{Feed: feed}); err != nil {
		writeError(ctx, w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid limit %q", usecase.ErrInvalidInput, raw))
			return
		}
		limit = parsed
	}

	items, err := h.snapshots.LatestByFeed(ctx, feed, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list snapshots failed", "feed", feed, "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]snapshotDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, snapshotDTO{
			Source:        item.Source,
			FeedKind:      item.FeedKind,
			ParamsKey:     item.ParamsKey,
			CompetitionID: item.CompetitionID,
			SeasonID:      item.SeasonID,
			MatchID:       item.MatchID,
			BodyHash:      item.BodyHash,
			BodySize:      len(item.Body),
			FetchedAt:     item.FetchedAt.UTC().Format(time.RFC3339),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotsResponseDTO{Items: dtos})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type seasonScopeRequest struct {
	CompetitionID string `validate:"required"`
	SeasonID      string `validate:"required"`
}

type teamStatsRequest struct {
	CompetitionID string `validate:"required"`
	SeasonID      string `validate:"required"`
	TeamID        string `validate:"required"`
}

type liveStateRequest struct {
	MatchID string `validate:"required"`
}

type snapshotListRequest struct {
	Feed string `validate:"required"`
}

type refreshJobRequest struct {
	CompetitionID string   `json:"competition_id"`
	SeasonID      string   `json:"season_id"`
	Feeds         []string `json:"feeds"`
	MaxWorkers    int      `json:"max_workers"`
}

type snapshotDTO struct {
	Source        string `json:"source"`
	FeedKind      string `json:"feedKind"`
	ParamsKey     string `json:"paramsKey"`
	CompetitionID string `json:"competitionId,omitempty"`
	SeasonID      string `json:"seasonId,omitempty"`
	MatchID       string `json:"matchId,omitempty"`
	BodyHash      string `json:"bodyHash"`
	BodySize      int    `json:"bodySize"`
	FetchedAt     string `json:"fetchedAt"`
}

type snapshotsResponseDTO struct {
	Items []snapshotDTO `json:"items"`
}

type teamDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Short        string `json:"short,omitempty"`
	Country      string `json:"country,omitempty"`
	PrimaryColor string `json:"primaryColor,omitempty"`
	CrestURL     string `json:"crestUrl,omitempty"`
	CMSUID       string `json:"cmsUid,omitempty"`
	Resolved     bool   `json:"resolved"`
}

type enrichedMatchDTO struct {
	ID        string  `json:"id"`
	GroupID   string  `json:"groupId,omitempty"`
	KickoffAt string  `json:"kickoffAt,omitempty"`
	Period    string  `json:"period"`
	HomeTeam  teamDTO `json:"homeTeam"`
	AwayTeam  teamDTO `json:"awayTeam"`
	HomeScore *int    `json:"homeScore,omitempty"`
	AwayScore *int    `json:"awayScore,omitempty"`
	Venue     string  `json:"venue,omitempty"`
}

type sourceDTO struct {
	Source string `json:"source"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

type fixturesResponseDTO struct {
	Items   []enrichedMatchDTO `json:"items"`
	Sources []sourceDTO        `json:"sources"`
	Partial bool               `json:"partial"`
}

type standingRowDTO struct {
	Position       int    `json:"position"`
	Official       bool   `json:"official"`
	TeamID         string `json:"teamId"`
	Name           string `json:"name"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

type groupStandingDTO struct {
	GroupID string           `json:"groupId"`
	Rows    []standingRowDTO `json:"rows"`
}

type standingsResponseDTO struct {
	Groups  []groupStandingDTO `json:"groups"`
	Sources []sourceDTO        `json:"sources"`
	Partial bool               `json:"partial"`
}

type playerDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Position  string `json:"position,omitempty"`
	ShirtNo   int    `json:"shirtNo,omitempty"`
	PhotoURL  string `json:"photoUrl,omitempty"`
	CMSUID    string `json:"cmsUid,omitempty"`
	Resolved  bool   `json:"resolved"`
}

type squadDTO struct {
	Team    teamDTO     `json:"team"`
	Players []playerDTO `json:"players"`
}

type squadsResponseDTO struct {
	Items   []squadDTO  `json:"items"`
	Sources []sourceDTO `json:"sources"`
	Partial bool        `json:"partial"`
}

type seasonStatsDTO struct {
	TeamID        string            `json:"teamId"`
	CompetitionID string            `json:"competitionId"`
	SeasonID      string            `json:"seasonId"`
	Values        map[string]string `json:"values"`
}

type commentaryEventDTO struct {
	Type      string `json:"type"`
	Card      string `json:"card,omitempty"`
	Minute    *int   `json:"minute,omitempty"`
	Period    string `json:"period,omitempty"`
	TeamID    string `json:"teamId,omitempty"`
	PlayerID  string `json:"playerId,omitempty"`
	PlayerID2 string `json:"playerId2,omitempty"`
	Text      string `json:"text,omitempty"`
	PostedAt  string `json:"postedAt,omitempty"`
}

type liveStateDTO struct {
	MatchID   string               `json:"matchId"`
	Period    string               `json:"period"`
	Minute    *int                 `json:"minute,omitempty"`
	HomeScore *int                 `json:"homeScore,omitempty"`
	AwayScore *int                 `json:"awayScore,omitempty"`
	Events    []commentaryEventDTO `json:"events"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:           t.ID,
		Name:         t.Name,
		Short:        t.Short,
		Country:      t.Country,
		PrimaryColor: t.PrimaryColor,
		CrestURL:     t.CrestURL,
		CMSUID:       t.CMSUID,
		Resolved:     t.CMSUID != "",
	}
}

func enrichedMatchToDTO(m usecase.EnrichedMatch) enrichedMatchDTO {
	dto := enrichedMatchDTO{
		ID:        m.Match.ID,
		GroupID:   m.Match.GroupID,
		Period:    string(m.Match.Period),
		HomeTeam:  teamToDTO(m.HomeTeam),
		AwayTeam:  teamToDTO(m.AwayTeam),
		HomeScore: m.Match.HomeScore,
		AwayScore: m.Match.AwayScore,
		Venue:     m.Match.Venue,
	}
	if !m.Match.KickoffAt.IsZero() {
		dto.KickoffAt = m.Match.KickoffAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func outcomesToDTO(outcomes []usecase.FeedOutcome) []sourceDTO {
	out := make([]sourceDTO, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, sourceDTO{Source: o.Source, OK: o.OK, Error: o.Error})
	}
	return out
}
