package statsfeed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sportserve/matchcenter/internal/domain/snapshot"
	"github.com/sportserve/matchcenter/internal/platform/feedid"
)

// Squads fetches the registered squads for one competition season.
func (c *Client) Squads(ctx context.Context, competitionID, seasonID string) ([]SquadTeam, error) {
	if strings.TrimSpace(competitionID) == "" || strings.TrimSpace(seasonID) == "" {
		return nil, fmt.Errorf("competition id and season id are required")
	}

	path := fmt.Sprintf("/competition/%s/season/%s/squads", url.PathEscape(competitionID), url.PathEscape(seasonID))

	raw, err := c.doFeed(ctx, FeedSquads, path, url.Values{}, c.ttls.Squads, snapshot.Payload{
		CompetitionID: competitionID,
		SeasonID:      seasonID,
	})
	if err != nil {
		return nil, err
	}

	var feed squadFeed
	if err := decodeFeed(FeedSquads, raw, &feed); err != nil {
		return nil, err
	}

	teams := make([]SquadTeam, 0, len(feed.Teams))
	for _, teamItem := range uniformList(feed.Teams) {
		if teamItem.UID == "" {
			continue
		}
		squad := SquadTeam{
			Team: TeamInfo{
				FeedID: feedid.Normalize(teamItem.UID),
				Name:   strings.TrimSpace(teamItem.Name),
				Short:  strings.TrimSpace(teamItem.Short),
			},
			Players: make([]SquadPlayer, 0, len(teamItem.Players)),
		}
		for _, playerItem := range uniformList(teamItem.Players) {
			if playerItem.UID == "" {
				continue
			}
			squad.Players = append(squad.Players, SquadPlayer{
				FeedID:    feedid.Normalize(playerItem.UID),
				Name:      strings.TrimSpace(playerItem.Name),
				FirstName: strings.TrimSpace(playerItem.FirstName),
				LastName:  strings.TrimSpace(playerItem.LastName),
				Position:  strings.TrimSpace(playerItem.Position),
				ShirtNo:   playerItem.ShirtNo,
			})
		}
		teams = append(teams, squad)
	}

	return teams, nil
}
