package statsfeed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sportserve/matchcenter/internal/domain/commentary"
	"github.com/sportserve/matchcenter/internal/domain/snapshot"
	"github.com/sportserve/matchcenter/internal/platform/feedid"
)

var eventTypeByCode = map[string]commentary.EventType{
	"goal":         commentary.EventGoal,
	"own goal":     commentary.EventOwnGoal,
	"penalty goal": commentary.EventPenaltyGoal,
	"card":         commentary.EventCard,
	"substitution": commentary.EventSubstitution,
	"start":        commentary.EventPeriodStart,
	"end":          commentary.EventPeriodEnd,
}

// Commentary fetches the live commentary feed for one match. Messages arrive
// newest-first and keep that order.
func (c *Client) Commentary(ctx context.Context, matchID string) ([]commentary.Event, error) {
	if strings.TrimSpace(matchID) == "" {
		return nil, fmt.Errorf("match id is required")
	}

	path := fmt.Sprintf("/match/%s/commentary", url.PathEscape(matchID))

	raw, err := c.doFeed(ctx, FeedCommentary, path, url.Values{}, c.ttls.Commentary, snapshot.Payload{
		MatchID: matchID,
	})
	if err != nil {
		return nil, err
	}

	var feed commentaryFeed
	if err := decodeFeed(FeedCommentary, raw, &feed); err != nil {
		return nil, err
	}

	normalizedMatchID := feedid.Normalize(firstNonEmpty(feed.MatchRef, matchID))
	events := make([]commentary.Event, 0, len(feed.Messages))
	for _, msg := range uniformList(feed.Messages) {
		event := commentary.Event{
			MatchID:   normalizedMatchID,
			TeamID:    feedid.Normalize(msg.TeamRef),
			PlayerID:  feedid.Normalize(msg.PlayerRef1),
			PlayerID2: feedid.Normalize(msg.PlayerRef2),
			Type:      mapEventType(msg.Type),
			Minute:    msg.Minute,
			Period:    strings.TrimSpace(msg.Period),
			Text:      strings.TrimSpace(msg.Text),
			PostedAt:  parseFeedTime(msg.Time),
		}
		if event.Type == commentary.EventCard {
			event.Card = commentary.CardKindFromQualifier(strings.ToLower(strings.TrimSpace(msg.Qualifier)))
		}
		events = append(events, event)
	}

	return events, nil
}

func mapEventType(code string) commentary.EventType {
	if t, ok := eventTypeByCode[strings.ToLower(strings.TrimSpace(code))]; ok {
		return t
	}
	return commentary.EventComment
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
