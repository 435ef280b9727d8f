package commentary

import "time"

// EventType classifies a commentary message.
type EventType string

const (
	EventGoal         EventType = "goal"
	EventOwnGoal      EventType = "own-goal"
	EventPenaltyGoal  EventType = "penalty-goal"
	EventCard         EventType = "card"
	EventSubstitution EventType = "substitution"
	EventPeriodStart  EventType = "period-start"
	EventPeriodEnd    EventType = "period-end"
	EventComment      EventType = "comment"
)

// CardKind distinguishes bookings inferred from provider qualifier codes.
type CardKind string

const (
	CardYellow       CardKind = "yellow"
	CardSecondYellow CardKind = "second-yellow"
	CardRed          CardKind = "red"
	// CardUnknown covers qualifier codes the table does not recognize; a
	// card with an unknown reason is safer than a misclassified one.
	CardUnknown CardKind = "unknown"
)

// Provider qualifier codes for bookings. The provider may extend this set;
// anything unlisted maps to CardUnknown.
var cardKindByQualifier = map[string]CardKind{
	"yellow":       CardYellow,
	"ycard":        CardYellow,
	"secondyellow": CardSecondYellow,
	"y2card":       CardSecondYellow,
	"red":          CardRed,
	"rcard":        CardRed,
	"straightred":  CardRed,
}

func CardKindFromQualifier(code string) CardKind {
	if kind, ok := cardKindByQualifier[code]; ok {
		return kind
	}
	return CardUnknown
}

// Event is one timestamped commentary message tied to a match.
type Event struct {
	MatchID   string
	TeamID    string
	PlayerID  string
	PlayerID2 string
	Type      EventType
	Card      CardKind
	Minute    *int
	Period    string
	Text      string
	PostedAt  time.Time
}

// LatestMinute returns the most recent minute mentioned in a list of events
// ordered newest-first by the feed. Absent when no event carries a minute.
func LatestMinute(events []Event) *int {
	for _, e := range events {
		if e.Minute != nil {
			minute := *e.Minute
			return &minute
		}
	}
	return nil
}
