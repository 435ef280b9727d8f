package match

import "time"

// Period is the canonical match status across all feeds.
type Period string

const (
	PeriodPreMatch        Period = "pre-match"
	PeriodFirstHalf       Period = "first-half"
	PeriodHalfTime        Period = "half-time"
	PeriodSecondHalf      Period = "second-half"
	PeriodExtraTimeFirst  Period = "extra-time-1"
	PeriodExtraTimeSecond Period = "extra-time-2"
	PeriodPenalties       Period = "penalties"
	PeriodFullTime        Period = "full-time"
	PeriodPostponed       Period = "postponed"
	PeriodCancelled       Period = "cancelled"
	PeriodAbandoned       Period = "abandoned"
)

// Match is one fixture in its normalized form. Team and match ids are
// prefix-stripped feed ids.
type Match struct {
	ID         string
	GroupID    string
	KickoffAt  time.Time
	Period     Period
	HomeTeamID string
	AwayTeamID string
	HomeScore  *int
	AwayScore  *int
	Venue      string
}

// IsLive reports whether the clock is running. Half-time and the shoot-out
// count as live for presentation but carry no meaningful minute.
func (p Period) IsLive() bool {
	switch p {
	case PeriodFirstHalf, PeriodSecondHalf, PeriodExtraTimeFirst, PeriodExtraTimeSecond:
		return true
	default:
		return false
	}
}

// HasStarted reports whether the match moved past pre-match into play.
func (p Period) HasStarted() bool {
	switch p {
	case PeriodPreMatch, PeriodPostponed, PeriodCancelled:
		return false
	default:
		return true
	}
}

// HasResult reports whether the score line counts toward records. Abandoned
// fixtures keep their score for display but never enter a table.
func (p Period) HasResult() bool {
	return p.HasStarted() && p != PeriodAbandoned
}

// EnsureScores enforces the score invariant: nil strictly while pre-match,
// non-nil (0-0 default) from kickoff onward.
func (m *Match) EnsureScores() {
	if !m.Period.HasStarted() {
		m.HomeScore = nil
		m.AwayScore = nil
		return
	}
	if m.HomeScore == nil {
		zero := 0
		m.HomeScore = &zero
	}
	if m.AwayScore == nil {
		zero := 0
		m.AwayScore = &zero
	}
}
