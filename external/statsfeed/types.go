package statsfeed

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/sportserve/matchcenter/internal/domain/match"
)

// Feed kinds, used for cache keys, snapshot rows and logging.
const (
	FeedFixtures    = "fixtures"
	FeedStandings   = "standings"
	FeedMatchDetail = "match-detail"
	FeedCommentary  = "commentary"
	FeedSeasonStats = "season-stats"
	FeedSquads      = "squads"
)

// TeamInfo is a team as the feed names it, before CMS resolution.
type TeamInfo struct {
	FeedID string
	Name   string
	Short  string
}

// MatchDetail is the detail feed's view of one fixture.
type MatchDetail struct {
	Match    match.Match
	Teams    []TeamInfo
	Duration string
}

// SeasonStats is a loose bag of season aggregates for one team; the provider
// adds and removes stat names without versioning, so the shape stays open.
type SeasonStats struct {
	TeamID        string
	CompetitionID string
	SeasonID      string
	Values        map[string]string
}

// SquadTeam is one club with its registered players for a season.
type SquadTeam struct {
	Team    TeamInfo
	Players []SquadPlayer
}

type SquadPlayer struct {
	FeedID    string
	Name      string
	FirstName string
	LastName  string
	Position  string
	ShirtNo   int
}

// uniformList is the cross-cutting list-normalization contract: whether the
// source collapsed a collection to nothing, one element or many, callers
// always see a non-nil list. Every parse boundary goes through it instead of
// scattering nil checks into business logic.
func uniformList[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

var periodByFeedCode = map[string]match.Period{
	"PreMatch":        match.PeriodPreMatch,
	"FirstHalf":       match.PeriodFirstHalf,
	"HalfTime":        match.PeriodHalfTime,
	"SecondHalf":      match.PeriodSecondHalf,
	"ExtraFirstHalf":  match.PeriodExtraTimeFirst,
	"ExtraSecondHalf": match.PeriodExtraTimeSecond,
	"ShootOut":        match.PeriodPenalties,
	"FullTime":        match.PeriodFullTime,
	"Postponed":       match.PeriodPostponed,
	"Cancelled":       match.PeriodCancelled,
	"Abandoned":       match.PeriodAbandoned,
}

// mapPeriod translates a provider period code. Unknown codes fall back to
// pre-match, which keeps the score invariant on the safe side.
func mapPeriod(code string) match.Period {
	if p, ok := periodByFeedCode[strings.TrimSpace(code)]; ok {
		return p
	}
	return match.PeriodPreMatch
}

const feedTimeLayout = "2006-01-02T15:04:05Z07:00"

func parseFeedTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(feedTimeLayout, value); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

// XML envelopes. Score attributes decode into pointers so an absent score
// stays distinguishable from 0-0.

type fixturesFeed struct {
	XMLName     xml.Name        `xml:"SportsFeed"`
	TimeStamp   string          `xml:"TimeStamp,attr"`
	Competition competitionElem `xml:"Competition"`
}

type competitionElem struct {
	UID      string          `xml:"uID,attr"`
	SeasonID string          `xml:"SeasonID,attr"`
	Matches  []matchDataElem `xml:"MatchData"`
	Teams    []teamElem      `xml:"Team"`
}

type matchDataElem struct {
	UID       string         `xml:"uID,attr"`
	Period    string         `xml:"Period,attr"`
	GroupName string         `xml:"GroupName,attr"`
	Venue     string         `xml:"Venue,attr"`
	Info      matchInfoElem  `xml:"MatchInfo"`
	TeamData  []teamDataElem `xml:"TeamData"`
}

type matchInfoElem struct {
	Date        string `xml:"Date,attr"`
	RoundNumber string `xml:"RoundNumber,attr"`
	Duration    string `xml:"Duration,attr"`
}

type teamDataElem struct {
	Side    string `xml:"Side,attr"`
	TeamRef string `xml:"TeamRef,attr"`
	Score   *int   `xml:"Score,attr"`
}

type teamElem struct {
	UID   string `xml:"uID,attr"`
	Name  string `xml:"Name"`
	Short string `xml:"ShortName"`
}

type matchFeed struct {
	XMLName   xml.Name      `xml:"SportsFeed"`
	MatchData matchDataElem `xml:"MatchData"`
	Teams     []teamElem    `xml:"Team"`
}

type standingsFeed struct {
	XMLName     xml.Name           `xml:"SportsFeed"`
	Competition standingsCompoElem `xml:"Competition"`
}

type standingsCompoElem struct {
	UID    string               `xml:"uID,attr"`
	Tables []teamStandingsElems `xml:"TeamStandings"`
	Teams  []teamElem           `xml:"Team"`
}

type teamStandingsElems struct {
	Group   string           `xml:"Group,attr"`
	Records []teamRecordElem `xml:"TeamRecord"`
}

type teamRecordElem struct {
	TeamRef  string `xml:"TeamRef,attr"`
	Position int    `xml:"Position,attr"`
	Played   int    `xml:"Played,attr"`
	Won      int    `xml:"Won,attr"`
	Drawn    int    `xml:"Drawn,attr"`
	Lost     int    `xml:"Lost,attr"`
	For      int    `xml:"For,attr"`
	Against  int    `xml:"Against,attr"`
	Points   int    `xml:"Points,attr"`
}

type commentaryFeed struct {
	XMLName  xml.Name      `xml:"Commentary"`
	MatchRef string        `xml:"matchRef,attr"`
	Messages []messageElem `xml:"Message"`
}

type messageElem struct {
	ID         string `xml:"id,attr"`
	Time       string `xml:"time,attr"`
	Type       string `xml:"type,attr"`
	Period     string `xml:"period,attr"`
	Minute     *int   `xml:"minute,attr"`
	TeamRef    string `xml:"teamRef,attr"`
	PlayerRef1 string `xml:"playerRef1,attr"`
	PlayerRef2 string `xml:"playerRef2,attr"`
	Qualifier  string `xml:"qualifier,attr"`
	Text       string `xml:",chardata"`
}

type seasonStatsFeed struct {
	XMLName        xml.Name   `xml:"SeasonStats"`
	TeamRef        string     `xml:"TeamRef,attr"`
	CompetitionRef string     `xml:"CompetitionRef,attr"`
	Season         string     `xml:"Season,attr"`
	Stats          []statElem `xml:"Stat"`
}

type statElem struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type squadFeed struct {
	XMLName xml.Name        `xml:"SquadFeed"`
	Teams   []squadTeamElem `xml:"Team"`
}

type squadTeamElem struct {
	UID     string            `xml:"uID,attr"`
	Name    string            `xml:"Name"`
	Short   string            `xml:"ShortName"`
	Players []squadPlayerElem `xml:"Player"`
}

type squadPlayerElem struct {
	UID       string `xml:"uID,attr"`
	ShirtNo   int    `xml:"shirtNumber,attr"`
	Position  string `xml:"position,attr"`
	Name      string `xml:"Name"`
	FirstName string `xml:"FirstName"`
	LastName  string `xml:"LastName"`
}
