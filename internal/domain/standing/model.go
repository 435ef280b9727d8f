package standing

// Rules configures how results convert to points.
type Rules struct {
	WinPoints  int
	DrawPoints int
	LossPoints int
}

func DefaultRules() Rules {
	return Rules{WinPoints: 3, DrawPoints: 1, LossPoints: 0}
}

// TeamRecord is derived transiently from a match list; the raw match list
// stays authoritative and records are recomputed on every request.
type TeamRecord struct {
	TeamID       string
	Name         string
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	Points       int
}

func (r TeamRecord) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

// Row is one line of a ranked group table. Official marks a position taken
// from the standings feed; record fields always come from the local
// computation, which tracks the fixtures feed minute by minute.
type Row struct {
	TeamRecord
	Position int
	Official bool
}

type GroupStanding struct {
	GroupID string
	Rows    []Row
}

// OfficialRow is a position as the upstream standings feed reports it. The
// feed reflects official state but can lag a live matchday.
type OfficialRow struct {
	TeamID   string
	Position int
	Played   int
	Won      int
	Drawn    int
	Lost     int
	Points   int
}
