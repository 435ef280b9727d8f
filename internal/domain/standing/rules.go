package standing

import (
	"sort"

	"github.com/sportserve/matchcenter/internal/domain/match"
)

// ComputeRecords folds a match list into per-team records for one group.
// Fixtures outside the group, fixtures that have not kicked off, and
// abandoned fixtures are skipped. A team with no qualifying match simply has
// no entry; zeroed records are not an error.
func ComputeRecords(matches []match.Match, groupID string, rules Rules) map[string]TeamRecord {
	records := make(map[string]TeamRecord)

	for _, m := range matches {
		if m.GroupID != groupID || !m.Period.HasResult() {
			continue
		}
		m.EnsureScores()
		home, away := *m.HomeScore, *m.AwayScore

		applyResult(records, m.HomeTeamID, home, away, rules)
		applyResult(records, m.AwayTeamID, away, home, rules)
	}

	return records
}

func applyResult(records map[string]TeamRecord, teamID string, scored, conceded int, rules Rules) {
	if teamID == "" {
		return
	}
	rec := records[teamID]
	rec.TeamID = teamID
	rec.Played++
	rec.GoalsFor += scored
	rec.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		rec.Won++
		rec.Points += rules.WinPoints
	case scored < conceded:
		rec.Lost++
		rec.Points += rules.LossPoints
	default:
		rec.Drawn++
		rec.Points += rules.DrawPoints
	}
	records[teamID] = rec
}

// Rank orders records into table rows. Ties break by goal difference, then
// goals for, then name; that is the only deterministic total order available
// without head-to-head data.
func Rank(records map[string]TeamRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row{TeamRecord: rec})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.TeamID < b.TeamID
	})

	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows
}

// BuildGroup assembles one group table. Record fields are computed locally;
// when the standings feed covers a team its reported position wins for
// display, with the computed rank as fallback for phases the feed does not
// cover.
func BuildGroup(groupID string, matches []match.Match, official []OfficialRow, names map[string]string, rules Rules) GroupStanding {
	records := ComputeRecords(matches, groupID, rules)

	for id, rec := range records {
		if name, ok := names[id]; ok {
			rec.Name = name
			records[id] = rec
		}
	}

	rows := Rank(records)

	officialByTeam := make(map[string]OfficialRow, len(official))
	for _, row := range official {
		officialByTeam[row.TeamID] = row
	}
	for i := range rows {
		if feedRow, ok := officialByTeam[rows[i].TeamID]; ok && feedRow.Position > 0 {
			rows[i].Position = feedRow.Position
			rows[i].Official = true
			delete(officialByTeam, rows[i].TeamID)
		}
	}

	// The standings feed covers phases the fixtures feed may have no
	// qualifying matches for. A team the feed ranks but the computation
	// never saw still gets a row, built from the feed's own record.
	for _, feedRow := range officialByTeam {
		if feedRow.Position <= 0 {
			continue
		}
		rec := TeamRecord{
			TeamID: feedRow.TeamID,
			Played: feedRow.Played,
			Won:    feedRow.Won,
			Drawn:  feedRow.Drawn,
			Lost:   feedRow.Lost,
			Points: feedRow.Points,
		}
		if name, ok := names[feedRow.TeamID]; ok {
			rec.Name = name
		}
		rows = append(rows, Row{TeamRecord: rec, Position: feedRow.Position, Official: true})
	}

	if len(official) > 0 {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	}

	return GroupStanding{GroupID: groupID, Rows: rows}
}
