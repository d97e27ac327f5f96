package standingsdomain

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
)

func intPtr(v int) *int { return &v }

// fixture is a match from the neutral point of view; nil goals mean unplayed.
type fixture struct {
	home, away string
	hg, ag     *int
	hpk, apk   *int
	date       string
	section    int
	status     string
}

func played(home, away string, hg, ag int, date string) fixture {
	return fixture{home: home, away: away, hg: intPtr(hg), ag: intPtr(ag), date: date}
}

func unplayed(home, away, date string) fixture {
	return fixture{home: home, away: away, date: date}
}

func (f fixture) perspectives(ps PointSystem) (Match, Match) {
	hasResult := f.hg != nil && f.ag != nil
	home := Match{
		IsHome:    true,
		Opponent:  f.away,
		GoalGet:   f.hg,
		GoalLose:  f.ag,
		PKGet:     f.hpk,
		PKLose:    f.apk,
		HasResult: hasResult,
		Point:     ps.PointFromResult(f.hg, f.ag, f.hpk, f.apk),
		MatchDate: f.date,
		SectionNo: f.section,
		Status:    f.status,
	}
	away := Match{
		Opponent:  f.home,
		GoalGet:   f.ag,
		GoalLose:  f.hg,
		PKGet:     f.apk,
		PKLose:    f.hpk,
		HasResult: hasResult,
		Point:     ps.PointFromResult(f.ag, f.hg, f.apk, f.hpk),
		MatchDate: f.date,
		SectionNo: f.section,
		Status:    f.status,
	}
	return home, away
}

// buildGroup registers teams in order, adds both sides of every fixture and
// computes stats for cutoff.
func buildGroup(ps PointSystem, cutoff string, teams []string, fixtures ...fixture) *Group {
	g := NewGroup(teams...)
	for _, f := range fixtures {
		h, a := f.perspectives(ps)
		g.Ensure(f.home).Matches = append(g.Ensure(f.home).Matches, h)
		g.Ensure(f.away).Matches = append(g.Ensure(f.away).Matches, a)
	}
	CalculateGroupStats(g, cutoff, SortBySection, ps)
	return g
}

// teamSpec sets a team's stats directly, identically in both views.
type teamSpec struct {
	name      string
	point     int
	available int
	rest      map[string]int
}

func statsGroup(specs ...teamSpec) *Group {
	g := NewGroup()
	for _, s := range specs {
		stats := TeamStats{Point: s.point, AvailablePoint: s.available, RestGames: s.rest}
		g.Set(s.name, &TeamData{Latest: stats, Display: stats.clone()})
	}
	return g
}

// randomSeason builds a double round robin where each fixture is played with
// probability one half.
func randomSeason(seed uint64, teamCount int) ([]string, []fixture) {
	faker := gofakeit.New(seed)
	teams := make([]string, teamCount)
	for i := range teams {
		teams[i] = fmt.Sprintf("%s %d", faker.City(), i)
	}

	var fixtures []fixture
	section := 0
	for i := range teams {
		for j := range teams {
			if i == j {
				continue
			}
			section++
			date := fmt.Sprintf("2025/%02d/%02d", 2+section/28, 1+section%28)
			f := unplayed(teams[i], teams[j], date)
			f.section = section
			if faker.Bool() {
				f.hg = intPtr(faker.Number(0, 5))
				f.ag = intPtr(faker.Number(0, 5))
			}
			fixtures = append(fixtures, f)
		}
	}
	return teams, fixtures
}
