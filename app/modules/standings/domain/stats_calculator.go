package standingsdomain

import (
	"cmp"
	"regexp"
	"slices"
)

// MatchSortKey is the axis matches are ordered by within a priority band.
type MatchSortKey string

const (
	SortBySection MatchSortKey = "section_no"
	SortByDate    MatchSortKey = "match_date"
)

var trailingMonthDay = regexp.MustCompile(`\d\d/\d\d$`)

func isDateLike(s string) bool { return trailingMonthDay.MatchString(s) }

// matchPriority bands matches for display: 0 completed, 1 undecided but due
// (postponed), 2 genuinely upcoming.
func matchPriority(m *Match, cutoff string) int {
	if m.HasResult {
		return 0
	}
	if m.MatchDate != "" && isDateLike(m.MatchDate) && m.MatchDate <= cutoff {
		return 1
	}
	return 2
}

func compareMatches(a, b *Match, cutoff string, key MatchSortKey) int {
	if c := cmp.Compare(matchPriority(a, cutoff), matchPriority(b, cutoff)); c != 0 {
		return c
	}
	if key == SortBySection {
		return cmp.Compare(a.SectionNo, b.SectionNo)
	}
	aOK, bOK := isDateLike(a.MatchDate), isDateLike(b.MatchDate)
	switch {
	case !aOK && !bOK:
		return 0
	case !aOK:
		return 1
	case !bOK:
		return -1
	}
	return cmp.Compare(a.MatchDate, b.MatchDate)
}

// SortTeamMatches reorders td.Matches in place into display order.
func SortTeamMatches(td *TeamData, cutoff string, key MatchSortKey) {
	slices.SortStableFunc(td.Matches, func(a, b Match) int {
		return compareMatches(&a, &b, cutoff, key)
	})
}

// CalculateTeamStats recomputes both views of td from scratch.
//
// td.Matches is reordered in place; callers holding a shared match list must
// Clone first. Matches dated after cutoff count as undecided in the display view.
func CalculateTeamStats(td *TeamData, cutoff string, key MatchSortKey, ps PointSystem) {
	maxPt := ps.WinValue()
	td.Latest = TeamStats{RestGames: make(map[string]int)}
	td.Display = TeamStats{RestGames: make(map[string]int)}
	td.Cutoff = cutoff

	SortTeamMatches(td, cutoff, key)

	for i := range td.Matches {
		m := &td.Matches[i]
		if m.Status == StatusAbandoned {
			continue
		}
		if !m.HasResult {
			td.Latest.addUnplayed(m.Opponent, maxPt)
			td.Display.addUnplayed(m.Opponent, maxPt)
			continue
		}

		result := ClassifyResult(m.Point, m.PKGet, m.PKLose, ps)
		goalGet, goalLose := intOrZero(m.GoalGet), intOrZero(m.GoalLose)
		td.Latest.recordMatch(result, goalGet, goalLose, m.Point)

		if m.MatchDate <= cutoff {
			td.Display.recordMatch(result, goalGet, goalLose, m.Point)
		} else {
			td.Display.addUnplayed(m.Opponent, maxPt)
		}
	}

	td.Latest.finalize()
	td.Display.finalize()
}

// CalculateGroupStats runs CalculateTeamStats for every team in g.
func CalculateGroupStats(g *Group, cutoff string, key MatchSortKey, ps PointSystem) {
	for _, name := range g.names {
		CalculateTeamStats(g.teams[name], cutoff, key, ps)
	}
}

// LatestResultDate is the latest dated completed match in g, or "" when no
// match has a dated result. As a cutoff it makes the display view match the
// latest view while keeping fixtures after it in the upcoming band.
func LatestResultDate(g *Group) string {
	var latest string
	for _, name := range g.names {
		for _, m := range g.teams[name].Matches {
			if !m.HasResult || m.Status == StatusAbandoned || !isDateLike(m.MatchDate) {
				continue
			}
			latest = max(latest, m.MatchDate)
		}
	}
	return latest
}
