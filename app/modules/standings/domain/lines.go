package standingsdomain

import (
	"cmp"
	"slices"
)

type lineEntry struct {
	name      string
	point     int
	available int
	rest      map[string]int
}

func lineEntries(g *Group, view View, exclude string) []lineEntry {
	entries := make([]lineEntry, 0, g.Len())
	for _, name := range g.names {
		if name == exclude {
			continue
		}
		s := g.teams[name].Stats(view)
		entries = append(entries, lineEntry{
			name:      name,
			point:     s.Point,
			available: s.AvailablePoint,
			rest:      s.RestGames,
		})
	}
	return entries
}

func sortByAvailable(entries []lineEntry) {
	slices.SortStableFunc(entries, func(a, b lineEntry) int { return cmp.Compare(b.available, a.available) })
}

func sortByPoint(entries []lineEntry) {
	slices.SortStableFunc(entries, func(a, b lineEntry) int { return cmp.Compare(b.point, a.point) })
}

// SafetyLine returns the points that guarantee finishing at rank (1-based) or
// better: one more than the maximum achievable points of the team at 0-based
// index rank. It is 0 when there is no such team.
func SafetyLine(rank int, view View, g *Group) int {
	entries := lineEntries(g, view, "")
	if rank < 0 || rank >= len(entries) {
		return 0
	}
	sortByAvailable(entries)
	return entries[rank].available + 1
}

// PossibleLine returns the current points of the team at rank (1-based).
// A team whose maximum achievable points fall below it can no longer reach rank.
func PossibleLine(rank int, view View, g *Group) int {
	entries := lineEntries(g, view, "")
	if rank <= 0 || rank > len(entries) {
		return 0
	}
	sortByPoint(entries)
	return entries[rank-1].point
}

// SelfPossibleLine returns the maximum achievable points of the rival at rank
// (1-based) among the other teams, after teamName wins every remaining match
// against them.
//
// Rivals are ordered by their maximum achievable points before those points are
// reduced, and the value is read from that order afterwards, so the entry read
// may no longer be the rank-th strongest rival.
func SelfPossibleLine(rank int, teamName string, view View, g *Group, ps PointSystem) int {
	entries := lineEntries(g, view, teamName)
	sortByAvailable(entries)

	idx := rank - 1
	if idx < 0 || idx >= len(entries) {
		return 0
	}

	var rest map[string]int
	if td, ok := g.Get(teamName); ok {
		rest = td.Stats(view).RestGames
	}
	winPt := ps.WinValue()
	for i := range entries {
		entries[i].available -= rest[entries[i].name] * winPt
	}
	return entries[idx].available
}
