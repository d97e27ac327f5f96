package standingsdomain

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
)

// Tiebreaker keys accepted in a season's tiebreak order.
const (
	TiebreakHeadToHead = "head_to_head"
	TiebreakGoalDiff   = "goal_diff"
	TiebreakGoalGet    = "goal_get"
	TiebreakWins       = "wins"
)

// DefaultTiebreakOrder applies when a season does not configure one.
var DefaultTiebreakOrder = []string{TiebreakGoalDiff, TiebreakGoalGet}

var tiebreakFields = map[string]StatField{
	TiebreakGoalDiff: FieldGoalDiff,
	TiebreakGoalGet:  FieldGoalGet,
	TiebreakWins:     FieldWins,
}

// IsKnownTiebreaker reports whether key is understood by the sorter.
func IsKnownTiebreaker(key string) bool {
	if key == TiebreakHeadToHead {
		return true
	}
	_, ok := tiebreakFields[key]
	return ok
}

// SortKey selects the primary ordering field and the view it is read from.
type SortKey struct {
	Field StatField
	View  View
}

const displayPrefix = "disp_"

// ParseSortKey accepts the table's key names, e.g. "point" or "disp_avlbl_pt".
func ParseSortKey(s string) SortKey {
	if rest, ok := strings.CutPrefix(s, displayPrefix); ok {
		return SortKey{Field: StatField(rest), View: ViewDisplay}
	}
	return SortKey{Field: StatField(s), View: ViewLatest}
}

func (k SortKey) String() string {
	if k.View == ViewDisplay {
		return displayPrefix + string(k.Field)
	}
	return string(k.Field)
}

// Sorter orders a group's teams into a table.
type Sorter struct {
	logger *slog.Logger
}

// NewSorter creates a Sorter. A nil logger uses slog.Default().
func NewSorter(logger *slog.Logger) *Sorter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sorter{logger: logger}
}

// SortedTeamList orders g descending by key, then resolves ties with each
// tiebreaker of order in turn. Unknown tiebreakers are logged and skipped.
func (s *Sorter) SortedTeamList(g *Group, key SortKey, order []string) []string {
	if order == nil {
		order = DefaultTiebreakOrder
	}
	for _, tb := range order {
		if !IsKnownTiebreaker(tb) {
			s.logger.Warn("Unknown tiebreaker key, skipping", "tiebreaker", tb)
		}
	}

	value := func(name string) float64 {
		td, ok := g.Get(name)
		if !ok {
			return 0
		}
		return td.Stats(key.View).Value(key.Field)
	}
	// Maximum achievable points are always split by current points before any
	// configured tiebreaker runs.
	secondary := func(string) float64 { return 0 }
	if key.Field == FieldAvailablePoint {
		secondary = func(name string) float64 {
			td, ok := g.Get(name)
			if !ok {
				return 0
			}
			return td.Stats(key.View).Value(FieldPoint)
		}
	}

	names := g.Names()
	slices.SortStableFunc(names, func(a, b string) int {
		if c := cmp.Compare(value(b), value(a)); c != 0 {
			return c
		}
		return cmp.Compare(secondary(b), secondary(a))
	})

	groups := groupByEqual(names, func(name string) [2]float64 {
		return [2]float64{value(name), secondary(name)}
	})

	for _, tb := range order {
		next := make([][]string, 0, len(groups))
		for _, tied := range groups {
			if len(tied) <= 1 {
				next = append(next, tied)
				continue
			}
			next = append(next, applyTiebreaker(tied, tb, g, key.View)...)
		}
		groups = next
	}

	return slices.Concat(groups...)
}

// groupByEqual splits an already sorted list into runs sharing the same key.
func groupByEqual[K comparable](names []string, keyFn func(string) K) [][]string {
	var groups [][]string
	for i, name := range names {
		k := keyFn(name)
		if i == 0 || k != keyFn(names[i-1]) {
			groups = append(groups, []string{name})
			continue
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], name)
	}
	return groups
}

func applyTiebreaker(tied []string, tb string, g *Group, view View) [][]string {
	if tb == TiebreakHeadToHead {
		h2h := headToHead(tied, g, view)
		if h2h == nil {
			return [][]string{tied}
		}
		sorted := slices.Clone(tied)
		slices.SortStableFunc(sorted, func(a, b string) int {
			if c := cmp.Compare(h2h[b].points, h2h[a].points); c != 0 {
				return c
			}
			return cmp.Compare(h2h[b].goalDiff, h2h[a].goalDiff)
		})
		return groupByEqual(sorted, func(name string) h2hRecord { return h2h[name] })
	}

	field, ok := tiebreakFields[tb]
	if !ok {
		return [][]string{tied}
	}
	value := func(name string) float64 {
		td, ok := g.Get(name)
		if !ok {
			return 0
		}
		return td.Stats(view).Value(field)
	}
	sorted := slices.Clone(tied)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return cmp.Compare(value(b), value(a))
	})
	return groupByEqual(sorted, value)
}

type h2hRecord struct {
	points   int
	goalDiff int
}

// headToHead builds the mini-table of matches played among tied teams.
// It returns nil when any pair of tied teams has not met yet.
func headToHead(tied []string, g *Group, view View) map[string]h2hRecord {
	inGroup := make(map[string]bool, len(tied))
	for _, name := range tied {
		inGroup[name] = true
	}

	type pair struct{ a, b string }
	met := make(map[pair]bool)
	table := make(map[string]h2hRecord, len(tied))

	for _, name := range tied {
		td, ok := g.Get(name)
		if !ok {
			continue
		}
		rec := table[name]
		for i := range td.Matches {
			m := &td.Matches[i]
			if !inGroup[m.Opponent] || !m.HasResult || m.Status == StatusAbandoned {
				continue
			}
			if view == ViewDisplay && m.MatchDate > td.Cutoff {
				continue
			}
			p := pair{name, m.Opponent}
			if p.b < p.a {
				p.a, p.b = p.b, p.a
			}
			met[p] = true
			rec.points += m.Point
			rec.goalDiff += intOrZero(m.GoalGet) - intOrZero(m.GoalLose)
		}
		table[name] = rec
	}

	for i := range tied {
		for j := i + 1; j < len(tied); j++ {
			p := pair{tied[i], tied[j]}
			if p.b < p.a {
				p.a, p.b = p.b, p.a
			}
			if !met[p] {
				return nil
			}
		}
	}
	return table
}
