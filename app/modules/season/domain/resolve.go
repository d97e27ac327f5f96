package seasondomain

import (
	"fmt"
	"maps"
	"slices"

	standingsdomain "github.com/Black-And-White-Club/league-standings/app/modules/standings/domain"
)

// DefaultSeasonStartMonth applies when no level of the map sets one.
const DefaultSeasonStartMonth = 7

// ResolveSeasonInfo looks up a season and resolves it into a SeasonInfo.
func (m SeasonMap) ResolveSeasonInfo(groupKey, competitionKey, season string) (standingsdomain.SeasonInfo, error) {
	group, comp, entry, err := m.Entry(groupKey, competitionKey, season)
	if err != nil {
		return standingsdomain.SeasonInfo{}, err
	}
	info, err := Resolve(groupKey, group, comp, entry)
	if err != nil {
		return standingsdomain.SeasonInfo{}, fmt.Errorf("%s/%s/%s: %w", groupKey, competitionKey, season, err)
	}
	return info, nil
}

// Resolve cascades options season > competition > group > default.
// CSS files accumulate across the levels without duplicates and the team
// rename map is the competition's overlaid with the season's.
func Resolve(groupKey string, group GroupEntry, comp CompetitionEntry, entry SeasonEntry) (standingsdomain.SeasonInfo, error) {
	opts := entry.Options

	ps, err := standingsdomain.PointSystemByName(firstNonEmpty(opts.PointSystem, comp.PointSystem))
	if err != nil {
		return standingsdomain.SeasonInfo{}, err
	}

	var css []string
	for _, files := range [][]string{group.CSSFiles, comp.CSSFiles, opts.CSSFiles} {
		for _, f := range files {
			if !slices.Contains(css, f) {
				css = append(css, f)
			}
		}
	}

	rename := make(map[string]string, len(comp.TeamRenameMap)+len(opts.TeamRenameMap))
	maps.Copy(rename, comp.TeamRenameMap)
	maps.Copy(rename, opts.TeamRenameMap)

	tiebreak := standingsdomain.DefaultTiebreakOrder
	if comp.TiebreakOrder != nil {
		tiebreak = comp.TiebreakOrder
	}
	if opts.TiebreakOrder != nil {
		tiebreak = opts.TiebreakOrder
	}

	rankClass := make(map[string]string, len(opts.RankProperties))
	maps.Copy(rankClass, opts.RankProperties)

	return standingsdomain.SeasonInfo{
		TeamCount:        entry.TeamCount,
		PromotionCount:   entry.PromotionCount,
		RelegationCount:  entry.RelegationCount,
		Teams:            slices.Clone(entry.Teams),
		RankClass:        rankClass,
		GroupDisplay:     opts.GroupDisplay,
		URLCategory:      opts.URLCategory,
		LeagueDisplay:    firstNonEmpty(opts.LeagueDisplay, comp.LeagueDisplay, group.DisplayName, groupKey),
		PointSystem:      ps,
		CSSFiles:         css,
		TeamRenameMap:    rename,
		TiebreakOrder:    slices.Clone(tiebreak),
		SeasonStartMonth: firstNonZero(opts.SeasonStartMonth, comp.SeasonStartMonth, group.SeasonStartMonth, DefaultSeasonStartMonth),
	}, nil
}

// StartMonth resolves only the season start month for a competition, used to
// pick the current season before a season key is known.
func (m SeasonMap) StartMonth(groupKey, competitionKey string) int {
	group := m[groupKey]
	comp := group.Competitions[competitionKey]
	return firstNonZero(comp.SeasonStartMonth, group.SeasonStartMonth, DefaultSeasonStartMonth)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
