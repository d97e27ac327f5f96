package parsers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	standingsdomain "github.com/Black-And-White-Club/league-standings/app/modules/standings/domain"
)

// DefaultGroupName is used when neither the log nor the options name a group.
const DefaultGroupName = "DefaultGroup"

// Canonical column names of a match log.
const (
	colMatchDate   = "match_date"
	colSectionNo   = "section_no"
	colStartTime   = "start_time"
	colStadium     = "stadium"
	colHomeTeam    = "home_team"
	colHomeGoal    = "home_goal"
	colAwayGoal    = "away_goal"
	colAwayTeam    = "away_team"
	colStatus      = "status"
	colGroup       = "group"
	colHomePK      = "home_pk_score"
	colAwayPK      = "away_pk_score"
	colHomeScoreEx = "home_score_ex"
	colAwayScoreEx = "away_score_ex"
)

// columnAliases maps legacy column names to canonical ones. A canonical column
// present in the same header wins over its alias.
var columnAliases = map[string]string{
	"match_status": colStatus,
	"home_pk":      colHomePK,
	"away_pk":      colAwayPK,
}

var requiredColumns = []string{colHomeTeam, colAwayTeam}

const (
	statusFinished   = "試合終了"
	statusNotStarted = "開始前"
	statusVersus     = "ＶＳ"
	statusLive       = "速報中"
)

var dateLayouts = []string{"2006/1/2", "2006-1-2"}

// header resolves canonical column names to indexes.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	for alias, canonical := range columnAliases {
		idx, ok := h[alias]
		if !ok {
			continue
		}
		if _, exists := h[canonical]; !exists {
			h[canonical] = idx
		}
	}
	return h
}

func (h header) has(col string) bool {
	_, ok := h[col]
	return ok
}

func (h header) cell(row []string, col string) string {
	idx, ok := h[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// buildTeamMap converts a header row plus data rows into a TeamMap with both
// perspectives of every match.
func buildTeamMap(records [][]string, opts Options) (*standingsdomain.TeamMap, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("match log is empty")
	}
	h := newHeader(records[0])
	for _, col := range requiredColumns {
		if !h.has(col) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	defaultGroup := opts.DefaultGroup
	if defaultGroup == "" || defaultGroup == "null" {
		defaultGroup = DefaultGroupName
	}
	hasGroupColumn := h.has(colGroup)
	hasStatusColumn := h.has(colStatus)

	teams := make([]string, len(opts.Teams))
	for i, name := range opts.Teams {
		teams[i] = rename(name, opts.TeamRenameMap)
	}

	teamMap := standingsdomain.NewTeamMap()
	for i, row := range records[1:] {
		if isBlank(row) {
			continue
		}
		homeTeam := rename(h.cell(row, colHomeTeam), opts.TeamRenameMap)
		awayTeam := rename(h.cell(row, colAwayTeam), opts.TeamRenameMap)
		if homeTeam == "" || awayTeam == "" {
			return nil, fmt.Errorf("row %d: home and away team are required", i+2)
		}

		group := defaultGroup
		if hasGroupColumn {
			group = h.cell(row, colGroup)
			if group == "" {
				group = DefaultGroupName
			}
		}
		g := teamMap.Group(group, teams...)

		homeGoalRaw, awayGoalRaw := h.cell(row, colHomeGoal), h.cell(row, colAwayGoal)
		homeGoal, awayGoal := parseOptionalInt(homeGoalRaw), parseOptionalInt(awayGoalRaw)
		homePK, awayPK := parseOptionalInt(h.cell(row, colHomePK)), parseOptionalInt(h.cell(row, colAwayPK))
		homeEx, awayEx := parseOptionalInt(h.cell(row, colHomeScoreEx)), parseOptionalInt(h.cell(row, colAwayScoreEx))

		rawStatus := h.cell(row, colStatus)
		status := matchStatus(rawStatus, hasStatusColumn, homeGoalRaw != "" && awayGoalRaw != "")
		live := strings.Contains(rawStatus, statusLive)

		sectionNo, _ := strconv.Atoi(h.cell(row, colSectionNo))
		common := standingsdomain.Match{
			HasResult: homeGoal != nil && awayGoal != nil,
			MatchDate: normalizeDate(h.cell(row, colMatchDate)),
			SectionNo: sectionNo,
			Stadium:   h.cell(row, colStadium),
			StartTime: h.cell(row, colStartTime),
			Status:    status,
			Live:      live,
		}

		home := common
		home.IsHome = true
		home.Opponent = awayTeam
		home.GoalGet, home.GoalLose = homeGoal, awayGoal
		home.PKGet, home.PKLose = homePK, awayPK
		home.ScoreExGet, home.ScoreExLose = homeEx, awayEx
		home.Point = opts.PointSystem.PointFromResult(homeGoal, awayGoal, homePK, awayPK)

		away := common
		away.Opponent = homeTeam
		away.GoalGet, away.GoalLose = awayGoal, homeGoal
		away.PKGet, away.PKLose = awayPK, homePK
		away.ScoreExGet, away.ScoreExLose = awayEx, homeEx
		away.Point = opts.PointSystem.PointFromResult(awayGoal, homeGoal, awayPK, homePK)

		ht := g.Ensure(homeTeam)
		ht.Matches = append(ht.Matches, home)
		at := g.Ensure(awayTeam)
		at.Matches = append(at.Matches, away)
	}
	return teamMap, nil
}

// matchStatus derives the display status of a row.
func matchStatus(raw string, hasColumn, bothGoals bool) string {
	if !hasColumn {
		if bothGoals {
			return statusFinished
		}
		return ""
	}
	if raw == statusVersus {
		return statusNotStarted
	}
	return strings.ReplaceAll(raw, statusLive, "")
}

// normalizeDate rewrites recognised dates as YYYY/MM/DD and returns anything
// else unchanged.
func normalizeDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006/01/02")
		}
	}
	return s
}

func parseOptionalInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func rename(name string, renames map[string]string) string {
	if to, ok := renames[name]; ok {
		return to
	}
	return name
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
