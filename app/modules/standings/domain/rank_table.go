package standingsdomain

// Qualification is the outcome label shown for one team and one target rank.
type Qualification string

const (
	QualConfirmed  Qualification = "確定"
	QualSelf       Qualification = "自力"
	QualDependent  Qualification = "他力"
	QualImpossible Qualification = "なし"
	QualRelegated  Qualification = "降格"
)

// RankRow is one line of the ranking table.
type RankRow struct {
	Rank           int           `json:"rank"`
	Name           string        `json:"name"`
	Win            int           `json:"win"`
	PKWin          int           `json:"pk_win"`
	PKLoss         int           `json:"pk_loss"`
	Draw           int           `json:"draw"`
	Loss           int           `json:"lose"`
	Point          int           `json:"point"`
	AvailablePoint int           `json:"avlbl_pt"`
	AveragePoint   float64       `json:"avrg_pt"`
	AllGame        int           `json:"all_game"`
	GoalGet        int           `json:"goal_get"`
	GoalLose       int           `json:"goal_lose"`
	GoalDiff       int           `json:"goal_diff"`
	FutureGame     int           `json:"future_game"`
	Champion       Qualification `json:"champion"`
	Promotion      Qualification `json:"promotion,omitempty"`
	Relegation     Qualification `json:"relegation,omitempty"`
}

// targetLines holds the thresholds for one rank event, computed once per table.
type targetLines struct {
	rank     int
	safety   int
	possible int
	// miss is the label for a team that cannot reach rank.
	miss Qualification
}

func newTargetLines(rank int, view View, g *Group, miss Qualification) targetLines {
	return targetLines{
		rank:     rank,
		safety:   SafetyLine(rank, view, g),
		possible: PossibleLine(rank, view, g),
		miss:     miss,
	}
}

func (t targetLines) classify(teamName string, s *TeamStats, view View, g *Group, ps PointSystem) Qualification {
	if s.Point >= t.safety {
		return QualConfirmed
	}
	if s.AvailablePoint < t.possible {
		return t.miss
	}
	if s.AvailablePoint >= SelfPossibleLine(t.rank, teamName, view, g, ps) {
		return QualSelf
	}
	return QualDependent
}

func (t targetLines) finished(rank int) Qualification {
	if rank <= t.rank {
		return QualConfirmed
	}
	return t.miss
}

// SeasonFinished reports whether no team has a remaining fixture in view.
func SeasonFinished(g *Group, view View) bool {
	for _, name := range g.names {
		if len(g.teams[name].Stats(view).RestGames) > 0 {
			return false
		}
	}
	return true
}

// MakeRankData builds the table rows for sortedNames in order, labelling each
// team's champion, promotion and relegation prospects for view.
//
// Promotion is omitted when the season has no promotion slots. Relegation is
// omitted for a finished season without relegation slots and confirmed for
// every team while such a season is in progress.
func MakeRankData(g *Group, sortedNames []string, season SeasonInfo, view View) []RankRow {
	ps := season.PointSystem
	safetyRank := season.TeamCount - season.RelegationCount

	champion := newTargetLines(1, view, g, QualImpossible)
	var promotion, safety targetLines
	if season.PromotionCount > 0 {
		promotion = newTargetLines(season.PromotionCount, view, g, QualImpossible)
	}
	if season.RelegationCount > 0 {
		safety = newTargetLines(safetyRank, view, g, QualRelegated)
	}

	// Judged on this view's remaining fixtures, not always the latest view's.
	finished := SeasonFinished(g, view)
	rows := make([]RankRow, 0, len(sortedNames))

	for i, name := range sortedNames {
		rank := i + 1
		td, ok := g.Get(name)
		if !ok {
			td = &TeamData{}
		}
		s := td.Stats(view)

		row := RankRow{
			Rank:           rank,
			Name:           name,
			Win:            s.Results.Win,
			PKWin:          s.Results.PKWin,
			PKLoss:         s.Results.PKLoss,
			Draw:           s.Results.Draw,
			Loss:           s.Results.Loss,
			Point:          s.Point,
			AvailablePoint: s.AvailablePoint,
			AveragePoint:   s.AveragePoint,
			AllGame:        s.AllGame,
			GoalGet:        s.GoalGet,
			GoalLose:       s.GoalLose(),
			GoalDiff:       s.GoalDiff,
			FutureGame:     len(td.Matches) - s.AllGame,
		}

		if finished {
			row.Champion = champion.finished(rank)
			if season.PromotionCount > 0 {
				row.Promotion = promotion.finished(rank)
			}
			if season.RelegationCount > 0 {
				row.Relegation = safety.finished(rank)
			}
		} else {
			row.Champion = champion.classify(name, s, view, g, ps)
			if season.PromotionCount > 0 {
				row.Promotion = promotion.classify(name, s, view, g, ps)
			}
			if season.RelegationCount > 0 {
				row.Relegation = safety.classify(name, s, view, g, ps)
			} else {
				row.Relegation = QualConfirmed
			}
		}

		rows = append(rows, row)
	}
	return rows
}
