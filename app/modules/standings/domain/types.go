package standingsdomain

import "slices"

// StatusAbandoned marks a match that was called off; it counts for neither view.
const StatusAbandoned = "試合中止"

// Match is one fixture seen from a single team's side.
// Nil goal pointers mean the match has not been played.
type Match struct {
	IsHome      bool
	Opponent    string
	GoalGet     *int
	GoalLose    *int
	PKGet       *int
	PKLose      *int
	ScoreExGet  *int
	ScoreExLose *int
	HasResult   bool
	Point       int
	MatchDate   string // YYYY/MM/DD
	SectionNo   int
	Stadium     string
	StartTime   string
	Status      string
	Live        bool
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// ResultCounts tallies completed matches per result class.
type ResultCounts struct {
	Win    int `json:"win"`
	PKWin  int `json:"pk_win"`
	PKLoss int `json:"pk_loss"`
	Draw   int `json:"draw"`
	Loss   int `json:"loss"`
}

func (c *ResultCounts) add(r MatchResult) {
	switch r {
	case ResultWin:
		c.Win++
	case ResultPKWin:
		c.PKWin++
	case ResultPKLoss:
		c.PKLoss++
	case ResultDraw:
		c.Draw++
	default:
		c.Loss++
	}
}

// TeamStats is one aggregate view (latest or display) of a team's season.
type TeamStats struct {
	Point          int            `json:"point"`
	AvailablePoint int            `json:"avlbl_pt"`
	GoalDiff       int            `json:"goal_diff"`
	GoalGet        int            `json:"goal_get"`
	AllGame        int            `json:"all_game"`
	AveragePoint   float64        `json:"avrg_pt"`
	Results        ResultCounts   `json:"results"`
	RestGames      map[string]int `json:"rest_games"`
}

// GoalLose is derived rather than stored.
func (s *TeamStats) GoalLose() int { return s.GoalGet - s.GoalDiff }

// RestGameCount sums the remaining fixtures over all opponents.
func (s *TeamStats) RestGameCount() int {
	n := 0
	for _, c := range s.RestGames {
		n += c
	}
	return n
}

func (s *TeamStats) recordMatch(result MatchResult, goalGet, goalLose, point int) {
	s.Point += point
	s.AvailablePoint += point
	s.AllGame++
	s.GoalDiff += goalGet - goalLose
	s.GoalGet += goalGet
	s.Results.add(result)
}

func (s *TeamStats) addUnplayed(opponent string, maxPt int) {
	s.AvailablePoint += maxPt
	if s.RestGames == nil {
		s.RestGames = make(map[string]int)
	}
	s.RestGames[opponent]++
}

func (s *TeamStats) finalize() {
	if s.AllGame == 0 {
		s.AveragePoint = 0
		return
	}
	s.AveragePoint = float64(s.Point) / float64(s.AllGame)
}

// StatField names a numeric TeamStats field usable as a sort key.
type StatField string

const (
	FieldPoint          StatField = "point"
	FieldAvailablePoint StatField = "avlbl_pt"
	FieldGoalDiff       StatField = "goal_diff"
	FieldGoalGet        StatField = "goal_get"
	FieldAllGame        StatField = "all_game"
	FieldAveragePoint   StatField = "avrg_pt"
	FieldWins           StatField = "win"
)

// Value reads a field as float64. Unknown fields read as 0.
func (s *TeamStats) Value(f StatField) float64 {
	if s == nil {
		return 0
	}
	switch f {
	case FieldPoint:
		return float64(s.Point)
	case FieldAvailablePoint:
		return float64(s.AvailablePoint)
	case FieldGoalDiff:
		return float64(s.GoalDiff)
	case FieldGoalGet:
		return float64(s.GoalGet)
	case FieldAllGame:
		return float64(s.AllGame)
	case FieldAveragePoint:
		return s.AveragePoint
	case FieldWins:
		return float64(s.Results.Win)
	}
	return 0
}

// View selects which of a team's two aggregates to read.
type View int

const (
	// ViewLatest counts every completed match.
	ViewLatest View = iota
	// ViewDisplay treats matches after the cutoff date as undecided.
	ViewDisplay
)

func (v View) String() string {
	if v == ViewDisplay {
		return "display"
	}
	return "latest"
}

// TeamData is a team's match list plus both computed views.
type TeamData struct {
	Matches []Match
	Latest  TeamStats
	Display TeamStats
	// Cutoff is the display date the views were last computed for.
	Cutoff string
}

// Stats returns the aggregate for v.
func (td *TeamData) Stats(v View) *TeamStats {
	if v == ViewDisplay {
		return &td.Display
	}
	return &td.Latest
}

// Clone copies the match list so the copy can be reordered independently.
// Match values are never mutated, so their pointer fields are shared.
func (td *TeamData) Clone() *TeamData {
	return &TeamData{
		Matches: slices.Clone(td.Matches),
		Latest:  td.Latest.clone(),
		Display: td.Display.clone(),
		Cutoff:  td.Cutoff,
	}
}

func (s TeamStats) clone() TeamStats {
	if s.RestGames != nil {
		rest := make(map[string]int, len(s.RestGames))
		for k, v := range s.RestGames {
			rest[k] = v
		}
		s.RestGames = rest
	}
	return s
}

// Group is an insertion-ordered set of teams competing in one table.
type Group struct {
	names []string
	teams map[string]*TeamData
}

// NewGroup creates an empty group, optionally pre-registering teams in order.
func NewGroup(teamNames ...string) *Group {
	g := &Group{teams: make(map[string]*TeamData)}
	for _, name := range teamNames {
		g.Ensure(name)
	}
	return g
}

// Ensure returns the named team, registering an empty one if needed.
func (g *Group) Ensure(name string) *TeamData {
	if td, ok := g.teams[name]; ok {
		return td
	}
	td := &TeamData{}
	g.names = append(g.names, name)
	g.teams[name] = td
	return td
}

// Set registers or replaces a team.
func (g *Group) Set(name string, td *TeamData) {
	if _, ok := g.teams[name]; !ok {
		g.names = append(g.names, name)
	}
	g.teams[name] = td
}

// Get looks up a team by name.
func (g *Group) Get(name string) (*TeamData, bool) {
	td, ok := g.teams[name]
	return td, ok
}

// Names returns team names in registration order.
func (g *Group) Names() []string { return slices.Clone(g.names) }

func (g *Group) Len() int { return len(g.names) }

// Clone deep-copies every team so accumulation on the copy cannot touch g.
func (g *Group) Clone() *Group {
	c := &Group{
		names: slices.Clone(g.names),
		teams: make(map[string]*TeamData, len(g.teams)),
	}
	for name, td := range g.teams {
		c.teams[name] = td.Clone()
	}
	return c
}

// TeamMap holds every group parsed from one match log, in order of first appearance.
type TeamMap struct {
	order  []string
	groups map[string]*Group
}

func NewTeamMap() *TeamMap {
	return &TeamMap{groups: make(map[string]*Group)}
}

// Group returns the named group, creating it with teamNames pre-registered if absent.
func (m *TeamMap) Group(name string, teamNames ...string) *Group {
	if g, ok := m.groups[name]; ok {
		return g
	}
	g := NewGroup(teamNames...)
	m.order = append(m.order, name)
	m.groups[name] = g
	return g
}

// Lookup returns a group without creating it.
func (m *TeamMap) Lookup(name string) (*Group, bool) {
	g, ok := m.groups[name]
	return g, ok
}

// GroupNames lists groups in order of first appearance.
func (m *TeamMap) GroupNames() []string { return slices.Clone(m.order) }

// SeasonInfo is the resolved configuration of one season's table.
type SeasonInfo struct {
	TeamCount        int               `json:"team_count" validate:"gte=0"`
	PromotionCount   int               `json:"promotion_count" validate:"gte=0,ltefield=TeamCount"`
	RelegationCount  int               `json:"relegation_count" validate:"gte=0,ltefield=TeamCount"`
	Teams            []string          `json:"teams"`
	RankClass        map[string]string `json:"rank_properties,omitempty"`
	GroupDisplay     string            `json:"group_display,omitempty"`
	URLCategory      string            `json:"url_category,omitempty"`
	LeagueDisplay    string            `json:"league_display"`
	PointSystem      PointSystem       `json:"-"`
	CSSFiles         []string          `json:"css_files,omitempty"`
	TeamRenameMap    map[string]string `json:"team_rename_map,omitempty"`
	TiebreakOrder    []string          `json:"tiebreak_order"`
	SeasonStartMonth int               `json:"season_start_month" validate:"omitempty,gte=1,lte=12"`
}
