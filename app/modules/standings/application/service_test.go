package standingsservice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/league-standings/app/modules/matches/application/parsers"
	standingsdomain "github.com/Black-And-White-Club/league-standings/app/modules/standings/domain"
)

const fourTeamCSV = `match_date,section_no,home_team,home_goal,away_goal,away_team,status
2025/04/01,1,A,2,0,B,試合終了
2025/04/01,1,C,1,1,D,試合終了
2025/04/08,2,A,1,0,C,試合終了
2025/04/08,2,B,3,1,D,試合終了
2025/04/15,3,A,,,D,
2025/04/15,3,B,,,C,
`

func testSeason() standingsdomain.SeasonInfo {
	return standingsdomain.SeasonInfo{
		TeamCount:        4,
		PromotionCount:   1,
		RelegationCount:  1,
		Teams:            []string{"A", "B", "C", "D"},
		LeagueDisplay:    "Test League",
		PointSystem:      standingsdomain.StandardPoints,
		SeasonStartMonth: 7,
	}
}

func twoTeamSeason() standingsdomain.SeasonInfo {
	return standingsdomain.SeasonInfo{TeamCount: 2, PromotionCount: 1, SeasonStartMonth: 7}
}

func parseTeams(t *testing.T, csv string) *standingsdomain.TeamMap {
	t.Helper()
	tm, err := parsers.NewCSVParser().Parse([]byte(csv), parsers.Options{PointSystem: standingsdomain.StandardPoints})
	require.NoError(t, err)
	return tm
}

func parseGroup(t *testing.T, csv string) *standingsdomain.Group {
	t.Helper()
	g, ok := parseTeams(t, csv).Lookup(parsers.DefaultGroupName)
	require.True(t, ok)
	return g
}

func newTestService(t *testing.T, reg *prometheus.Registry) *StandingsService {
	t.Helper()
	var metrics Metrics = NoOpMetrics{}
	if reg != nil {
		metrics = NewPrometheusMetrics(reg)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStandingsService(logger, metrics, noop.NewTracerProvider().Tracer("test"))
}

func qualifications(rows []standingsdomain.RankRow, pick func(standingsdomain.RankRow) standingsdomain.Qualification) map[string]standingsdomain.Qualification {
	out := make(map[string]standingsdomain.Qualification, len(rows))
	for _, r := range rows {
		out[r.Name] = pick(r)
	}
	return out
}

func TestNewStandingsService_Defaults(t *testing.T) {
	s := NewStandingsService(nil, nil, nil)
	assert.NotNil(t, s.logger)
	assert.IsType(t, NoOpMetrics{}, s.metrics)
	assert.NotNil(t, s.tracer)
	assert.NotNil(t, s.sorter)
}

func TestPrepare_LatestView(t *testing.T) {
	s := newTestService(t, nil)
	group := parseGroup(t, fourTeamCSV)

	got, err := s.Prepare(context.Background(), PrepareInput{
		Group:     group,
		GroupName: "J1",
		Season:    testSeason(),
		SortKey:   "point",
	})
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"A", "B", "C", "D"}, got.SortedNames); diff != "" {
		t.Errorf("sorted names mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got.Finished)
	assert.Equal(t, standingsdomain.SortKey{Field: standingsdomain.FieldPoint, View: standingsdomain.ViewLatest}, got.SortKey)

	first := got.Rows[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, 6, first.Point)
	assert.Equal(t, 9, first.AvailablePoint)
	assert.Equal(t, 2, first.Win)
	assert.Equal(t, 2, first.AllGame)
	assert.Equal(t, 3, first.GoalGet)
	assert.Equal(t, 0, first.GoalLose)
	assert.Equal(t, 1, first.FutureGame)

	wantChampion := map[string]standingsdomain.Qualification{
		"A": standingsdomain.QualSelf,
		"B": standingsdomain.QualDependent,
		"C": standingsdomain.QualImpossible,
		"D": standingsdomain.QualImpossible,
	}
	if diff := cmp.Diff(wantChampion, qualifications(got.Rows, func(r standingsdomain.RankRow) standingsdomain.Qualification { return r.Champion })); diff != "" {
		t.Errorf("champion mismatch (-want +got):\n%s", diff)
	}
	wantRelegation := map[string]standingsdomain.Qualification{
		"A": standingsdomain.QualConfirmed,
		"B": standingsdomain.QualSelf,
		"C": standingsdomain.QualSelf,
		"D": standingsdomain.QualSelf,
	}
	if diff := cmp.Diff(wantRelegation, qualifications(got.Rows, func(r standingsdomain.RankRow) standingsdomain.Qualification { return r.Relegation })); diff != "" {
		t.Errorf("relegation mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepare_DisplayView(t *testing.T) {
	s := newTestService(t, nil)
	group := parseGroup(t, fourTeamCSV)

	got, err := s.Prepare(context.Background(), PrepareInput{
		Group:      group,
		GroupName:  "J1",
		Season:     testSeason(),
		TargetDate: "2025/04/05",
		SortKey:    "disp_point",
	})
	require.NoError(t, err)

	// Only section 1 counts: A won, C and D drew, B lost.
	if diff := cmp.Diff([]string{"A", "C", "D", "B"}, got.SortedNames); diff != "" {
		t.Errorf("sorted names mismatch (-want +got):\n%s", diff)
	}
	last := got.Rows[3]
	assert.Equal(t, "B", last.Name)
	assert.Equal(t, 0, last.Point)
	assert.Equal(t, 1, last.AllGame)
	assert.Equal(t, 2, last.FutureGame)
	assert.Equal(t, "2025/04/05", got.TargetDate)
}

func TestPrepare_DoesNotModifyInput(t *testing.T) {
	s := newTestService(t, nil)
	group := parseGroup(t, fourTeamCSV)

	before, ok := group.Get("A")
	require.True(t, ok)
	firstOpponent := before.Matches[0].Opponent

	got, err := s.Prepare(context.Background(), PrepareInput{Group: group, GroupName: "J1", Season: testSeason()})
	require.NoError(t, err)

	after, _ := group.Get("A")
	assert.Equal(t, 0, after.Latest.Point)
	assert.Empty(t, after.Cutoff)
	assert.Equal(t, firstOpponent, after.Matches[0].Opponent)

	prepared, _ := got.Group.Get("A")
	assert.Equal(t, 6, prepared.Latest.Point)
	assert.Equal(t, "2025/04/08", prepared.Cutoff)
	assert.Equal(t, prepared.Latest.Point, prepared.Display.Point)
}

func TestPrepare_NoTargetDateKeepsFixturesUpcoming(t *testing.T) {
	const csv = `match_date,section_no,home_team,home_goal,away_goal,away_team,status
2025/04/01,1,B,1,0,D,試合終了
2025/04/08,2,A,1,0,C,試合終了
2025/04/15,2,A,,,D,
2025/04/05,3,C,,,D,
`
	s := newTestService(t, nil)
	got, err := s.Prepare(context.Background(), PrepareInput{Group: parseGroup(t, csv), Season: testSeason()})
	require.NoError(t, err)

	d, ok := got.Group.Get("D")
	require.True(t, ok)
	assert.Equal(t, "2025/04/08", d.Cutoff)
	opponents := make([]string, len(d.Matches))
	for i, m := range d.Matches {
		opponents[i] = m.Opponent
	}
	// The unreported 04/05 match is due; the 04/15 one is still upcoming.
	assert.Equal(t, []string{"B", "C", "A"}, opponents)
}

func TestPrepare_AcceptsSeasonWithoutStartMonth(t *testing.T) {
	s := newTestService(t, nil)
	got, err := s.Prepare(context.Background(), PrepareInput{
		Group:  parseGroup(t, fourTeamCSV),
		Season: standingsdomain.SeasonInfo{TeamCount: 4, PromotionCount: 1, RelegationCount: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, got.SortedNames)
}

func TestPrepare_DefaultsSortKeyToPoint(t *testing.T) {
	s := newTestService(t, nil)
	got, err := s.Prepare(context.Background(), PrepareInput{Group: parseGroup(t, fourTeamCSV), Season: testSeason()})
	require.NoError(t, err)
	assert.Equal(t, "point", got.SortKey.String())
	assert.Equal(t, []string{"A", "B", "C", "D"}, got.SortedNames)
}

func TestPrepare_Errors(t *testing.T) {
	s := newTestService(t, nil)

	t.Run("nil group", func(t *testing.T) {
		_, err := s.Prepare(context.Background(), PrepareInput{GroupName: "J1", Season: testSeason()})
		require.ErrorIs(t, err, ErrNilGroup)
		assert.True(t, strings.HasPrefix(err.Error(), "Prepare: "))
	})

	t.Run("invalid season", func(t *testing.T) {
		season := testSeason()
		season.PromotionCount = 5
		_, err := s.Prepare(context.Background(), PrepareInput{Group: parseGroup(t, fourTeamCSV), Season: season})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PromotionCount")
	})
}

func TestPrepare_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := newTestService(t, reg)

	_, err := s.Prepare(context.Background(), PrepareInput{Group: parseGroup(t, fourTeamCSV), GroupName: "J1", Season: testSeason()})
	require.NoError(t, err)
	_, err = s.Prepare(context.Background(), PrepareInput{GroupName: "J1", Season: testSeason()})
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.(*PrometheusMetrics).attempts.WithLabelValues("Prepare", "J1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.(*PrometheusMetrics).successes.WithLabelValues("Prepare", "J1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.(*PrometheusMetrics).failures.WithLabelValues("Prepare", "J1")))
	assert.Equal(t, 4.0, testutil.ToFloat64(s.metrics.(*PrometheusMetrics).teamsRanked.WithLabelValues("J1")))
	assert.Equal(t, 1, testutil.CollectAndCount(s.metrics.(*PrometheusMetrics).duration))
}

const twoGroupCSV = `match_date,section_no,home_team,home_goal,away_goal,away_team,status,group
2025/04/01,1,A,2,0,B,試合終了,EAST
2025/04/01,1,X,0,1,Y,試合終了,WEST
2025/04/08,2,B,1,1,A,試合終了,EAST
2025/04/08,2,Y,,,X,,WEST
`

func TestPrepareAll(t *testing.T) {
	s := newTestService(t, nil)
	teams := parseTeams(t, twoGroupCSV)
	season := twoTeamSeason()

	t.Run("every group in log order", func(t *testing.T) {
		got, err := s.PrepareAll(context.Background(), teams, PrepareAllInput{Season: season})
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, "EAST", got[0].Name)
		assert.Equal(t, []string{"A", "B"}, got[0].SortedNames)
		assert.True(t, got[0].Finished)
		assert.Equal(t, standingsdomain.QualConfirmed, got[0].Rows[0].Champion)

		assert.Equal(t, "WEST", got[1].Name)
		assert.Equal(t, []string{"Y", "X"}, got[1].SortedNames)
		assert.False(t, got[1].Finished)
	})

	t.Run("selected groups", func(t *testing.T) {
		got, err := s.PrepareAll(context.Background(), teams, PrepareAllInput{Season: season, Groups: []string{"WEST"}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "WEST", got[0].Name)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := s.PrepareAll(context.Background(), teams, PrepareAllInput{Season: season, Groups: []string{"NORTH"}})
		require.ErrorIs(t, err, ErrGroupNotFound)
	})

	t.Run("nil team map", func(t *testing.T) {
		_, err := s.PrepareAll(context.Background(), nil, PrepareAllInput{Season: season})
		require.ErrorIs(t, err, ErrNilGroup)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.PrepareAll(ctx, teams, PrepareAllInput{Season: season})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestWithTelemetry_RecoversPanic(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := newTestService(t, reg)

	got, err := withTelemetry(s, context.Background(), "Explode", "J1", func(context.Context) (*PreparedGroup, error) {
		panic("boom")
	})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, "panic in Explode: boom", err.Error())
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.(*PrometheusMetrics).failures.WithLabelValues("Explode", "J1")))
}

func TestWithTelemetry_WrapsErrors(t *testing.T) {
	var buf bytes.Buffer
	s := NewStandingsService(slog.New(slog.NewJSONHandler(&buf, nil)), nil, nil)
	sentinel := errors.New("bad input")

	_, err := withTelemetry(s, context.Background(), "Lines", "J1", func(context.Context) (int, error) {
		return 0, sentinel
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, "Lines: bad input", err.Error())
	assert.Contains(t, buf.String(), `"operation":"Lines"`)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}
