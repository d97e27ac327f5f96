package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/Black-And-White-Club/league-standings/app/modules/matches/application/parsers"
	seasondomain "github.com/Black-And-White-Club/league-standings/app/modules/season/domain"
	standingsservice "github.com/Black-And-White-Club/league-standings/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/league-standings/app/modules/standings/domain"
	standingstime "github.com/Black-And-White-Club/league-standings/app/modules/standings/time_utils"
	"github.com/Black-And-White-Club/league-standings/config"
)

// run is everything a command needs once flags, config and the season map are resolved.
type run struct {
	logger      *slog.Logger
	registry    *prometheus.Registry
	service     *standingsservice.StandingsService
	teams       *standingsdomain.TeamMap
	league      string
	competition string
	season      string
	info        standingsdomain.SeasonInfo
	targetDate  string
	sortKey     string
	matchSort   standingsdomain.MatchSortKey
	groups      []string
}

// withRun builds a run from c, calls fn, then dumps metrics when requested.
func withRun(c *cli.Context, fn func(*run) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if v := c.String("metrics-file"); v != "" {
		cfg.Observability.MetricsFile = v
	}

	logger := newLogger(c.App.ErrWriter, cfg.Logging).With("run_id", uuid.NewString())

	r, err := newRun(c, cfg, logger)
	if err != nil {
		logger.Error("Failed to prepare run", "error", err)
		return err
	}

	runErr := fn(r)
	if path := cfg.Observability.MetricsFile; path != "" {
		if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
			logger.Error("Failed to write metrics file", "path", path, "error", err)
			return errors.Join(runErr, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	return runErr
}

func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newRun(c *cli.Context, cfg *config.Config, logger *slog.Logger) (*run, error) {
	seasonMapPath := c.String("season-map")
	if seasonMapPath == "" {
		seasonMapPath = cfg.Standings.SeasonMap
	}
	if seasonMapPath == "" {
		return nil, errors.New("no season map: pass --season-map or set standings.season_map")
	}
	seasonMap, err := seasondomain.LoadSeasonMap(seasonMapPath)
	if err != nil {
		return nil, err
	}

	competition := c.String("competition")
	league := c.String("league")
	if league == "" {
		league, _, err = seasonMap.FindCompetition(competition)
		if err != nil {
			return nil, err
		}
		logger.Debug("Resolved league from competition", "league", league, "competition", competition)
	}

	var clock standingstime.Clock = standingstime.RealClock{}
	if now := c.Timestamp("now"); now != nil {
		clock = standingstime.NewAnchorClock(*now)
	}
	dates, err := standingstime.NewDateParser(logger, clock, cfg.Standings.Timezone)
	if err != nil {
		return nil, err
	}
	targetDate, err := dates.ParseCutoffDate(c.String("date"))
	if err != nil {
		return nil, err
	}

	season := c.String("season")
	if season == "" {
		season = seasondomain.SeasonFromDate(dates.Today(), seasonMap.StartMonth(league, competition))
	}

	info, err := seasonMap.ResolveSeasonInfo(league, competition, season)
	if errors.Is(err, seasondomain.ErrSeasonNotFound) {
		known := seasonMap[league].Competitions[competition].SeasonKeys()
		return nil, fmt.Errorf("%w (known seasons: %s)", err, strings.Join(known, ", "))
	}
	if err != nil {
		return nil, err
	}
	if err := seasondomain.ValidateSeasonInfo(info); err != nil {
		return nil, err
	}

	teams, err := parsers.LoadTeamMap(parsers.NewFactory(), c.String("matches"), parsers.Options{
		Teams:         info.Teams,
		DefaultGroup:  cfg.Standings.DefaultGroup,
		PointSystem:   info.PointSystem,
		TeamRenameMap: info.TeamRenameMap,
	})
	if err != nil {
		return nil, err
	}

	sortKey := c.String("sort")
	if sortKey == "" {
		sortKey = cfg.Standings.SortKey
	}
	matchSort := c.String("match-sort")
	if matchSort == "" {
		matchSort = cfg.Standings.MatchSort
	}
	switch standingsdomain.MatchSortKey(matchSort) {
	case standingsdomain.SortBySection, standingsdomain.SortByDate:
	default:
		return nil, fmt.Errorf("unknown match sort %q: want %s or %s", matchSort, standingsdomain.SortBySection, standingsdomain.SortByDate)
	}

	registry := prometheus.NewRegistry()
	service := standingsservice.NewStandingsService(logger, standingsservice.NewPrometheusMetrics(registry), nil)

	logger.Info("Run configured",
		"league", league,
		"competition", competition,
		"season", season,
		"target_date", targetDate,
		"sort_key", sortKey,
		"groups", len(teams.GroupNames()),
	)

	return &run{
		logger:      logger,
		registry:    registry,
		service:     service,
		teams:       teams,
		league:      league,
		competition: competition,
		season:      season,
		info:        info,
		targetDate:  targetDate,
		sortKey:     sortKey,
		matchSort:   standingsdomain.MatchSortKey(matchSort),
		groups:      c.StringSlice("group"),
	}, nil
}

func (r *run) prepareAll(ctx context.Context) ([]*standingsservice.PreparedGroup, error) {
	return r.service.PrepareAll(ctx, r.teams, standingsservice.PrepareAllInput{
		Season:       r.info,
		TargetDate:   r.targetDate,
		SortKey:      r.sortKey,
		MatchSortKey: r.matchSort,
		Groups:       r.groups,
	})
}

func (r *run) lines(ctx context.Context, groups []*standingsservice.PreparedGroup) (map[string][]standingsservice.ThresholdLine, error) {
	out := make(map[string][]standingsservice.ThresholdLine, len(groups))
	for _, g := range groups {
		l, err := r.service.Lines(ctx, g)
		if err != nil {
			return nil, err
		}
		out[g.Name] = l
	}
	return out, nil
}

func (r *run) export(path string, groups []*standingsservice.PreparedGroup) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	if err := standingsservice.ExportWorkbook(f, groups); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %q: %w", path, err)
	}
	r.logger.Info("Workbook written", "path", path, "sheets", len(groups))
	return nil
}

func (r *run) report(groups []*standingsservice.PreparedGroup) report {
	return report{
		League:      r.league,
		Competition: r.competition,
		Season:      r.season,
		Display:     r.info.LeagueDisplay,
		TargetDate:  r.targetDate,
		Groups:      groups,
	}
}
