package standingsservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	seasondomain "github.com/Black-And-White-Club/league-standings/app/modules/season/domain"
	standingsdomain "github.com/Black-And-White-Club/league-standings/app/modules/standings/domain"
)

// PrepareInput describes one group's ranking table.
type PrepareInput struct {
	Group     *standingsdomain.Group
	GroupName string
	Season    standingsdomain.SeasonInfo
	// TargetDate is the YYYY/MM/DD display cutoff. Empty means the date of the
	// latest result, so both views agree.
	TargetDate   string
	SortKey      string
	MatchSortKey standingsdomain.MatchSortKey
}

// PrepareAllInput is PrepareInput without the per-group fields.
type PrepareAllInput struct {
	Season       standingsdomain.SeasonInfo
	TargetDate   string
	SortKey      string
	MatchSortKey standingsdomain.MatchSortKey
	// Groups restricts the run to the named groups. Empty means every group.
	Groups []string
}

// PreparedGroup is a group with computed stats, sorted order and rank rows.
type PreparedGroup struct {
	Name        string
	Group       *standingsdomain.Group
	Season      standingsdomain.SeasonInfo
	SortKey     standingsdomain.SortKey
	TargetDate  string
	SortedNames []string
	Rows        []standingsdomain.RankRow
	// Finished is true when no team has a fixture left in the sort key's view.
	Finished bool
}

// Prepare computes stats on a copy of in.Group and builds its ranking table.
// The caller's group is never modified.
func (s *StandingsService) Prepare(ctx context.Context, in PrepareInput) (*PreparedGroup, error) {
	return withTelemetry(s, ctx, "Prepare", in.GroupName, func(ctx context.Context) (*PreparedGroup, error) {
		if in.Group == nil {
			return nil, ErrNilGroup
		}
		if err := seasondomain.ValidateSeasonInfo(in.Season); err != nil {
			return nil, err
		}
		return s.prepare(ctx, in), nil
	})
}

func (s *StandingsService) prepare(ctx context.Context, in PrepareInput) *PreparedGroup {
	g := in.Group.Clone()
	cutoff := in.TargetDate
	if cutoff == "" {
		cutoff = standingsdomain.LatestResultDate(g)
	}
	matchSort := in.MatchSortKey
	if matchSort == "" {
		matchSort = standingsdomain.SortBySection
	}
	key := standingsdomain.ParseSortKey(in.SortKey)
	if key.Field == "" {
		key.Field = standingsdomain.FieldPoint
	}

	standingsdomain.CalculateGroupStats(g, cutoff, matchSort, in.Season.PointSystem)
	sorted := s.sorter.SortedTeamList(g, key, in.Season.TiebreakOrder)
	rows := standingsdomain.MakeRankData(g, sorted, in.Season, key.View)

	s.metrics.RecordTeamsRanked(ctx, in.GroupName, len(rows))
	s.logger.InfoContext(ctx, "Ranking table prepared",
		"group", in.GroupName,
		"teams", len(rows),
		"sort_key", key.String(),
		"target_date", in.TargetDate,
	)

	return &PreparedGroup{
		Name:        in.GroupName,
		Group:       g,
		Season:      in.Season,
		SortKey:     key,
		TargetDate:  in.TargetDate,
		SortedNames: sorted,
		Rows:        rows,
		Finished:    standingsdomain.SeasonFinished(g, key.View),
	}
}

// PrepareAll prepares every requested group of teams concurrently. Results
// follow the match log's group order.
func (s *StandingsService) PrepareAll(ctx context.Context, teams *standingsdomain.TeamMap, in PrepareAllInput) ([]*PreparedGroup, error) {
	return withTelemetry(s, ctx, "PrepareAll", "", func(ctx context.Context) ([]*PreparedGroup, error) {
		if teams == nil {
			return nil, ErrNilGroup
		}
		if err := seasondomain.ValidateSeasonInfo(in.Season); err != nil {
			return nil, err
		}

		batchID := uuid.NewString()
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("batch_id", batchID))

		names := in.Groups
		if len(names) == 0 {
			names = teams.GroupNames()
		}
		groups := make([]*standingsdomain.Group, len(names))
		for i, name := range names {
			g, ok := teams.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrGroupNotFound, name)
			}
			groups[i] = g
		}

		s.logger.InfoContext(ctx, "Preparing groups",
			"batch_id", batchID,
			"groups", len(groups),
		)

		results := make([]*PreparedGroup, len(groups))
		eg, egCtx := errgroup.WithContext(ctx)
		for i := range groups {
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				results[i] = s.prepare(egCtx, PrepareInput{
					Group:        groups[i],
					GroupName:    names[i],
					Season:       in.Season,
					TargetDate:   in.TargetDate,
					SortKey:      in.SortKey,
					MatchSortKey: in.MatchSortKey,
				})
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, fmt.Errorf("failed to prepare groups: %w", err)
		}
		return results, nil
	})
}
