package standingsservice

import (
	"context"

	standingsdomain "github.com/Black-And-White-Club/league-standings/app/modules/standings/domain"
)

// Rank events reported by Lines.
const (
	EventChampion  = "champion"
	EventPromotion = "promotion"
	EventSafety    = "safety"
)

// ThresholdLine is the pair of point thresholds for reaching Rank.
type ThresholdLine struct {
	Event        string `json:"event"`
	Rank         int    `json:"rank"`
	SafetyLine   int    `json:"safety_line"`
	PossibleLine int    `json:"possible_line"`
}

// Lines reports the thresholds for first place, the last promotion slot and
// the last place clear of relegation, read in the prepared sort key's view.
// Events without slots are left out.
func (s *StandingsService) Lines(ctx context.Context, p *PreparedGroup) ([]ThresholdLine, error) {
	group := ""
	if p != nil {
		group = p.Name
	}
	return withTelemetry(s, ctx, "Lines", group, func(ctx context.Context) ([]ThresholdLine, error) {
		if p == nil || p.Group == nil {
			return nil, ErrNilGroup
		}
		view := p.SortKey.View
		line := func(event string, rank int) ThresholdLine {
			return ThresholdLine{
				Event:        event,
				Rank:         rank,
				SafetyLine:   standingsdomain.SafetyLine(rank, view, p.Group),
				PossibleLine: standingsdomain.PossibleLine(rank, view, p.Group),
			}
		}

		lines := []ThresholdLine{line(EventChampion, 1)}
		if p.Season.PromotionCount > 0 {
			lines = append(lines, line(EventPromotion, p.Season.PromotionCount))
		}
		if p.Season.RelegationCount > 0 {
			lines = append(lines, line(EventSafety, p.Season.TeamCount-p.Season.RelegationCount))
		}
		return lines, nil
	})
}
