package standingsdomain

import (
	"errors"
	"fmt"
)

// ErrUnknownPointSystem is returned when a season names a point system that does not exist.
var ErrUnknownPointSystem = errors.New("unknown point system")

// MatchResult classifies a completed match from one team's perspective.
type MatchResult string

const (
	ResultWin    MatchResult = "win"
	ResultPKWin  MatchResult = "pk_win"
	ResultPKLoss MatchResult = "pk_loss"
	ResultDraw   MatchResult = "draw"
	ResultLoss   MatchResult = "loss"
)

// PointSystem maps match results to the points they award.
type PointSystem struct {
	name   string
	win    int
	pkWin  int
	pkLoss int
	draw   int
	loss   int
}

var (
	// StandardPoints is the modern 3-1-0 system, with 2/1 for shootout win/loss.
	StandardPoints = PointSystem{name: "standard", win: 3, pkWin: 2, pkLoss: 1, draw: 1, loss: 0}
	// OldTwoPoints is the legacy 2-1-0 system.
	OldTwoPoints = PointSystem{name: "old-two-points", win: 2, pkWin: 1, pkLoss: 1, draw: 1, loss: 0}

	pointSystems = map[string]PointSystem{
		StandardPoints.name: StandardPoints,
		OldTwoPoints.name:   OldTwoPoints,
	}
)

// PointSystemByName looks up a point system. An empty name selects StandardPoints.
func PointSystemByName(name string) (PointSystem, error) {
	if name == "" {
		return StandardPoints, nil
	}
	ps, ok := pointSystems[name]
	if !ok {
		return PointSystem{}, fmt.Errorf("%w: %q", ErrUnknownPointSystem, name)
	}
	return ps, nil
}

// Name returns the identifier used in season configuration.
func (ps PointSystem) Name() string {
	if ps.name == "" {
		return StandardPoints.name
	}
	return ps.name
}

// IsZero reports whether ps was never initialised.
func (ps PointSystem) IsZero() bool { return ps == PointSystem{} }

func (ps PointSystem) orDefault() PointSystem {
	if ps.IsZero() {
		return StandardPoints
	}
	return ps
}

func (ps PointSystem) WinValue() int    { return ps.orDefault().win }
func (ps PointSystem) PKWinValue() int  { return ps.orDefault().pkWin }
func (ps PointSystem) PKLossValue() int { return ps.orDefault().pkLoss }
func (ps PointSystem) DrawValue() int   { return ps.orDefault().draw }
func (ps PointSystem) LossValue() int   { return ps.orDefault().loss }

// Points returns the value of a single result.
func (ps PointSystem) Points(r MatchResult) int {
	switch r {
	case ResultWin:
		return ps.WinValue()
	case ResultPKWin:
		return ps.PKWinValue()
	case ResultPKLoss:
		return ps.PKLossValue()
	case ResultDraw:
		return ps.DrawValue()
	default:
		return ps.LossValue()
	}
}

// PointFromResult returns the points earned by the side that scored goalGet.
// A nil goal on either side means the match has not been played and earns nothing.
func (ps PointSystem) PointFromResult(goalGet, goalLose, pkGet, pkLose *int) int {
	if goalGet == nil || goalLose == nil {
		return 0
	}
	switch {
	case *goalGet > *goalLose:
		return ps.WinValue()
	case *goalGet < *goalLose:
		return ps.LossValue()
	}
	// Level after regulation: the shootout decides, if there was one.
	if pkGet != nil && pkLose != nil {
		if *pkGet > *pkLose {
			return ps.PKWinValue()
		}
		return ps.PKLossValue()
	}
	return ps.DrawValue()
}

// ClassifyResult derives the result class from a match's point value.
//
// Under the two-point system a shootout win is not distinguishable from other
// results by value alone, so shootout outcomes are read from the PK scores.
func ClassifyResult(point int, pkGet, pkLose *int, ps PointSystem) MatchResult {
	if point >= ps.WinValue() {
		return ResultWin
	}
	if point > 0 && pkGet != nil && pkLose != nil {
		if *pkGet > *pkLose {
			return ResultPKWin
		}
		return ResultPKLoss
	}
	if point >= 1 {
		return ResultDraw
	}
	return ResultLoss
}
