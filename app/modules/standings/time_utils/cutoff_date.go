package standingstime

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

// CutoffLayout is the date format match logs and cutoffs are compared in.
const CutoffLayout = "2006/01/02"

// ErrUnrecognizedDate is returned when input is neither a date nor a phrase
// like "yesterday" or "3 days ago".
var ErrUnrecognizedDate = errors.New("unrecognized date")

var explicitLayouts = []string{"2006/1/2", "2006-1-2", "20060102"}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// AnchorClock always returns the same instant, so relative input resolves
// the same way however late it is parsed.
type AnchorClock struct {
	anchor time.Time
}

// NewAnchorClock creates an AnchorClock. A zero t anchors at the current time.
func NewAnchorClock(t time.Time) AnchorClock {
	if t.IsZero() {
		return AnchorClock{anchor: time.Now()}
	}
	return AnchorClock{anchor: t}
}

func (c AnchorClock) Now() time.Time { return c.anchor }

// DateParser turns user input into a YYYY/MM/DD cutoff date in one time zone.
type DateParser struct {
	logger *slog.Logger
	clock  Clock
	loc    *time.Location
	w      *when.Parser
}

// NewDateParser creates a DateParser for the named IANA time zone. An empty
// name uses UTC.
func NewDateParser(logger *slog.Logger, clock Clock, timezone string) (*DateParser, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = RealClock{}
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}

	w := when.New(nil)
	w.Add(en.All...)

	return &DateParser{logger: logger, clock: clock, loc: loc, w: w}, nil
}

// Today returns the current date in the parser's time zone.
func (p *DateParser) Today() time.Time {
	return p.clock.Now().In(p.loc)
}

// ParseCutoffDate accepts an explicit date (2025/5/3, 2025-05-03, 20250503)
// or a relative English phrase. Empty input means today.
func (p *DateParser) ParseCutoffDate(input string) (string, error) {
	input = strings.TrimSpace(input)
	now := p.Today()
	if input == "" {
		return now.Format(CutoffLayout), nil
	}

	for _, layout := range explicitLayouts {
		if t, err := time.ParseInLocation(layout, input, p.loc); err == nil {
			return t.Format(CutoffLayout), nil
		}
	}

	r, err := p.w.Parse(strings.ToLower(input), now)
	if err != nil {
		p.logger.Error("Error parsing date input with when", "input", input, "error", err)
		return "", fmt.Errorf("%w: %q: %v", ErrUnrecognizedDate, input, err)
	}
	if r == nil {
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedDate, input)
	}

	parsed := r.Time.In(p.loc)
	p.logger.Debug("Parsed date using when", "input", input, "parsed", parsed.Format(time.RFC3339))
	return parsed.Format(CutoffLayout), nil
}
