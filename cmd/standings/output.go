package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Black-And-White-Club/league-standings/app/modules/matches/application/parsers"
	standingsservice "github.com/Black-And-White-Club/league-standings/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/league-standings/app/modules/standings/domain"
)

type report struct {
	League      string
	Competition string
	Season      string
	Display     string
	TargetDate  string
	Groups      []*standingsservice.PreparedGroup
}

type jsonGroup struct {
	Name     string                           `json:"name"`
	SortKey  string                           `json:"sort_key"`
	Finished bool                             `json:"finished"`
	Rows     []standingsdomain.RankRow        `json:"rows,omitempty"`
	Lines    []standingsservice.ThresholdLine `json:"lines,omitempty"`
}

type jsonReport struct {
	League      string      `json:"league"`
	Competition string      `json:"competition"`
	Season      string      `json:"season"`
	Display     string      `json:"league_display"`
	TargetDate  string      `json:"target_date"`
	Groups      []jsonGroup `json:"groups"`
}

func (r report) toJSON(withRows bool, lines map[string][]standingsservice.ThresholdLine) jsonReport {
	out := jsonReport{
		League:      r.League,
		Competition: r.Competition,
		Season:      r.Season,
		Display:     r.Display,
		TargetDate:  r.TargetDate,
		Groups:      make([]jsonGroup, 0, len(r.Groups)),
	}
	for _, g := range r.Groups {
		jg := jsonGroup{Name: g.Name, SortKey: g.SortKey.String(), Finished: g.Finished, Lines: lines[g.Name]}
		if withRows {
			jg.Rows = g.Rows
		}
		out.Groups = append(out.Groups, jg)
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r report) title(g *standingsservice.PreparedGroup) string {
	title := fmt.Sprintf("%s %s", r.Display, r.Season)
	if g.Name != "" && g.Name != parsers.DefaultGroupName {
		title += " " + g.Name
	}
	if r.TargetDate != "" {
		title += " (" + r.TargetDate + ")"
	}
	return title
}

func writeTables(w io.Writer, format string, r report) error {
	switch format {
	case "json":
		return writeJSON(w, r.toJSON(true, nil))
	case "text", "":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	for i, g := range r.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, r.title(g))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tteam\tpt\tmax\tplayed\tW\tPKW\tPKL\tD\tL\tGF\tGA\tGD\tleft\tchampion\tpromotion\trelegation")
		for _, row := range g.Rows {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%+d\t%d\t%s\t%s\t%s\n",
				row.Rank, row.Name, row.Point, row.AvailablePoint, row.AllGame,
				row.Win, row.PKWin, row.PKLoss, row.Draw, row.Loss,
				row.GoalGet, row.GoalLose, row.GoalDiff, row.FutureGame,
				row.Champion, dash(row.Promotion), dash(row.Relegation))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func writeLines(w io.Writer, format string, r report, lines map[string][]standingsservice.ThresholdLine) error {
	switch format {
	case "json":
		return writeJSON(w, r.toJSON(false, lines))
	case "text", "":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	for i, g := range r.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, r.title(g))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "event\trank\tsafety\tpossible")
		for _, l := range lines[g.Name] {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", l.Event, l.Rank, l.SafetyLine, l.PossibleLine)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func dash(q standingsdomain.Qualification) string {
	if q == "" {
		return "-"
	}
	return string(q)
}
