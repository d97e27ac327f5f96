package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "standings:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "standings",
		Usage: "league tables with championship, promotion and relegation prospects",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "table",
				Usage:  "print the ranking table of every group",
				Flags:  append(rankingFlags(), formatFlag()),
				Action: tableAction,
			},
			{
				Name:  "export",
				Usage: "write the ranking tables to an XLSX workbook",
				Flags: append(rankingFlags(), &cli.StringFlag{
					Name:     "out",
					Aliases:  []string{"o"},
					Usage:    "destination `FILE` (.xlsx)",
					Required: true,
				}),
				Action: exportAction,
			},
			{
				Name:   "lines",
				Usage:  "print the champion, promotion and safety point lines",
				Flags:  append(rankingFlags(), formatFlag()),
				Action: linesAction,
			},
		},
	}
}

func rankingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "season-map", Usage: "season map `FILE` (YAML or JSON); overrides the config"},
		&cli.StringFlag{Name: "matches", Aliases: []string{"m"}, Usage: "match log `FILE` (.csv or .xlsx)", Required: true},
		&cli.StringFlag{Name: "league", Aliases: []string{"l"}, Usage: "season map group; looked up from the competition when omitted"},
		&cli.StringFlag{Name: "competition", Aliases: []string{"c"}, Usage: "competition key, e.g. J1", Required: true},
		&cli.StringFlag{Name: "season", Aliases: []string{"s"}, Usage: "season key; defaults to the season containing today"},
		&cli.StringSliceFlag{Name: "group", Aliases: []string{"g"}, Usage: "match log group to include (repeatable); all groups when omitted"},
		&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "display cutoff, e.g. 2025/05/03 or \"last saturday\"; defaults to today"},
		&cli.StringFlag{Name: "sort", Usage: "sort key, e.g. point, disp_point, avlbl_pt"},
		&cli.StringFlag{Name: "match-sort", Usage: "match order within a team: section_no or match_date"},
		&cli.StringFlag{Name: "metrics-file", Usage: "write prometheus metrics to `FILE` after the run"},
		&cli.TimestampFlag{Name: "now", Layout: time.RFC3339, Usage: "pin the current time for relative dates and the default season", Hidden: true},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "output format: text or json"}
}

func tableAction(c *cli.Context) error {
	return withRun(c, func(r *run) error {
		groups, err := r.prepareAll(c.Context)
		if err != nil {
			return err
		}
		return writeTables(c.App.Writer, c.String("format"), r.report(groups))
	})
}

func exportAction(c *cli.Context) error {
	return withRun(c, func(r *run) error {
		groups, err := r.prepareAll(c.Context)
		if err != nil {
			return err
		}
		return r.export(c.String("out"), groups)
	})
}

func linesAction(c *cli.Context) error {
	return withRun(c, func(r *run) error {
		groups, err := r.prepareAll(c.Context)
		if err != nil {
			return err
		}
		lines, err := r.lines(c.Context, groups)
		if err != nil {
			return err
		}
		return writeLines(c.App.Writer, c.String("format"), r.report(groups), lines)
	})
}
