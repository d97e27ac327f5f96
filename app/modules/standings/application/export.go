package standingsservice

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const maxSheetNameLen = 31

var rankHeader = []any{
	"rank", "name", "win", "pk_win", "pk_loss", "draw", "lose", "point", "avlbl_pt", "avrg_pt",
	"all_game", "goal_get", "goal_lose", "goal_diff", "future_game", "champion", "promotion", "relegation",
}

// ExportWorkbook writes one sheet per prepared group: a header row, then one
// row per team in table order.
func ExportWorkbook(w io.Writer, groups []*PreparedGroup) error {
	if len(groups) == 0 {
		return errors.New("no groups to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool, len(groups))
	for i, p := range groups {
		if p == nil {
			return ErrNilGroup
		}
		sheet := uniqueSheetName(sheetName(p.Name), used)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}

		if err := writeRankSheet(f, sheet, p); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRankSheet(f *excelize.File, sheet string, p *PreparedGroup) error {
	header := rankHeader
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header on %q: %w", sheet, err)
	}
	for i, r := range p.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			r.Rank, r.Name, r.Win, r.PKWin, r.PKLoss, r.Draw, r.Loss, r.Point, r.AvailablePoint,
			r.AveragePoint, r.AllGame, r.GoalGet, r.GoalLose, r.GoalDiff, r.FutureGame,
			string(r.Champion), string(r.Promotion), string(r.Relegation),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %q: %w", i+1, sheet, err)
		}
	}
	return nil
}

// sheetName maps a group name to something Excel accepts as a sheet name.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Group"
	}
	return truncateRunes(name, maxSheetNameLen)
}

func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(name, maxSheetNameLen-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
