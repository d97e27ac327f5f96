package seasondomain

import (
	"fmt"
	"strconv"
	"time"
)

// SeasonFromDate names the season containing date. Calendar-year seasons
// (startMonth 1) are "YYYY"; seasons spanning two years are "YY-YY", with
// months before startMonth belonging to the previous season.
func SeasonFromDate(date time.Time, startMonth int) string {
	if startMonth == 0 {
		startMonth = DefaultSeasonStartMonth
	}
	year := date.Year()
	if startMonth == 1 {
		return strconv.Itoa(year)
	}

	startYear := year
	if int(date.Month()) < startMonth {
		startYear--
	}
	return fmt.Sprintf("%02d-%02d", startYear%100, (startYear+1)%100)
}
