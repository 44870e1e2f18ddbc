package dashboard

import (
	"fmt"
	"time"
)

const trailingMonths = 6

var monthAbbrevPT = [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// monthStart devuelve el primer instante del mes de t en loc.
func monthStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// monthWindow devuelve [inicio, inicio del mes siguiente) desplazado offset meses.
func monthWindow(now time.Time, loc *time.Location, offset int) (time.Time, time.Time) {
	start := monthStart(now, loc).AddDate(0, offset, 0)
	return start, start.AddDate(0, 1, 0)
}

func monthKey(start time.Time) string {
	return start.Format("2006-01")
}

func monthLabel(start time.Time) string {
	return fmt.Sprintf("%s/%02d", monthAbbrevPT[start.Month()-1], start.Year()%100)
}
