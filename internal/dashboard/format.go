package dashboard

import (
	"fmt"
	"time"

	"github.com/goodsign/monday"

	"github.com/zapponejosh/ramadan-api/internal/calendar"
)

// Norwegian (bokmål) display texts.
const (
	UnknownTime   = "Ukjent"
	OverviewTitle = "Ramadan oversikt"
	OutsidePill   = "Utenfor Ramadan perioden"

	HintToday    = "I dag"
	HintUnlocked = "Åpne"
	HintLocked   = "Låst"

	LockedText   = "Denne dagen er ikke her enda. Innholdet blir tilgjengelig når datoen kommer."
	NoEventsText = "Ingen spesielle markeringer er satt for denne dagen. Bruk den til stabilitet og gode vaner."
)

// FormatClock renders t as HH:MM:SS in loc.
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04:05")
}

// FormatHourMinute renders t as HH:MM in loc, or "Ukjent" for the zero time.
func FormatHourMinute(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return UnknownTime
	}
	return t.In(loc).Format("15:04")
}

// FormatLongDate renders t as e.g. "onsdag 18. februar 2026" in loc.
func FormatLongDate(t time.Time, loc *time.Location) string {
	return monday.Format(t.In(loc), monday.DefaultFormatNbNOFull, monday.LocaleNbNO)
}

// Title is the headline: "Ramadan dag N av L" during the period.
func Title(p calendar.Progress, length int) string {
	if !p.InPeriod {
		return OverviewTitle
	}
	return fmt.Sprintf("Ramadan dag %d av %d", p.OrdinalDay, length)
}

// StatusPill is the short status next to the day grid.
func StatusPill(p calendar.Progress) string {
	if !p.InPeriod {
		return OutsidePill
	}
	return fmt.Sprintf("Du er på dag %d", p.OrdinalDay)
}

// DayHint labels a grid cell.
func DayHint(unlocked, isToday bool) string {
	switch {
	case !unlocked:
		return HintLocked
	case isToday:
		return HintToday
	default:
		return HintUnlocked
	}
}
