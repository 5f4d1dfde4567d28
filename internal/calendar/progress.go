package calendar

import (
	"time"

	"github.com/zapponejosh/ramadan-api/internal/solar"
)

// Progress is every derived countdown value for one instant.
type Progress struct {
	Now              time.Time   `json:"now"`
	Today            Date        `json:"today"`
	Phase            Phase       `json:"phase"`
	DayIndex         int         `json:"day_index"`
	InPeriod         bool        `json:"in_period"`
	OrdinalDay       int         `json:"ordinal_day,omitempty"` // 0 outside the period
	Sun              solar.Times `json:"sun"`
	CompletedDays    int         `json:"completed_days"`
	RemainingDays    int         `json:"remaining_days"`
	CompletedPercent float64     `json:"completed_percent"`
	RemainingPercent float64     `json:"remaining_percent"`
	SunPosition      float64     `json:"sun_position"`
	Glow             float64     `json:"glow"`
}

// Progress computes all values for now in one pass, asking the solar source
// for today's times only once.
func (c *Calculator) Progress(now time.Time) Progress {
	today := c.Today(now)
	idx := c.period.IndexOf(today)
	length := c.period.Length()
	sun := c.sun.Times(today.Year, today.Month, today.Day)

	p := Progress{
		Now:      now,
		Today:    today,
		Phase:    c.Phase(now),
		DayIndex: idx,
		InPeriod: idx >= 0 && idx < length,
		Sun:      sun,
	}

	if p.InPeriod {
		p.OrdinalDay = idx + 1
		p.CompletedDays = completedDays(p.OrdinalDay, now, sun)
	}
	p.RemainingDays = remainingDays(length, p.CompletedDays)
	p.CompletedPercent = Percent(p.CompletedDays, length)
	p.RemainingPercent = 100 - p.CompletedPercent
	p.SunPosition = SunHorizontalPosition(now, sun)
	p.Glow = BackgroundGlow(c.sun.Altitude(now))

	return p
}
