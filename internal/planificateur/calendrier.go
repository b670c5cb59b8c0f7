package planificateur

import "time"

// Business hours in Europe/Paris: 08:00–17:00, Monday to Saturday.
const (
	heureOuverture = 8
	heureFermeture = 17
)

// NextBusinessSlot returns t when it falls inside business hours, otherwise the
// next opening slot: before 08:00 the same day at 08:00, from 17:00 on the next
// business day at 08:00, Sundays always the next Monday at 08:00.
func NextBusinessSlot(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	for {
		if local.Weekday() == time.Sunday {
			local = ouverture(local.AddDate(0, 0, 1))
			continue
		}
		if local.Hour() < heureOuverture {
			return ouverture(local)
		}
		if local.Hour() >= heureFermeture {
			local = ouverture(local.AddDate(0, 0, 1))
			continue
		}
		return local
	}
}

func ouverture(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), heureOuverture, 0, 0, 0, t.Location())
}
