package calendar

import "fmt"

// Event is a static annotation shown on a period day.
type Event struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Short string `json:"short"`
	More  string `json:"more"`
}

// eventRule fires for some ordinal days. Rules are evaluated in slice order
// and every matching rule contributes its event.
type eventRule struct {
	matches func(day int) bool
	event   func(day int) Event
}

var eventRules = []eventRule{
	{
		matches: func(day int) bool { return day == 1 },
		event: func(int) Event {
			return Event{
				Key:   "start",
				Title: "Første dag av Ramadan",
				Short: "En ny start. Mange setter intensjon, lager en enkel plan og bygger gode vaner fra dag én.",
				More:  "Fokuser på små, stabile handlinger. Hold det realistisk: bønn, lesing, givertjeneste, og godhet i hverdagen. Målet er kontinuitet.",
			}
		},
	},
	{
		matches: func(day int) bool { return day == 17 },
		event: func(int) Event {
			return Event{
				Key:   "nuzul",
				Title: "Nuzul al Quran",
				Short: "I mange miljøer markeres dette som et tidspunkt knyttet til åpenbaringen av Koranen.",
				More:  "Dato og tradisjon varierer. En fin måte å markere det på er ekstra lesing, refleksjon, og en konkret liten handling som du tar med videre.",
			}
		},
	},
	{
		matches: func(day int) bool { return day >= 21 },
		event: func(int) Event {
			return Event{
				Key:   "last10",
				Title: "De siste ti dagene",
				Short: "Nå begynner den mest intense delen for mange. Flere øker nattbønn, lesing og fokus.",
				More:  "Mange søker Laylat al Qadr i de siste ti, spesielt oddetallsnettene. En enkel plan: litt ekstra hver kveld, og mer på oddetallsnettene.",
			}
		},
	},
	{
		matches: isOddNight,
		event: func(day int) Event {
			return Event{
				Key:   fmt.Sprintf("odd-%d", day),
				Title: fmt.Sprintf("Oddetallsnatt rundt dag %d", day),
				Short: "Mange legger ekstra innsats i disse nettene når de søker Laylat al Qadr.",
				More:  "Tradisjonelt anbefales det å søke den i de siste ti, særlig på oddetallsnetter. Gjør det enkelt: ekstra dua, litt mer Koran, og rolig fokus.",
			}
		},
	},
	{
		matches: func(day int) bool { return day == 27 },
		event: func(int) Event {
			return Event{
				Key:   "qadr",
				Title: "Laylat al Qadr",
				Short: "Mange forbinder denne perioden med Natten av verdi og søker den spesielt rundt dag 27.",
				More:  "Den eksakte natten er ikke entydig, derfor er anbefalingen å søke den i flere av de siste ti nettene, særlig oddetallsnetter. Prioriter bønn, dua, Koran og givertjeneste.",
			}
		},
	},
	{
		matches: func(day int) bool { return day == 29 },
		event: func(int) Event {
			return Event{
				Key:   "end",
				Title: "Siste dag",
				Short: "Siste etappe. En fin dag for takknemlighet, oppsummering, og å planlegge hva du tar med videre.",
				More:  "Skriv ned tre ting som gikk bra, én ting du vil forbedre, og én vane du vil fortsette med etter Ramadan.",
			}
		},
	},
}

// isOddNight matches the odd nights of the last ten: 21, 23, 25, 27 and 29.
func isOddNight(day int) bool {
	return day >= 21 && day <= 29 && day%2 == 1
}

// SpecialEventsForOrdinalDay returns the annotations for a period day, in
// rule order. Days without special markings return an empty slice.
func SpecialEventsForOrdinalDay(day int) []Event {
	events := []Event{}
	for _, rule := range eventRules {
		if rule.matches(day) {
			events = append(events, rule.event(day))
		}
	}
	return events
}
