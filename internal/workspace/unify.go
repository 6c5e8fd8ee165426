package workspace

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultMaxChars bounds the rendered prompt fragment.
const DefaultMaxChars = 3000

// noDateSentinel sorts entities without a date after every real ISO date.
const noDateSentinel = "9999-99-99"

// truncationMarker is appended when the fragment had to be cut.
const truncationMarker = "\n…"

// Unified is the result of merging one snapshot into a cross-domain view.
type Unified struct {
	Entities       []UnifiedEntity
	PromptFragment string
}

// Unify merges a snapshot into unified entities and renders a bounded text
// summary for prompt context.
//
// Calendar events seed one entity each. Cards, notes and daily items merge
// into the entity of their linked event when one exists, otherwise they seed
// their own domain-scoped entity. Date and status are first-writer-wins.
// The rendered fragment never exceeds maxChars (maxChars <= 0 means
// DefaultMaxChars).
func Unify(snap Snapshot, maxChars int) Unified {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	byKey := make(map[string]*UnifiedEntity)
	var order []string

	seed := func(key string) *UnifiedEntity {
		e := &UnifiedEntity{GlobalID: key}
		byKey[key] = e
		order = append(order, key)
		return e
	}

	for i := range snap.Events {
		ev := snap.Events[i]
		e := seed("event:" + ev.ID)
		e.Title = ev.Title
		e.Date = ev.Date
		e.Time = ev.Time
		e.Status = ev.Status
		e.Event = &ev
		e.addSource(ModuleCalendar)
	}

	for _, card := range snap.Cards {
		e := byKey["event:"+card.LinkedEventID]
		if card.LinkedEventID == "" || e == nil {
			e = seed("kanban:" + card.ID)
			e.Title = card.Title
		}
		e.Cards = append(e.Cards, card)
		e.addSource(ModuleKanban)
		if e.Date == "" {
			e.Date = card.DueDate
		}
		if e.Status == "" {
			e.Status = card.Column
		}
	}

	for _, note := range snap.Notes {
		e := byKey["event:"+note.LinkedEventID]
		if note.LinkedEventID == "" || e == nil {
			e = seed("note:" + note.ID)
			e.Title = note.Title
		}
		e.Notes = append(e.Notes, note)
		e.addSource(ModuleNotes)
	}

	for _, item := range snap.DailyItems {
		e := byKey["event:"+item.LinkedEventID]
		if item.LinkedEventID == "" || e == nil {
			e = seed("daily:" + item.ID)
			e.Title = item.Title
		}
		e.DailyItems = append(e.DailyItems, item)
		e.addSource(ModuleDaily)
		if e.Date == "" {
			e.Date = item.Date
		}
		if e.Status == "" && item.Done {
			e.Status = "done"
		}
	}

	entities := make([]UnifiedEntity, 0, len(order))
	for _, key := range order {
		entities = append(entities, *byKey[key])
	}

	coll := collate.New(language.Und)
	sort.SliceStable(entities, func(i, j int) bool {
		di, dj := sortDate(entities[i].Date), sortDate(entities[j].Date)
		if di != dj {
			return di < dj
		}
		return coll.CompareString(entities[i].Title, entities[j].Title) < 0
	})

	return Unified{
		Entities:       entities,
		PromptFragment: renderFragment(entities, maxChars),
	}
}

func sortDate(d string) string {
	if d == "" {
		return noDateSentinel
	}
	return d
}

// renderFragment writes one line per entity and truncates to maxChars runes.
func renderFragment(entities []UnifiedEntity, maxChars int) string {
	var sb strings.Builder
	for i, e := range entities {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- [")
		sb.WriteString(e.GlobalID)
		sb.WriteString("] ")
		sb.WriteString(e.Title)
		if len(e.Sources) > 0 {
			tags := make([]string, len(e.Sources))
			for j, s := range e.Sources {
				tags[j] = string(s)
			}
			sb.WriteString(" (")
			sb.WriteString(strings.Join(tags, ","))
			sb.WriteString(")")
		}
		if e.Date != "" {
			sb.WriteString(" date=")
			sb.WriteString(e.Date)
		}
		if e.Time != "" {
			sb.WriteString(" time=")
			sb.WriteString(e.Time)
		}
		if e.Status != "" {
			sb.WriteString(" status=")
			sb.WriteString(e.Status)
		}
	}
	return truncate(sb.String(), maxChars)
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	marker := []rune(truncationMarker)
	if maxChars <= len(marker) {
		return string(runes[:maxChars])
	}
	return string(runes[:maxChars-len(marker)]) + truncationMarker
}
