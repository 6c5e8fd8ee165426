// Package workspace defines the cross-domain data model shared by the agent
// core: the per-domain snapshot records handed in by the domain stores, and
// the unified entity view built from them for prompt context.
package workspace

// Module identifies a domain area of the workspace. Each module owns its own
// entities and tools.
type Module string

const (
	ModuleCalendar Module = "calendar"
	ModuleKanban   Module = "kanban"
	ModuleNotes    Module = "notes"
	ModuleDaily    Module = "daily"
)

// AllModules returns every domain module in canonical order.
func AllModules() []Module {
	return []Module{ModuleCalendar, ModuleKanban, ModuleNotes, ModuleDaily}
}

// CalendarEvent is a calendar record as provided by the calendar store.
// Dates are ISO (YYYY-MM-DD) and times are HH:MM; both may be empty.
type CalendarEvent struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Date   string `json:"date,omitempty"`
	Time   string `json:"time,omitempty"`
	Status string `json:"status,omitempty"`
}

// KanbanCard is a kanban record. LinkedEventID, when set, ties the card to a
// calendar event and drives cross-domain merging.
type KanbanCard struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Column        string `json:"column,omitempty"`
	DueDate       string `json:"dueDate,omitempty"`
	LinkedEventID string `json:"linkedEventId,omitempty"`
}

// Note is a notes record, optionally linked to a calendar event.
type Note struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content,omitempty"`
	LinkedEventID string `json:"linkedEventId,omitempty"`
}

// DailyItem is a daily-planner entry, optionally linked to a calendar event.
type DailyItem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Date          string `json:"date,omitempty"`
	Done          bool   `json:"done,omitempty"`
	LinkedEventID string `json:"linkedEventId,omitempty"`
}

// Snapshot carries one user's domain records for a single turn. The agent
// core treats the contents as opaque, already-validated data.
type Snapshot struct {
	Events     []CalendarEvent `json:"events,omitempty"`
	Cards      []KanbanCard    `json:"cards,omitempty"`
	Notes      []Note          `json:"notes,omitempty"`
	DailyItems []DailyItem     `json:"dailyItems,omitempty"`
}

// Empty reports whether the snapshot carries no records at all.
func (s Snapshot) Empty() bool {
	return len(s.Events) == 0 && len(s.Cards) == 0 && len(s.Notes) == 0 && len(s.DailyItems) == 0
}

// UnifiedEntity is the cross-domain view of one real-world item. Records from
// different modules that reference the same calendar event collapse into a
// single entity; everything else stays separate.
type UnifiedEntity struct {
	// GlobalID is the canonical cross-domain key: "event:<id>" when a
	// calendar event anchors the entity, otherwise a domain-scoped key
	// such as "kanban:<cardId>".
	GlobalID string `json:"globalEntityId"`
	Title    string `json:"title"`

	// Sources lists the modules that contributed, in first-seen order,
	// without duplicates.
	Sources []Module `json:"sources"`

	Date   string `json:"date,omitempty"`
	Time   string `json:"time,omitempty"`
	Status string `json:"status,omitempty"`

	Event      *CalendarEvent `json:"event,omitempty"`
	Cards      []KanbanCard   `json:"cards,omitempty"`
	Notes      []Note         `json:"notes,omitempty"`
	DailyItems []DailyItem    `json:"dailyItems,omitempty"`
}

func (e *UnifiedEntity) addSource(m Module) {
	for _, s := range e.Sources {
		if s == m {
			return
		}
	}
	e.Sources = append(e.Sources, m)
}
