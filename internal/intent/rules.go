package intent

import (
	"regexp"
	"strings"

	"dayflow/internal/workspace"
)

// The classifier is rule-table driven: every category carries one pattern set
// per supported language. Adding a language means adding patterns, not code.

type language string

const (
	langEnglish language = "en"
	langSpanish language = "es"
)

// words builds a whole-word alternation pattern. Go's \b is ASCII-only and
// misfires on accent-final words like "qué", so boundaries are expressed as
// non-letter characters instead.
func words(list ...string) *regexp.Regexp {
	return regexp.MustCompile(`(^|[^\p{L}])(` + strings.Join(list, "|") + `)($|[^\p{L}])`)
}

// navigationRule maps route vocabulary to a UI route. The route word must be
// combined with an explicit open/show verb to count as navigation.
type navigationRule struct {
	route    string
	patterns map[language]*regexp.Regexp
}

var navigationVerbs = map[language]*regexp.Regexp{
	langEnglish: words("open", "show", "go to", "take me to", "switch to"),
	langSpanish: words("abre", "abrir", "muestra", "muéstrame", "ve a", "llévame a", "cambia a"),
}

var navigationRules = []navigationRule{
	{
		route: "/calendar",
		patterns: map[language]*regexp.Regexp{
			langEnglish: words("calendar", "schedule view"),
			langSpanish: words("calendario"),
		},
	},
	{
		route: "/kanban",
		patterns: map[language]*regexp.Regexp{
			langEnglish: words("kanban", "board"),
			langSpanish: words("tablero"),
		},
	},
	{
		route: "/notes",
		patterns: map[language]*regexp.Regexp{
			langEnglish: words("note", "notes"),
			langSpanish: words("nota", "notas"),
		},
	},
	{
		route: "/daily",
		patterns: map[language]*regexp.Regexp{
			langEnglish: words("daily", "planner", "today"),
			langSpanish: words("agenda", "hoy"),
		},
	},
	{
		route: "/settings",
		patterns: map[language]*regexp.Regexp{
			langEnglish: words("settings", "preferences"),
			langSpanish: words("ajustes", "configuración"),
		},
	},
}

// actionRule maps action verbs to an action kind, one pattern set per
// language. Rules are evaluated in order; the first match wins.
type actionRule struct {
	kind     ActionKind
	patterns map[language]*regexp.Regexp
}

var actionRules = []actionRule{
	{
		kind: ActionCreate,
		patterns: map[language]*regexp.Regexp{
			langEnglish: words("create", "add", "new", "make", "schedule", "write down"),
			langSpanish: words("crea", "crear", "añade", "añadir", "agrega", "agregar", "programa", "apunta"),
		},
	},
	{
		kind: ActionUpdate,
		patterns: map[language]*regexp.Regexp{
			langEnglish: words("update", "change", "edit", "rename", "modify", "reschedule"),
			langSpanish: words("actualiza", "actualizar", "cambia", "cambiar", "edita", "editar", "renombra", "modifica"),
		},
	},
	{
		kind: ActionDelete,
		patterns: map[language]*regexp.Regexp{
			langEnglish: words("delete", "remove", "cancel", "clear"),
			langSpanish: words("elimina", "eliminar", "borra", "borrar", "cancela", "cancelar", "quita", "quitar"),
		},
	},
	{
		kind: ActionMove,
		patterns: map[language]*regexp.Regexp{
			langEnglish: words("move", "drag", "postpone", "push back", "shift"),
			langSpanish: words("mueve", "mover", "pasa", "pasar", "pospone", "posponer", "aplaza", "aplazar"),
		},
	},
	{
		kind: ActionGenerate,
		patterns: map[language]*regexp.Regexp{
			langEnglish: words("generate", "summarize", "draft", "plan my"),
			langSpanish: words("genera", "generar", "resume", "resumir", "redacta", "redactar", "planifica"),
		},
	},
}

var interrogatives = map[language]*regexp.Regexp{
	langEnglish: words("what", "when", "where", "who", "which", "why", "how", "do i", "is there", "are there"),
	langSpanish: words("qué", "cuándo", "dónde", "quién", "cuál", "por qué", "cómo", "hay"),
}

// spanishSignals feed DetectLanguage only.
var spanishSignals = []*regexp.Regexp{
	words("crea", "añade", "agrega", "elimina", "borra", "mueve", "actualiza", "cambia", "muestra", "abre", "genera", "resume"),
	words("qué", "cuándo", "dónde", "cómo", "cuál", "quién", "por qué"),
	words("nota", "notas", "tarea", "tareas", "reunión", "calendario", "tablero", "agenda", "hoy", "mañana"),
}

// moduleVocab matches domain vocabulary for module selection, both languages
// folded into one pattern per module.
type moduleVocab struct {
	module  workspace.Module
	pattern *regexp.Regexp
}

func (v moduleVocab) matches(msg string) bool {
	return v.pattern.MatchString(msg)
}

var moduleVocabulary = []moduleVocab{
	{workspace.ModuleCalendar, words("calendar", "event", "meeting", "appointment", "schedule", "calendario", "evento", "reunión", "cita")},
	{workspace.ModuleKanban, words("kanban", "board", "card", "column", "task", "tablero", "tarjeta", "columna", "tarea")},
	{workspace.ModuleNotes, words("note", "notes", "nota", "notas", "apunte")},
	{workspace.ModuleDaily, words("today", "daily", "planner", "tonight", "hoy", "día", "agenda", "planificador")},
}

var languages = []language{langEnglish, langSpanish}

func matchNavigation(msg string) (string, bool) {
	verb := false
	for _, lang := range languages {
		if navigationVerbs[lang].MatchString(msg) {
			verb = true
			break
		}
	}
	if !verb {
		return "", false
	}
	for _, rule := range navigationRules {
		for _, lang := range languages {
			if rule.patterns[lang].MatchString(msg) {
				return rule.route, true
			}
		}
	}
	return "", false
}

func matchActionVerb(msg string) (ActionKind, bool) {
	for _, rule := range actionRules {
		for _, lang := range languages {
			if rule.patterns[lang].MatchString(msg) {
				return rule.kind, true
			}
		}
	}
	return "", false
}

func isQuestion(msg string) bool {
	if strings.HasSuffix(msg, "?") {
		return true
	}
	for _, lang := range languages {
		if interrogatives[lang].MatchString(msg) {
			return true
		}
	}
	return false
}
