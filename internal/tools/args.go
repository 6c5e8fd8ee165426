package tools

import "fmt"

// StringArg extracts a string argument, tolerating absent keys.
func StringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// BoolArg extracts a bool argument, defaulting to false.
func BoolArg(args map[string]any, key string) bool {
	v, ok := args[key].(bool)
	return ok && v
}
