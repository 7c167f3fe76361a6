package logger

import "fmt"

// stringer renders typed string values (roles, resources, permissions) as
// plain strings so every handler prints them the same way.
func stringer(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
