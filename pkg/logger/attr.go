package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Subject records the authenticated principal identifier under the key "subject".
func Subject(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("subject", id)
}

// Role records a role name under the key "role".
// Values are rendered through fmt so typed role strings log as plain text.
func Role(role any) slog.Attr {
	if role == nil {
		return slog.Attr{}
	}
	return slog.String("role", stringer(role))
}

// Permission records a permission under the key "permission".
func Permission(p any) slog.Attr {
	if p == nil {
		return slog.Attr{}
	}
	return slog.String("permission", stringer(p))
}

// Resource records a resource name under the key "resource".
func Resource(r any) slog.Attr {
	if r == nil {
		return slog.Attr{}
	}
	return slog.String("resource", stringer(r))
}

// Decision records an authorization outcome as "allow" or "deny" under the key "decision".
func Decision(allowed bool) slog.Attr {
	if allowed {
		return slog.String("decision", "allow")
	}
	return slog.String("decision", "deny")
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Path records a request path under the key "path".
func Path(p string) slog.Attr {
	return slog.String("path", p)
}
