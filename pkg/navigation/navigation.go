// Package navigation describes the dashboard sidebar and filters it by the
// resources a role may open.
package navigation

import (
	"strings"

	"github.com/intelgrid/dashguard/pkg/rbac"
)

// Item is one sidebar entry. Key is the translation key of its label.
type Item struct {
	Key      string        `json:"key"`
	Href     string        `json:"href"`
	Resource rbac.Resource `json:"resource"`
}

// DefaultItems returns the sidebar in display order.
func DefaultItems() []Item {
	return []Item{
		{Key: "nav.dashboard", Href: "/", Resource: rbac.ResourceDashboard},
		{Key: "nav.reports", Href: "/reports", Resource: rbac.ResourceReports},
		{Key: "nav.alerts", Href: "/alerts", Resource: rbac.ResourceAlerts},
		{Key: "nav.map", Href: "/map", Resource: rbac.ResourceMap},
		{Key: "nav.data", Href: "/data-collection", Resource: rbac.ResourceData},
		{Key: "nav.users", Href: "/users", Resource: rbac.ResourceUsers},
		{Key: "nav.audit", Href: "/audit", Resource: rbac.ResourceAudit},
		{Key: "nav.settings", Href: "/settings", Resource: rbac.ResourceSettings},
	}
}

// Visible returns the items whose resource role can access, in input order.
// The result is never nil.
func Visible(auth *rbac.Authorizer, role rbac.Role, items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if auth.CanAccess(role, it.Resource) {
			out = append(out, it)
		}
	}
	return out
}

// Active reports whether the item is the current page. The root item is only
// active on "/" itself.
func (it Item) Active(path string) bool {
	if it.Href == "/" {
		return path == "/"
	}
	return path == it.Href || strings.HasPrefix(path, it.Href+"/")
}

// Match finds the item that owns path, so page routes can be guarded by the
// resource of their sidebar entry.
func Match(items []Item, path string) (Item, bool) {
	for _, it := range items {
		if it.Active(path) {
			return it, true
		}
	}
	return Item{}, false
}
