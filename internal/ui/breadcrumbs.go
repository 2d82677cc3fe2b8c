package ui

import (
	"strings"

	"erp/internal/util"
)

// Crumb is one step of the breadcrumb trail.
type Crumb struct {
	Label  string
	Path   string
	Active bool
}

// Breadcrumbs derives the trail for a slash route. "/orders/42" becomes
// Home › Orders › #42. Numeric segments render as ids, kebab and snake case
// segments are title-cased. Query and fragment are ignored.
func Breadcrumbs(route string) []Crumb {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}

	crumbs := []Crumb{{Label: "Home", Path: "/"}}
	path := ""
	for _, seg := range strings.Split(route, "/") {
		if seg == "" {
			continue
		}
		path += "/" + seg
		crumbs = append(crumbs, Crumb{Label: crumbLabel(seg), Path: path})
	}
	crumbs[len(crumbs)-1].Active = true
	return crumbs
}

func crumbLabel(seg string) string {
	if isNumeric(seg) {
		return "#" + seg
	}
	return util.TitleCase(seg)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// RenderBreadcrumbs joins crumbs with a separator, highlighting the active one.
func RenderBreadcrumbs(crumbs []Crumb) string {
	separator := BreadcrumbStyle.Render(" › ")
	parts := make([]string, len(crumbs))
	for i, c := range crumbs {
		if c.Active {
			parts[i] = BreadcrumbActiveStyle.Render(c.Label)
		} else {
			parts[i] = BreadcrumbStyle.Render(c.Label)
		}
	}
	return strings.Join(parts, separator)
}
