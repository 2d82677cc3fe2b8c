package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func labels(crumbs []Crumb) []string {
	out := make([]string, len(crumbs))
	for i, c := range crumbs {
		out[i] = c.Label
	}
	return out
}

func TestBreadcrumbs(t *testing.T) {
	tests := []struct {
		route string
		want  []string
	}{
		{"/", []string{"Home"}},
		{"", []string{"Home"}},
		{"/orders", []string{"Home", "Orders"}},
		{"/orders/42", []string{"Home", "Orders", "#42"}},
		{"/order-items/7/", []string{"Home", "Order Items", "#7"}},
		{"/user_groups", []string{"Home", "User Groups"}},
		{"/users?page=2#top", []string{"Home", "Users"}},
		{"//categories//3", []string{"Home", "Categories", "#3"}},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.want, labels(Breadcrumbs(tt.route)))
		})
	}
}

func TestBreadcrumbsActiveAndPaths(t *testing.T) {
	crumbs := Breadcrumbs("/orders/42")
	assert.Equal(t, []Crumb{
		{Label: "Home", Path: "/"},
		{Label: "Orders", Path: "/orders"},
		{Label: "#42", Path: "/orders/42", Active: true},
	}, crumbs)

	home := Breadcrumbs("/")
	assert.True(t, home[0].Active)
}

func TestRenderBreadcrumbs(t *testing.T) {
	out := RenderBreadcrumbs(Breadcrumbs("/orders/42"))
	assert.Contains(t, out, "Home")
	assert.Contains(t, out, "Orders")
	assert.Contains(t, out, "#42")
	assert.Contains(t, out, "›")
}
