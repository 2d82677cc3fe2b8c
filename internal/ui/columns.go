package ui

import (
	"time"

	"erp/internal/model"
	"erp/internal/table"
	"erp/internal/util"

	"github.com/charmbracelet/lipgloss"
)

func userColumns(now func() time.Time) []table.Column[model.UserRow] {
	return []table.Column[model.UserRow]{
		{
			ID: "id", Header: "ID", Sortable: true,
			Accessor: func(u model.UserRow) any { return u.ID },
			Meta:     table.ColumnMeta{Width: 6, Align: lipgloss.Right},
		},
		{
			ID: "name", Header: "Name", Sortable: true, Hideable: true,
			Accessor: func(u model.UserRow) any { return u.Name },
			Meta:     table.ColumnMeta{Width: 22},
		},
		{
			ID: "email", Header: "Email", Sortable: true, Hideable: true,
			Accessor: func(u model.UserRow) any { return u.Email },
			Meta:     table.ColumnMeta{Width: 32},
		},
		{
			ID: "role", Header: "Role", Sortable: true, Hideable: true, Filterable: true,
			Accessor: func(u model.UserRow) any { return u.Role },
			Meta:     table.ColumnMeta{Width: 10},
		},
		{
			ID: "status", Header: "Status", Sortable: true, Hideable: true, Filterable: true,
			Accessor: func(u model.UserRow) any { return u.Status },
			Meta:     table.ColumnMeta{Width: 11},
		},
		{
			ID: "created_at", Header: "Joined", Sortable: true, Hideable: true,
			Accessor: func(u model.UserRow) any { return u.CreatedAt },
			Cell:     func(u model.UserRow) string { return util.FormatDate(u.CreatedAt) },
			Meta:     table.ColumnMeta{Width: 14},
		},
		{
			ID: "last_login_at", Header: "Last login", Sortable: true, Hideable: true,
			Accessor: func(u model.UserRow) any { return u.LastLoginAt },
			Cell:     func(u model.UserRow) string { return util.FormatRelative(u.LastLoginAt, now()) },
			Meta:     table.ColumnMeta{Width: 16, HiddenByDefault: true},
		},
	}
}

func orderColumns() []table.Column[model.OrderRow] {
	return []table.Column[model.OrderRow]{
		{
			ID: "id", Header: "ID", Sortable: true,
			Accessor: func(o model.OrderRow) any { return o.ID },
			Meta:     table.ColumnMeta{Width: 6, Align: lipgloss.Right, HiddenByDefault: true},
		},
		{
			ID: "number", Header: "Order", Sortable: true,
			Accessor: func(o model.OrderRow) any { return o.Number },
			Meta:     table.ColumnMeta{Width: 12},
		},
		{
			ID: "customer_name", Header: "Customer", Sortable: true, Hideable: true, Filterable: true,
			Accessor: func(o model.OrderRow) any { return o.CustomerName },
			Meta:     table.ColumnMeta{Width: 20},
		},
		{
			ID: "category_name", Header: "Category", Sortable: true, Hideable: true, Filterable: true,
			Accessor: func(o model.OrderRow) any { return o.CategoryName },
			Meta:     table.ColumnMeta{Width: 16},
		},
		{
			ID: "status", Header: "Status", Sortable: true, Hideable: true, Filterable: true,
			Accessor: func(o model.OrderRow) any { return o.Status },
			Meta:     table.ColumnMeta{Width: 11},
		},
		{
			ID: "items", Header: "Items", Sortable: true, Hideable: true, Filterable: true,
			Accessor: func(o model.OrderRow) any { return o.Items },
			Meta:     table.ColumnMeta{Width: 7, Align: lipgloss.Right},
		},
		{
			ID: "total_cents", Header: "Total", Sortable: true, Hideable: true,
			Accessor: func(o model.OrderRow) any { return o.TotalCents },
			Cell:     func(o model.OrderRow) string { return util.FormatMoney(o.TotalCents, o.Currency) },
			Meta:     table.ColumnMeta{Width: 14, Align: lipgloss.Right},
		},
		{
			ID: "currency", Header: "Cur", Hideable: true, Filterable: true,
			Accessor: func(o model.OrderRow) any { return o.Currency },
			Meta:     table.ColumnMeta{Width: 6, HiddenByDefault: true},
		},
		{
			ID: "placed_at", Header: "Placed", Sortable: true, Hideable: true,
			Accessor: func(o model.OrderRow) any { return o.PlacedAt },
			Cell:     func(o model.OrderRow) string { return util.FormatDate(o.PlacedAt) },
			Meta:     table.ColumnMeta{Width: 14},
		},
	}
}

func categoryColumns() []table.Column[model.CategoryRow] {
	return []table.Column[model.CategoryRow]{
		{
			ID: "id", Header: "ID", Sortable: true,
			Accessor: func(c model.CategoryRow) any { return c.ID },
			Meta:     table.ColumnMeta{Width: 6, Align: lipgloss.Right},
		},
		{
			ID: "name", Header: "Name", Sortable: true,
			Accessor: func(c model.CategoryRow) any { return c.Name },
			Meta:     table.ColumnMeta{Width: 18},
		},
		{
			ID: "slug", Header: "Slug", Sortable: true, Hideable: true,
			Accessor: func(c model.CategoryRow) any { return c.Slug },
			Meta:     table.ColumnMeta{Width: 16, HiddenByDefault: true},
		},
		{
			ID: "parent_name", Header: "Parent", Sortable: true, Hideable: true, Filterable: true,
			Accessor: func(c model.CategoryRow) any {
				if c.ParentName == nil {
					return nil
				}
				return *c.ParentName
			},
			Cell: func(c model.CategoryRow) string { return util.FormatOptional(c.ParentName) },
			Meta: table.ColumnMeta{Width: 14},
		},
		{
			ID: "active", Header: "Active", Sortable: true, Hideable: true, Filterable: true,
			Accessor: func(c model.CategoryRow) any { return c.Active },
			Cell:     func(c model.CategoryRow) string { return util.FormatBool(c.Active) },
			Meta:     table.ColumnMeta{Width: 8, Align: lipgloss.Center},
		},
		{
			ID: "order_count", Header: "Orders", Sortable: true, Hideable: true,
			Accessor: func(c model.CategoryRow) any { return c.OrderCount },
			Cell:     func(c model.CategoryRow) string { return util.FormatCount(c.OrderCount) },
			Meta:     table.ColumnMeta{Width: 8, Align: lipgloss.Right},
		},
		{
			ID: "created_at", Header: "Created", Sortable: true, Hideable: true,
			Accessor: func(c model.CategoryRow) any { return c.CreatedAt },
			Cell:     func(c model.CategoryRow) string { return util.FormatDate(c.CreatedAt) },
			Meta:     table.ColumnMeta{Width: 14, HiddenByDefault: true},
		},
	}
}

func userLabel(u model.UserRow) string         { return "user " + u.Name }
func orderLabel(o model.OrderRow) string       { return "order " + o.Number }
func categoryLabel(c model.CategoryRow) string { return "category " + c.Name }
