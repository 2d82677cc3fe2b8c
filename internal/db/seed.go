package db

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"erp/internal/model"

	"github.com/jmoiron/sqlx"
)

var (
	seedFirstNames = []string{"Ada", "Grace", "Linus", "Ken", "Barbara", "Dennis", "Margaret", "Alan", "Frances", "Edsger", "Radia", "John", "Hedy", "Donald", "Sophie", "Niklaus"}
	seedLastNames  = []string{"Lovelace", "Hopper", "Torvalds", "Thompson", "Liskov", "Ritchie", "Hamilton", "Turing", "Allen", "Dijkstra", "Perlman", "Backus", "Lamarr", "Knuth", "Wilson", "Wirth"}
	seedCategories = []struct {
		name   string
		parent string
	}{
		{"Hardware", ""},
		{"Laptops", "Hardware"},
		{"Monitors", "Hardware"},
		{"Peripherals", "Hardware"},
		{"Software", ""},
		{"Licenses", "Software"},
		{"Subscriptions", "Software"},
		{"Services", ""},
		{"Consulting", "Services"},
		{"Support", "Services"},
	}
	seedCurrencies = []string{"USD", "USD", "USD", "EUR", "GBP"}
)

// Demo data volume used by the console and erp-api on first start.
const (
	DefaultSeedUsers  = 60
	DefaultSeedOrders = 400
)

// seedEpoch anchors generated timestamps so demo data is stable.
var seedEpoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// Seed fills an empty database with deterministic demo data. A database that
// already has users is left alone.
func Seed(ctx context.Context, db *sqlx.DB, users, orders int) error {
	var n int
	if err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM users"); err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if n > 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(42))

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for i := 1; i <= users; i++ {
		first := seedFirstNames[rng.Intn(len(seedFirstNames))]
		last := seedLastNames[rng.Intn(len(seedLastNames))]
		created := seedEpoch.Add(time.Duration(i) * 37 * time.Hour)
		u := model.UserRow{
			ID:        int64(i),
			Name:      first + " " + last,
			Email:     fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			Role:      model.UserRoles[weighted(rng, 1, 3, 8)],
			Status:    model.UserStatuses[weighted(rng, 8, 1, 1)],
			CreatedAt: created.Format(time.RFC3339),
		}
		if u.Status == "active" {
			login := created.Add(time.Duration(rng.Intn(24*90)) * time.Hour).Format(time.RFC3339)
			u.LastLoginAt = &login
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO users (id, name, email, role, status, created_at, last_login_at)
			VALUES (:id, :name, :email, :role, :status, :created_at, :last_login_at)`, u); err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}

	ids := make(map[string]int64, len(seedCategories))
	var leaves []int64
	for i, c := range seedCategories {
		id := int64(i + 1)
		ids[c.name] = id
		var parent *int64
		if c.parent != "" {
			p := ids[c.parent]
			parent = &p
			leaves = append(leaves, id)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO categories (id, name, slug, parent_id, active, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			id, c.name, strings.ToLower(c.name), parent, i != len(seedCategories)-1, seedEpoch.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("failed to seed category: %w", err)
		}
	}

	for i := 1; i <= orders && users > 0; i++ {
		items := 1 + rng.Intn(5)
		o := model.OrderRow{
			ID:         int64(i),
			Number:     fmt.Sprintf("ORD-%05d", 1000+i),
			UserID:     int64(1 + rng.Intn(users)),
			CategoryID: leaves[rng.Intn(len(leaves))],
			Status:     model.OrderStatuses[weighted(rng, 2, 5, 6, 1, 1)],
			Items:      items,
			TotalCents: int64(items) * int64(500+rng.Intn(250000)),
			Currency:   seedCurrencies[rng.Intn(len(seedCurrencies))],
			PlacedAt:   seedEpoch.Add(time.Duration(i)*7*time.Hour + time.Duration(rng.Intn(3600))*time.Second).Format(time.RFC3339),
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO orders (id, number, user_id, category_id, status, items, total_cents, currency, placed_at)
			VALUES (:id, :number, :user_id, :category_id, :status, :items, :total_cents, :currency, :placed_at)`, o); err != nil {
			return fmt.Errorf("failed to seed order: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

// weighted picks an index with probability proportional to its weight.
func weighted(rng *rand.Rand, weights ...int) int {
	sum := 0
	for _, w := range weights {
		sum += w
	}
	n := rng.Intn(sum)
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}
