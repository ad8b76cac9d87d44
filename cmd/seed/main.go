// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"opticore/internal/core/id"
	"opticore/internal/infrastructure/storage/postgres"
	"opticore/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to database
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	// Seed permissions and roles first: the admin user references them
	if err := seedRBAC(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed roles and permissions", "error", err)
	}

	// Seed admin user
	if _, err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	// Seed demo data if requested
	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// permissionSeed is one row of the permission matrix.
type permissionSeed struct {
	resource string
	action   string
}

func (p permissionSeed) code() string {
	return p.resource + ":" + p.action
}

// buildPermissions returns the full permission matrix the API checks.
// Catalog CRUD per catalog, lifecycle transitions per step, ledger
// operations per kind.
func buildPermissions() []permissionSeed {
	var perms []permissionSeed

	for _, catalog := range []string{"brand", "store_group", "store", "product"} {
		for _, action := range []string{"read", "create", "update", "delete"} {
			perms = append(perms, permissionSeed{"catalog:" + catalog, action})
		}
	}

	for _, action := range []string{"read", "create", "update", "confirm", "ship", "deliver", "cancel"} {
		perms = append(perms, permissionSeed{"document:order", action})
	}

	for _, action := range []string{"read", "deposit", "discount", "return"} {
		perms = append(perms, permissionSeed{"receivables", action})
	}

	for _, action := range []string{"read", "receive", "adjust"} {
		perms = append(perms, permissionSeed{"stock", action})
	}

	for _, action := range []string{"read", "manage"} {
		perms = append(perms, permissionSeed{"pricing", action})
	}

	return perms
}

func seedRBAC(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	perms := buildPermissions()

	for _, p := range perms {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO permissions (id, code, name, description, resource, action)
			VALUES ($1, $2, $3, '', $4, $5)
			ON CONFLICT (code) DO NOTHING
		`, id.New(), p.code(), p.code(), p.resource, p.action)
		if err != nil {
			return fmt.Errorf("insert permission %s: %w", p.code(), err)
		}
	}
	log.Infow("permissions seeded", "count", len(perms))

	roles := []struct {
		code        string
		name        string
		description string
		isSystem    bool
	}{
		{"admin", "Administrator", "Full access to everything", true},
		{"sales", "Sales Manager", "Orders, receivables and catalog reads", false},
		{"warehouse", "Warehouse Operator", "Stock movements and order fulfillment", false},
		{"pricing_manager", "Pricing Manager", "Per-store discount rules", false},
	}

	for _, r := range roles {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO roles (id, code, name, description, is_system, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			ON CONFLICT (code) DO NOTHING
		`, id.New(), r.code, r.name, r.description, r.isSystem)
		if err != nil {
			return fmt.Errorf("insert role %s: %w", r.code, err)
		}
	}

	// Grant matrices. Admin passes all checks via is_admin, but gets
	// the full set anyway so the role is meaningful on its own.
	grants := map[string][]string{
		"admin": allCodes(perms),
		"sales": {
			"catalog:brand:read", "catalog:store_group:read", "catalog:store:read", "catalog:product:read",
			"document:order:read", "document:order:create", "document:order:update", "document:order:cancel",
			"receivables:read", "receivables:deposit", "receivables:discount", "receivables:return",
			"pricing:read",
		},
		"warehouse": {
			"catalog:product:read", "catalog:store:read",
			"document:order:read", "document:order:confirm", "document:order:ship", "document:order:deliver",
			"stock:read", "stock:receive", "stock:adjust",
		},
		"pricing_manager": {
			"catalog:brand:read", "catalog:store_group:read", "catalog:store:read", "catalog:product:read",
			"pricing:read", "pricing:manage",
		},
	}

	for roleCode, permCodes := range grants {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO role_permissions (role_id, permission_id, created_at)
			SELECT r.id, p.id, NOW()
			FROM roles r
			JOIN permissions p ON p.code = ANY($2)
			WHERE r.code = $1
			ON CONFLICT DO NOTHING
		`, roleCode, permCodes)
		if err != nil {
			return fmt.Errorf("grant permissions to %s: %w", roleCode, err)
		}
	}

	log.Infow("roles seeded", "count", len(roles))
	return nil
}

func allCodes(perms []permissionSeed) []string {
	codes := make([]string, len(perms))
	for i, p := range perms {
		codes[i] = p.code()
	}
	return codes
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@opticore.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	// Check if admin already exists
	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1 AND deleted_at IS NULL`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return existingID, nil
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), fmt.Errorf("check admin exists: %w", err)
	}

	// Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil(), fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	now := time.Now()

	// Create admin user
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			is_active, is_admin, email_verified, email_verified_at,
			created_at, updated_at, version
		)
		VALUES ($1, $2, $3, 'System', 'Admin', true, true, true, $4, $4, $4, 1)
	`, userID, adminEmail, string(passwordHash), now)
	if err != nil {
		return id.Nil(), fmt.Errorf("insert admin user: %w", err)
	}

	// Assign admin role
	var adminRoleID id.ID
	err = pool.Pool.QueryRow(ctx,
		`SELECT id FROM roles WHERE code = 'admin'`,
	).Scan(&adminRoleID)
	if err != nil {
		log.Warnw("admin role not found, skipping role assignment", "error", err)
	} else {
		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id, granted_by)
			VALUES ($1, $2, NULL)
			ON CONFLICT (user_id, role_id) DO NOTHING
		`, userID, adminRoleID)
		if err != nil {
			log.Warnw("failed to assign admin role", "error", err)
		}
	}

	log.Infow("admin user created",
		"email", adminEmail,
		"user_id", userID,
	)

	return userID, nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	// 1. Brands
	brands := []struct {
		code         string
		name         string
		manufacturer string
		country      string
	}{
		{"BR-001", "Essilor", "EssilorLuxottica", "FR"},
		{"BR-002", "Hoya Vision", "Hoya Corporation", "JP"},
		{"BR-003", "Zeiss", "Carl Zeiss Vision", "DE"},
	}

	brandIDs := make(map[string]id.ID)
	for _, b := range brands {
		bid := id.New()
		commandTag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_brands (id, code, name, manufacturer, country_code, active, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $4, $5, true, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, bid, b.code, b.name, b.manufacturer, b.country)
		if err != nil {
			log.Warnw("failed to seed brand", "name", b.name, "error", err)
			continue
		}
		if commandTag.RowsAffected() == 0 {
			if err := pool.Pool.QueryRow(ctx,
				`SELECT id FROM cat_brands WHERE code = $1 AND deletion_mark = FALSE`,
				b.code,
			).Scan(&bid); err != nil {
				log.Warnw("failed to fetch existing brand", "code", b.code, "error", err)
				continue
			}
		}
		brandIDs[b.code] = bid
	}

	// 2. Store groups (pricing tiers)
	groups := []struct {
		code string
		name string
		rate string
	}{
		{"SG-001", "Standard", "0"},
		{"SG-002", "Silver Partner", "0.03"},
		{"SG-003", "Gold Partner", "0.05"},
	}

	groupIDs := make(map[string]id.ID)
	for _, g := range groups {
		gid := id.New()
		commandTag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_store_groups (id, code, name, base_discount_rate, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $4, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, gid, g.code, g.name, g.rate)
		if err != nil {
			log.Warnw("failed to seed store group", "name", g.name, "error", err)
			continue
		}
		if commandTag.RowsAffected() == 0 {
			if err := pool.Pool.QueryRow(ctx,
				`SELECT id FROM cat_store_groups WHERE code = $1 AND deletion_mark = FALSE`,
				g.code,
			).Scan(&gid); err != nil {
				log.Warnw("failed to fetch existing store group", "code", g.code, "error", err)
				continue
			}
		}
		groupIDs[g.code] = gid
	}

	// 3. Stores
	stores := []struct {
		code        string
		name        string
		group       string
		creditLimit int64
		termDays    int
		address     string
	}{
		{"ST-001", "Downtown Optics", "SG-003", 500000, 30, "12 Main St"},
		{"ST-002", "ClearView Optics", "SG-002", 200000, 14, "48 Harbor Ave"},
		{"ST-003", "Lens & Frame", "SG-001", 0, 7, "301 Elm Rd"},
	}

	for _, s := range stores {
		sid := id.New()
		groupID, ok := groupIDs[s.group]
		var groupValue any
		if ok {
			groupValue = groupID
		}
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_stores (
				id, code, name, group_id, outstanding_amount, credit_limit,
				payment_term_days, address, active, version, deletion_mark, attributes
			)
			VALUES ($1, $2, $3, $4, 0, $5, $6, $7, true, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, sid, s.code, s.name, groupValue, s.creditLimit, s.termDays, s.address)
		if err != nil {
			log.Warnw("failed to seed store", "name", s.name, "error", err)
		}
	}

	// 4. Products with a small variant grid each
	products := []struct {
		code      string
		name      string
		brand     string
		lensType  string
		material  string
		index     string
		listPrice int64
	}{
		{"PR-00001", "Essilor Crizal 1.50", "BR-001", "single_vision", "CR-39", "1.50", 4500},
		{"PR-00002", "Essilor Varilux Comfort", "BR-001", "progressive", "polycarbonate", "1.59", 18900},
		{"PR-00003", "Hoya Nulux 1.60", "BR-002", "single_vision", "MR-8", "1.60", 7200},
		{"PR-00004", "Zeiss PhotoFusion", "BR-003", "photochromic", "polycarbonate", "1.59", 15400},
	}

	// Sphere/cylinder grid in hundredths of a diopter
	spheres := []int64{-400, -200, 0, 200}
	cylinders := []int64{0, -100}

	for _, p := range products {
		brandID, ok := brandIDs[p.brand]
		if !ok {
			continue
		}

		pid := id.New()
		commandTag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_products (
				id, code, name, brand_id, lens_type, material, refractive_index,
				list_price, active, version, deletion_mark, attributes
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, pid, p.code, p.name, brandID, p.lensType, p.material, p.index, p.listPrice)
		if err != nil {
			log.Warnw("failed to seed product", "name", p.name, "error", err)
			continue
		}
		if commandTag.RowsAffected() == 0 {
			// Product already present, variants were seeded with it
			continue
		}

		for _, sph := range spheres {
			for _, cyl := range cylinders {
				sku := fmt.Sprintf("%s/%+.2f/%+.2f", p.code, float64(sph)/100, float64(cyl)/100)
				_, err := pool.Pool.Exec(ctx, `
					INSERT INTO cat_product_variants (
						id, product_id, sku, sphere, cylinder, addition,
						stock, location, active, version, deletion_mark, attributes
					)
					VALUES ($1, $2, $3, $4, $5, NULL, 0, '', true, 1, false, '{}')
				`, id.New(), pid, sku, sph, cyl)
				if err != nil {
					log.Warnw("failed to seed variant", "sku", sku, "error", err)
				}
			}
		}
	}

	// 5. A few pricing rules so the tier resolution has something to hit
	_, err := pool.Pool.Exec(ctx, `
		INSERT INTO reg_brand_discounts (store_id, brand_id, rate, updated_at)
		SELECT s.id, b.id, 0.07, NOW()
		FROM cat_stores s, cat_brands b
		WHERE s.code = 'ST-001' AND b.code = 'BR-001'
		ON CONFLICT (store_id, brand_id) DO NOTHING
	`)
	if err != nil {
		log.Warnw("failed to seed brand discount", "error", err)
	}

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO reg_special_prices (store_id, product_id, price, updated_at)
		SELECT s.id, p.id, 3900, NOW()
		FROM cat_stores s, cat_products p
		WHERE s.code = 'ST-001' AND p.code = 'PR-00001'
		ON CONFLICT (store_id, product_id) DO NOTHING
	`)
	if err != nil {
		log.Warnw("failed to seed special price", "error", err)
	}

	log.Info("demo data seeded successfully")
	return nil
}
