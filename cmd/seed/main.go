package main // seed populates a development database with a demo organization

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/deskatlas/seat-allocation/internal/config"
	"github.com/deskatlas/seat-allocation/internal/database"
	"github.com/deskatlas/seat-allocation/internal/model"
)

const seatCount = 15

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := seed(ctx, db); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("seed completed")
}

// seed is idempotent: the org, users, building and floor are upserted by
// their natural keys, and the floor's seats are recreated so re-running the
// seed produces a known layout.
func seed(ctx context.Context, db *sql.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	orgID, err := upsert(ctx, db,
		`INSERT INTO organizations (name, slug) VALUES (?, ?)
		 ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`,
		"Demo Organization", "demo-org")
	if err != nil {
		return fmt.Errorf("organization: %w", err)
	}

	adminID, err := upsertUser(ctx, db, "admin@demo.com", "Demo Admin", string(hash))
	if err != nil {
		return err
	}
	userID, err := upsertUser(ctx, db, "user@demo.com", "Demo User", string(hash))
	if err != nil {
		return err
	}

	if err := upsertMember(ctx, db, adminID, orgID, model.RoleAdmin); err != nil {
		return err
	}
	if err := upsertMember(ctx, db, userID, orgID, model.RoleEmployee); err != nil {
		return err
	}

	buildingID, err := upsert(ctx, db,
		`INSERT INTO buildings (organization_id, name)
		 SELECT ?, ? FROM DUAL
		 WHERE NOT EXISTS (SELECT 1 FROM buildings WHERE organization_id = ? AND name = ?)`,
		orgID, "HQ Building", orgID, "HQ Building")
	if err != nil {
		return fmt.Errorf("building: %w", err)
	}
	if buildingID == 0 {
		if err := db.QueryRowContext(ctx,
			`SELECT id FROM buildings WHERE organization_id = ? AND name = ?`,
			orgID, "HQ Building").Scan(&buildingID); err != nil {
			return fmt.Errorf("building lookup: %w", err)
		}
	}

	floorID, err := upsert(ctx, db,
		`INSERT INTO floors (building_id, name, width, height, image_url)
		 SELECT ?, ?, 1000, 600, ? FROM DUAL
		 WHERE NOT EXISTS (SELECT 1 FROM floors WHERE building_id = ? AND name = ?)`,
		buildingID, "First Floor", "https://via.placeholder.com/1000x600", buildingID, "First Floor")
	if err != nil {
		return fmt.Errorf("floor: %w", err)
	}
	if floorID == 0 {
		if err := db.QueryRowContext(ctx,
			`SELECT id FROM floors WHERE building_id = ? AND name = ?`,
			buildingID, "First Floor").Scan(&floorID); err != nil {
			return fmt.Errorf("floor lookup: %w", err)
		}
	}

	// Recreate the demo seats so the seed is repeatable.  Assignment and
	// audit rows referencing old seats are purged with them.
	for _, q := range []string{
		`DELETE FROM seat_audit_log WHERE seat_id IN (SELECT id FROM seats WHERE floor_id = ?)`,
		`DELETE FROM seat_assignments WHERE seat_id IN (SELECT id FROM seats WHERE floor_id = ?)`,
		`DELETE FROM seats WHERE floor_id = ?`,
	} {
		if _, err := db.ExecContext(ctx, q, floorID); err != nil {
			return fmt.Errorf("reset seats: %w", err)
		}
	}
	for i := 1; i <= seatCount; i++ {
		_, err := db.ExecContext(ctx,
			`INSERT INTO seats (floor_id, seat_code, x, y, is_locked) VALUES (?, ?, ?, ?, 0)`,
			floorID, fmt.Sprintf("S-%d", i), rand.Float64(), rand.Float64())
		if err != nil {
			return fmt.Errorf("seat S-%d: %w", i, err)
		}
	}
	return nil
}

func upsert(ctx context.Context, db *sql.DB, query string, args ...interface{}) (uint64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func upsertUser(ctx context.Context, db *sql.DB, email, fullName, hash string) (uint64, error) {
	id, err := upsert(ctx, db,
		`INSERT INTO users (email, full_name, password_hash) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`,
		email, fullName, hash)
	if err != nil {
		return 0, fmt.Errorf("user %s: %w", email, err)
	}
	return id, nil
}

func upsertMember(ctx context.Context, db *sql.DB, userID, orgID uint64, role string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO organization_members (user_id, organization_id, role) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE role = VALUES(role)`,
		userID, orgID, role)
	if err != nil {
		return fmt.Errorf("member %d: %w", userID, err)
	}
	return nil
}
