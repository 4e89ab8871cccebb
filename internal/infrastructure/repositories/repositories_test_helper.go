package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createBusinessTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE business (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category_id TEXT NOT NULL,
		location_id TEXT NOT NULL,
		is_verified BOOLEAN NOT NULL DEFAULT false,
		verification_token TEXT,
		website TEXT,
		description TEXT,
		opening_hour TEXT,
		closing_hour TEXT,
		facebook_link TEXT,
		instagram_link TEXT,
		twitter_link TEXT,
		logo TEXT,
		cover TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE location (
		id TEXT PRIMARY KEY,
		line1 TEXT NOT NULL,
		line2 TEXT,
		line3 TEXT,
		country TEXT NOT NULL
	);`)
	mustExec(t, db, `CREATE TABLE category (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);`)
	mustExec(t, db, `CREATE TABLE business_update_log (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createEmailContactTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE email (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL,
		email_address TEXT NOT NULL,
		email_type TEXT NOT NULL,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE contact (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL,
		number TEXT NOT NULL,
		type TEXT
	);`)
}

func createUserTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		name TEXT,
		email TEXT NOT NULL,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE customer (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		full_name TEXT,
		email TEXT
	);`)
	mustExec(t, db, `CREATE TABLE business_has_user (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		business_id TEXT NOT NULL,
		type TEXT NOT NULL,
		supervisor_id TEXT NOT NULL,
		verification_token TEXT,
		is_verified BOOLEAN NOT NULL DEFAULT false,
		created_at DATETIME
	);`)
}

func createFloorPlanTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE floor_plan (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL,
		floor_name TEXT NOT NULL,
		canvas_width REAL NOT NULL,
		canvas_height REAL NOT NULL,
		width REAL,
		height REAL,
		floor_plan TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (business_id, floor_name)
	);`)
	mustExec(t, db, `CREATE TABLE "table" (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL,
		floor_plan_id TEXT,
		table_number INTEGER NOT NULL,
		seats INTEGER NOT NULL,
		active BOOLEAN NOT NULL DEFAULT true,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (business_id, table_number)
	);`)
}

func createReservationTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE reservation (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL,
		table_id TEXT NOT NULL,
		customer_id TEXT,
		people_count INTEGER NOT NULL,
		slot_type TEXT,
		reservation_date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Active',
		customer_name TEXT,
		customer_number TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func seedUser(t *testing.T, db *gorm.DB, username string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	mustExec(t, db, `INSERT INTO users (id, username, name, email, created_at) VALUES (?, ?, ?, ?, ?)`,
		id.String(), username, username, username+"@slotzi.lk", time.Now())
	return id
}
