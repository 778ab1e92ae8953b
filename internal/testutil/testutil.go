// Package testutil opens a throwaway SQLite database with the full schema
// and offers fixture helpers shared by the service and handler tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"civicos/internal/db"
	"civicos/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// OpenDB returns a migrated database backed by a file in t.TempDir().
// A single connection keeps concurrent test goroutines from tripping over
// SQLite's writer lock.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openDB(t, 1, "?_pragma=busy_timeout(5000)")
}

// OpenPooledDB is OpenDB with conns connections in WAL mode, for tests that
// race writers against each other. Transactions begin IMMEDIATE so competing
// writers queue on the busy timeout instead of failing a lock upgrade.
func OpenPooledDB(t *testing.T, conns int) *gorm.DB {
	t.Helper()
	return openDB(t, conns, "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_txlock=immediate")
}

func openDB(t *testing.T, conns int, params string) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "civicos_test.db")
	gdb, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path + params,
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// CreateUser inserts a user whose password is "password123".
func CreateUser(t *testing.T, gdb *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Username: username,
		Email:    username + "@example.org",
		Password: string(hash),
		Role:     models.RoleUser,
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func CreateAdmin(t *testing.T, gdb *gorm.DB, username string) *models.User {
	t.Helper()
	u := CreateUser(t, gdb, username)
	require.NoError(t, gdb.Model(u).Update("role", models.RoleAdmin).Error)
	u.Role = models.RoleAdmin
	return u
}

func CreateBill(t *testing.T, gdb *gorm.DB, number, status string) *models.Bill {
	t.Helper()
	b := &models.Bill{Number: number, Title: "Bill " + number, Summary: "Summary of " + number, Status: status}
	require.NoError(t, gdb.Create(b).Error)
	return b
}

func CreatePetition(t *testing.T, gdb *gorm.DB, creatorID uint, target, current int) *models.Petition {
	t.Helper()
	deadline := time.Now().Add(10 * 24 * time.Hour)
	p := &models.Petition{
		Title:             "Fund public transit",
		Description:       "More buses please.",
		TargetSignatures:  target,
		CurrentSignatures: current,
		Status:            models.PetitionActive,
		Deadline:          &deadline,
		CreatorID:         creatorID,
	}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

func CreatePolitician(t *testing.T, gdb *gorm.DB, name string) *models.Politician {
	t.Helper()
	p := &models.Politician{Name: name, Party: "Independent", Position: "Member of Parliament"}
	require.NoError(t, gdb.Create(p).Error)
	return p
}
