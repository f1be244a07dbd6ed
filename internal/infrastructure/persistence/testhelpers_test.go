package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with every table migrated.
// A single connection keeps the in-memory database shared across queries.
// Driver errors are left untranslated, as in NewDatabase, so unique
// violations still name what they hit.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

// newMockGormDB creates a GORM DB on the postgres dialector backed by sqlmock
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func newQuoteWithItems(t *testing.T, tenantID uuid.UUID, prices ...string) *quote.Quote {
	t.Helper()
	q, err := quote.NewQuote(tenantID, uuid.New(), "Q-2024-001", quote.Client{Name: "Bakkerij Peeters"}, decimal.NewFromInt(21))
	require.NoError(t, err)
	inputs := make([]quote.ItemInput, 0, len(prices))
	for i, p := range prices {
		inputs = append(inputs, quote.ItemInput{
			Description: "Line " + string(rune('A'+i)),
			Quantity:    decimal.NewFromInt(1),
			Unit:        "pcs",
			UnitPrice:   decimal.RequireFromString(p),
		})
	}
	require.NoError(t, q.ReplaceItems(inputs))
	return q
}
