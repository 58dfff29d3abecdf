package checks

import (
	"testing"

	"inventory-tracker/core/database"
	"inventory-tracker/core/docstore"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func TestCheckSchema_Migrated(t *testing.T) {
	db := setupSQLite(t)
	require.NoError(t, docstore.New(db, zap.NewNop()).Migrate())

	report, err := CheckSchema(db)
	require.NoError(t, err)

	assert.True(t, report.Matched)
	assert.Equal(t, "products", report.Table)
	assert.Empty(t, report.MissingColumns)
	assert.Empty(t, report.TypeMismatches)
	assert.Empty(t, report.MissingIndexes)
	assert.Empty(t, report.Errors)
}

func TestCheckSchema_Drift(t *testing.T) {
	db := setupSQLite(t)
	require.NoError(t, db.Exec("CREATE TABLE products (id VARCHAR(36) PRIMARY KEY, user_id VARCHAR(128) NOT NULL, data BLOB, created_at DATETIME, updated_at DATETIME)").Error)

	report, err := CheckSchema(db)
	require.NoError(t, err)

	assert.False(t, report.Matched)
	assert.Equal(t, []string{"qr_id"}, report.MissingColumns)
	assert.Equal(t, []string{"data: expected text, got blob"}, report.TypeMismatches)
	assert.Equal(t, []string{docstore.IndexOwnerQR}, report.MissingIndexes)
}

func TestCheckSchema_MissingTable(t *testing.T) {
	report, err := CheckSchema(setupSQLite(t))
	require.NoError(t, err)

	assert.False(t, report.Matched)
	assert.Equal(t, []string{"Table products does not exist"}, report.Errors)
}

func TestCheckSchema_InspectError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `products`").WillReturnError(assert.AnError)

	report, err := CheckSchema(db)
	require.NoError(t, err)

	assert.False(t, report.Matched)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "Failed to inspect table products")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil)
	assert.EqualError(t, err, "database connection is nil")
	assert.Nil(t, report)
}

func TestTagValue(t *testing.T) {
	tag := "column:user_id;type:varchar(128);not null"
	assert.Equal(t, "user_id", tagValue(tag, "column"))
	assert.Equal(t, "varchar(128)", tagValue(tag, "type"))
	assert.Equal(t, "", tagValue(tag, "default"))
}
