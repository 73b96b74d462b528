package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=storefront dbname=storefront sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestPostgresStorageUpsertSQL(t *testing.T) {
	db := newDryRunDB(t)
	s := NewPostgresStorage(db)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return s.upsert(tx, &Entry{Key: "cart-storage", Value: []byte(`{}`)})
	})

	assert.Contains(t, sql, `INSERT INTO "storage_entries"`)
	assert.Contains(t, sql, `ON CONFLICT ("entry_key") DO UPDATE SET`)
	assert.Contains(t, sql, `"value"="excluded"."value"`)
	assert.Contains(t, sql, `"updated_at"="excluded"."updated_at"`)
}

func TestEntryTableName(t *testing.T) {
	assert.Equal(t, "storage_entries", Entry{}.TableName())
}
