package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront/internal/domain/cart"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is a single key-value row
type Entry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;size:255"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName overrides the table name
func (Entry) TableName() string {
	return "storage_entries"
}

// PostgresStorage keeps entries in the storage_entries table
type PostgresStorage struct {
	db *gorm.DB
}

// NewPostgresStorage creates a gorm backed storage. The storage_entries
// table must exist, see Entry.
func NewPostgresStorage(db *gorm.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (p *PostgresStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var entry Entry
	err := p.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, cart.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entry %s: %w", key, err)
	}
	return entry.Value, nil
}

func (p *PostgresStorage) Set(ctx context.Context, key string, value []byte) error {
	entry := Entry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	err := p.upsert(p.db.WithContext(ctx), &entry).Error
	if err != nil {
		return fmt.Errorf("failed to write entry %s: %w", key, err)
	}
	return nil
}

func (p *PostgresStorage) Clear(ctx context.Context, key string) error {
	err := p.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", key, err)
	}
	return nil
}

func (p *PostgresStorage) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (p *PostgresStorage) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (p *PostgresStorage) upsert(tx *gorm.DB, entry *Entry) *gorm.DB {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(entry)
}
