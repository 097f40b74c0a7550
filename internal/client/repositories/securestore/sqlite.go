package securestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
)

const saltMetaKey = "kdf_salt"

// SQLiteStore keeps values in the secure_items table sealed with AES-GCM.
// The record key is bound to each ciphertext as additional data.
type SQLiteStore struct {
	db  *sql.DB
	key []byte
}

// NewSQLiteStore derives the store key from deviceKey and the salt kept in
// store_meta, creating the salt on first use. db must already be migrated.
func NewSQLiteStore(ctx context.Context, db *sql.DB, deviceKey []byte) (*SQLiteStore, error) {
	salt, err := loadOrCreateSalt(ctx, db)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, key: cryptox.DeriveStoreKey(deviceKey, salt)}, nil
}

func loadOrCreateSalt(ctx context.Context, db *sql.DB) ([]byte, error) {
	var salt []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM store_meta WHERE key = ?`, saltMetaKey).Scan(&salt)
	if err == nil {
		return salt, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get store_meta[%s]: %w", saltMetaKey, err)
	}

	salt = common.GenerateRandByteArray(16)
	if _, err := db.ExecContext(ctx, `INSERT INTO store_meta (key, value) VALUES (?, ?)`, saltMetaKey, salt); err != nil {
		return nil, fmt.Errorf("failed to set store_meta[%s]: %w", saltMetaKey, err)
	}
	return salt, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var nonce, ciphertext []byte
	err := s.db.QueryRowContext(ctx, `SELECT nonce, ciphertext FROM secure_items WHERE key = ?`, key).Scan(&nonce, &ciphertext)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get secure_items[%s]: %w", key, err)
	}

	plaintext, err := cryptox.Open(s.key, ciphertext, nonce, []byte(key))
	if err != nil {
		return "", false, fmt.Errorf("%w: secure_items[%s]: %v", common.ErrCorruptRecord, key, err)
	}
	return string(plaintext), true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	return s.set(ctx, s.db, key, value)
}

func (s *SQLiteStore) set(ctx context.Context, db dbx.DBTX, key, value string) error {
	ciphertext, nonce, err := cryptox.Seal(s.key, []byte(value), []byte(key))
	if err != nil {
		return fmt.Errorf("failed to seal secure_items[%s]: %w", key, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO secure_items (key, nonce, ciphertext, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			nonce = excluded.nonce,
			ciphertext = excluded.ciphertext,
			updated_at = excluded.updated_at
	`, key, nonce, ciphertext, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to set secure_items[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM secure_items WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete secure_items[%s]: %w", key, err)
	}
	return nil
}

// SetMany writes all items in a single transaction.
func (s *SQLiteStore) SetMany(ctx context.Context, items map[string]string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for k, v := range items {
			if err := s.set(ctx, tx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}
