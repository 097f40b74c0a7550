// Package identity maps the authentication records onto the secure store:
// profile, credentials, session marker and lockout counters.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/securestore"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// Repository reads and writes typed records. Absent records are reported
// as common.ErrNotFound, undecodable ones as common.ErrCorruptRecord.
type Repository struct {
	store securestore.Store
}

func NewRepository(store securestore.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) get(ctx context.Context, key string) (string, error) {
	v, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", common.ErrNotFound
	}
	return v, nil
}

func (r *Repository) getJSON(ctx context.Context, key string, dst any) error {
	v, err := r.get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(v), dst); err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrCorruptRecord, key, err)
	}
	return nil
}

func encodeJSON(key string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", key, err)
	}
	return string(b), nil
}

func (r *Repository) setJSON(ctx context.Context, key string, v any) error {
	s, err := encodeJSON(key, v)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, key, s)
}

func (r *Repository) Profile(ctx context.Context) (*models.UserProfile, error) {
	var u models.UserProfile
	if err := r.getJSON(ctx, common.KeyUserData, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) SaveProfile(ctx context.Context, u *models.UserProfile) error {
	return r.setJSON(ctx, common.KeyUserData, u)
}

func (r *Repository) Credentials(ctx context.Context) (*models.Credentials, error) {
	var c models.Credentials
	if err := r.getJSON(ctx, common.KeyUserCredentials, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) SaveCredentials(ctx context.Context, c *models.Credentials) error {
	return r.setJSON(ctx, common.KeyUserCredentials, c)
}

func (r *Repository) SessionToken(ctx context.Context) (string, error) {
	return r.get(ctx, common.KeySessionToken)
}

func (r *Repository) SaveSessionToken(ctx context.Context, token string) error {
	return r.store.Set(ctx, common.KeySessionToken, token)
}

func (r *Repository) DeleteSessionToken(ctx context.Context) error {
	return r.store.Delete(ctx, common.KeySessionToken)
}

// Lockout loads the counter pair. A missing counter reads as zero and a
// missing timestamp as the zero time.
func (r *Repository) Lockout(ctx context.Context) (models.LockoutState, error) {
	var st models.LockoutState

	raw, err := r.get(ctx, common.KeyFailedAttempts)
	switch {
	case errors.Is(err, common.ErrNotFound):
	case err != nil:
		return st, err
	default:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return st, fmt.Errorf("%w: %s=%q", common.ErrCorruptRecord, common.KeyFailedAttempts, raw)
		}
		st.FailedAttempts = n
	}

	raw, err = r.get(ctx, common.KeyLockTimestamp)
	switch {
	case errors.Is(err, common.ErrNotFound):
	case err != nil:
		return st, err
	default:
		ts, err := timex.ParseMillis(raw)
		if err != nil {
			return st, fmt.Errorf("%w: %v", common.ErrCorruptRecord, err)
		}
		st.LockedAt = ts
	}

	return st, nil
}

func (r *Repository) SaveFailedAttempts(ctx context.Context, n int) error {
	return r.store.Set(ctx, common.KeyFailedAttempts, strconv.Itoa(n))
}

func (r *Repository) SaveLockTimestamp(ctx context.Context, t time.Time) error {
	return r.store.Set(ctx, common.KeyLockTimestamp, timex.FormatMillis(t))
}

// ClearLockout deletes both counters. Both deletes are attempted even if the
// first one fails.
func (r *Repository) ClearLockout(ctx context.Context) error {
	return errors.Join(
		r.store.Delete(ctx, common.KeyFailedAttempts),
		r.store.Delete(ctx, common.KeyLockTimestamp),
	)
}

// SaveRegistration writes profile, credentials and session marker. Stores
// implementing securestore.Batcher get one atomic write; otherwise the
// records are written one by one and a failure may leave earlier ones in
// place.
func (r *Repository) SaveRegistration(ctx context.Context, u *models.UserProfile, c *models.Credentials, token string) error {
	profile, err := encodeJSON(common.KeyUserData, u)
	if err != nil {
		return err
	}
	creds, err := encodeJSON(common.KeyUserCredentials, c)
	if err != nil {
		return err
	}

	if b, ok := r.store.(securestore.Batcher); ok {
		return b.SetMany(ctx, map[string]string{
			common.KeyUserData:        profile,
			common.KeyUserCredentials: creds,
			common.KeySessionToken:    token,
		})
	}

	if err := r.store.Set(ctx, common.KeyUserData, profile); err != nil {
		return err
	}
	if err := r.store.Set(ctx, common.KeyUserCredentials, creds); err != nil {
		return err
	}
	return r.store.Set(ctx, common.KeySessionToken, token)
}
