// Package session keeps scs session data in Postgres so run picks and
// pending notifications survive restarts and are shared between instances.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/irsalhamdi/learner-portal/config"
)

// Store implements scs.Store on the sessions table.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Find returns the data of an unexpired session.
func (s *Store) Find(token string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRowx(`SELECT data FROM sessions WHERE token = $1 AND current_timestamp < expiry`, token).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("finding session: %w", err)
	}
	return data, true, nil
}

// Commit inserts or replaces a session.
func (s *Store) Commit(token string, b []byte, expiry time.Time) error {
	const q = `
	INSERT INTO sessions (token, data, expiry) VALUES ($1, $2, $3)
	ON CONFLICT (token) DO UPDATE SET data = EXCLUDED.data, expiry = EXCLUDED.expiry`

	if _, err := s.db.Exec(q, token, b, expiry.UTC()); err != nil {
		return fmt.Errorf("committing session: %w", err)
	}
	return nil
}

func (s *Store) Delete(token string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpired removes expired sessions and reports how many went.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expiry < current_timestamp`)
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return res.RowsAffected()
}

// Cleanup deletes expired sessions every interval until ctx is done.
func (s *Store) Cleanup(ctx context.Context, log logrus.FieldLogger, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.DeleteExpired(ctx)
			if err != nil {
				log.WithError(err).Error("session cleanup")
				continue
			}
			if n > 0 {
				log.WithField("deleted", n).Debug("session cleanup")
			}
		}
	}
}

// NewManager configures the session manager. A nil store keeps sessions in
// memory.
func NewManager(cfg config.Session, store scs.Store) *scs.SessionManager {
	m := scs.New()
	m.Lifetime = cfg.Lifetime
	m.Cookie.Name = cfg.CookieName
	m.Cookie.Secure = cfg.Secure
	m.Cookie.HttpOnly = true
	m.Cookie.SameSite = http.SameSiteLaxMode
	if store != nil {
		m.Store = store
	}
	return m
}
