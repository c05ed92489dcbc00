// Package sessionstore keeps the signed-in session in the local SQLite
// metadata table so that it survives restarts.
package sessionstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/euem/internal/client/models"
	"github.com/dmitrijs2005/euem/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/euem/internal/dbx"
	"github.com/dmitrijs2005/euem/internal/logging"
)

// Key is the metadata key the session is stored under.
const Key = "euem_auth_session"

// Store persists at most one AuthSession.
//
// A Store without a database is valid: every write succeeds silently and
// Load reports no session. The CLI falls back to it when the local
// database cannot be opened.
type Store struct {
	db  *sql.DB
	log logging.Logger
}

// New returns a store backed by db. db may be nil.
func New(db *sql.DB, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNop()
	}
	return &Store{db: db, log: log}
}

// Available reports whether the store has a storage medium.
func (s *Store) Available() bool {
	return s.db != nil
}

func (s *Store) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Save overwrites the stored session.
func (s *Store) Save(ctx context.Context, session models.AuthSession) error {
	if s.db == nil {
		return nil
	}
	return s.put(ctx, s.repo(s.db), session)
}

// Load returns the stored session, or nil when there is none. A record
// that no longer decodes is treated as absent.
func (s *Store) Load(ctx context.Context) (*models.AuthSession, error) {
	if s.db == nil {
		return nil, nil
	}
	return s.get(ctx, s.repo(s.db))
}

// Clear removes the stored session. Clearing an empty store is fine.
func (s *Store) Clear(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	if err := s.repo(s.db).Delete(ctx, Key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// UpdateUser replaces the user inside the stored session and keeps the
// token fields. It does nothing when no session is stored.
func (s *Store) UpdateUser(ctx context.Context, user models.AuthUser) error {
	if s.db == nil {
		return nil
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		current, err := s.get(ctx, repo)
		if err != nil || current == nil {
			return err
		}
		return s.put(ctx, repo, current.WithUser(user))
	})
}

func (s *Store) get(ctx context.Context, repo metadata.Repository) (*models.AuthSession, error) {
	raw, err := repo.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var session models.AuthSession
	if err := json.Unmarshal(raw, &session); err != nil {
		s.log.Warn(ctx, "stored session is unreadable, ignoring it", "error", err)
		return nil, nil
	}
	return &session, nil
}

func (s *Store) put(ctx context.Context, repo metadata.Repository, session models.AuthSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := repo.Set(ctx, Key, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
