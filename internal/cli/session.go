package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aidanlsb/nagmodel/internal/audit"
	"github.com/aidanlsb/nagmodel/internal/config"
	"github.com/aidanlsb/nagmodel/internal/logging"
	"github.com/aidanlsb/nagmodel/internal/model"
	"github.com/aidanlsb/nagmodel/internal/store"
)

// session is one loaded definition set with its registry and observers.
type session struct {
	registry  *model.Registry
	storeKind string
	source    string
	audit     *audit.Logger

	closeStore func() error
}

// storeLocation picks the backend and its path. Flags win over config;
// --db selects sqlite, --snapshot selects yaml.
func storeLocation() (kind, path string, err error) {
	c := getConfig()
	switch {
	case strings.TrimSpace(databaseFlag) != "":
		return config.StoreSQLite, databaseFlag, nil
	case strings.TrimSpace(snapshotFlag) != "":
		return config.StoreYAML, snapshotFlag, nil
	}

	kind = c.StoreKind()
	if kind == config.StoreSQLite {
		path = config.ResolvePath(resolvedConfigPath, c.Database)
	} else {
		path = config.ResolvePath(resolvedConfigPath, c.Snapshot)
	}
	if path == "" {
		return "", "", fmt.Errorf("no %s store configured", kind)
	}
	return kind, path, nil
}

// openSession opens the configured store and builds a registry observed
// by the process logger and the audit log.
func openSession() (*session, error) {
	kind, path, err := storeLocation()
	if err != nil {
		return nil, err
	}

	s := &session{storeKind: kind, source: path}
	var backend model.Store
	switch kind {
	case config.StoreSQLite:
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("database %s: %w", path, err)
		}
		db, err := store.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		backend = db
		s.closeStore = db.Close
	default:
		y, err := store.OpenYAML(path)
		if err != nil {
			return nil, err
		}
		backend = y
	}

	s.audit = audit.New(config.ResolvePath(resolvedConfigPath, getConfig().AuditLog))
	s.registry = model.NewRegistry(backend,
		model.WithObserver(logging.Observer{Log: getLogger()}),
		model.WithObserver(s.audit),
	)
	return s, nil
}

// meta describes the session's store for the JSON envelope.
func (s *session) meta(count int) *Meta {
	return &Meta{Count: count, Store: s.storeKind, Source: s.source}
}

// warnings reports audit failures collected while the session ran.
func (s *session) warnings() []Warning {
	if err := s.audit.Err(); err != nil {
		return []Warning{{Code: WarnAuditFailed, Message: err.Error(), Ref: s.audit.Path()}}
	}
	return nil
}

func (s *session) Close() {
	s.registry.Close()
	if s.closeStore != nil {
		if err := s.closeStore(); err != nil {
			getLogger().WithError(err).Warn("failed to close store")
		}
	}
}

// withSession opens a session, runs fn and closes it. Store errors are
// reported with STORE_ERROR; fn reports its own errors.
func withSession(fn func(*session) error) error {
	s, err := openSession()
	if err != nil {
		code := ErrStoreError
		if errors.Is(err, os.ErrNotExist) {
			code = ErrFileNotFound
		}
		return handleError(code, err, "Pass --snapshot or --db, or set snapshot/database in config.toml")
	}
	defer s.Close()
	return fn(s)
}
