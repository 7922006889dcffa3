package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/carpe-diem/git-sync/errors"
	"github.com/carpe-diem/git-sync/logging"
	"github.com/carpe-diem/git-sync/pkg/paths"
	"github.com/carpe-diem/git-sync/schema"
)

const (
	tmpSuffix    = ".tmp"
	backupSuffix = ".bak"
)

// Store loads and persists the configuration file at Path.
type Store struct {
	Path string

	log       *logrus.Entry
	validator *schema.Validator
}

// NewStore creates a store for the file at path.
func NewStore(path string) *Store {
	s := &Store{
		Path: path,
		log:  logging.NewLogger("config"),
	}
	v, err := schema.NewValidator()
	if err != nil {
		s.log.WithError(err).Warn("Config schema unavailable; validating JSON syntax only")
	} else {
		s.validator = v
	}
	return s
}

// NewDefaultStore creates a store for the per-user config.json.
func NewDefaultStore() (*Store, error) {
	path, err := paths.ConfigFile()
	if err != nil {
		return nil, errors.ConfigPathUnresolvable(err)
	}
	return NewStore(path), nil
}

// TempPath is the sibling the configuration is written to before the rename.
func (s *Store) TempPath() string { return s.Path + tmpSuffix }

// BackupPath is where a corrupt configuration file is copied to.
func (s *Store) BackupPath() string { return s.Path + backupSuffix }

// Load reads the configuration. A nil result means "no configuration":
// the file is absent, unreadable, or corrupt. Corrupt files are copied to
// BackupPath first. Load never creates files other than that backup.
func (s *Store) Load() (*Config, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.WithField("path", s.Path).Debug("No configuration file")
			return nil, nil
		}
		s.log.WithError(err).WithField("path", s.Path).Warn("Cannot read configuration file; continuing without configuration")
		return nil, nil
	}

	cfg, parseErr := s.parse(data)
	if parseErr != nil {
		s.log.WithError(parseErr).WithField("path", s.Path).Warn("Configuration file is corrupt; continuing without configuration")
		s.backup(data)
		return nil, nil
	}
	return cfg, nil
}

func (s *Store) parse(data []byte) (*Config, error) {
	if s.validator != nil {
		if err := s.validator.ValidateJSON(data); err != nil {
			return nil, err
		}
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// backup copies a corrupt file aside. Failures are only logged.
func (s *Store) backup(data []byte) {
	if err := os.WriteFile(s.BackupPath(), data, 0600); err != nil {
		s.log.WithError(err).WithField("path", s.BackupPath()).Warn("Could not back up corrupt configuration")
		return
	}
	s.log.WithField("path", s.BackupPath()).Warn("Corrupt configuration backed up")
}

// Save writes cfg atomically: the document goes to TempPath, is synced to
// disk, then renamed onto Path. Readers see either the old or the new file.
func (s *Store) Save(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{}
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.IOFailure("create directory", dir, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.IOFailure("encode", s.Path, err)
	}
	data = append(data, '\n')

	tmp := s.TempPath()
	if err := writeSynced(tmp, data); err != nil {
		_ = os.Remove(tmp)
		return errors.IOFailure("write", tmp, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return errors.IOFailure("rename", tmp, err)
	}

	s.log.WithField("path", s.Path).Info("Configuration saved")
	return nil
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
