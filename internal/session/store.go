package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mlevkov/go-vault-client/internal/logger"
	"github.com/mlevkov/go-vault-client/models"
)

// Store persists the encrypted session record at a fixed,
// restrictively-permissioned path. The record is replaced as a single
// atomic unit (write-new-file-then-rename) so a crash mid-write never
// leaves a partially-written session on disk.
type Store struct {
	path string
	cr   *Crypto
	log  *logger.Logger
}

func NewStore(path string, cr *Crypto, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{path: path, cr: cr, log: log}
}

// Save encrypts rec and atomically replaces the session file.
func (s *Store) Save(rec models.Session, vaultKey []byte) error {
	blob, err := s.cr.Encrypt(rec, vaultKey)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace session file: %w", err)
	}

	// The iteration count is not secret and is needed before any key can
	// be derived, so it lives in a plaintext sidecar.
	iter := []byte(strconv.Itoa(rec.Iterations))
	if err := os.WriteFile(s.path+".iter", iter, 0o600); err != nil {
		return fmt.Errorf("write iterations file: %w", err)
	}

	s.log.Debug().Str("path", s.path).Msg("session persisted")
	return nil
}

// Iterations reads the persisted PBKDF2 iteration count. Returns
// ErrSessionNotFound when no session has been saved.
func (s *Store) Iterations() (int, error) {
	raw, err := os.ReadFile(s.path + ".iter")
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("read iterations file: %w", err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || n < 1 {
		return 0, ErrInvalidSession
	}
	return n, nil
}

// Load reads and decrypts the persisted record for username.
// Returns ErrSessionNotFound when no file exists and ErrInvalidSession
// when the file cannot be decrypted with the given vault key.
func (s *Store) Load(username string, vaultKey []byte) (models.Session, error) {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, fmt.Errorf("read session file: %w", err)
	}

	return s.cr.Decrypt(blob, vaultKey, username)
}

// Clear removes the persisted session. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	if err := os.Remove(s.path + ".iter"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove iterations file: %w", err)
	}
	return nil
}
