// Package securefile is a core.Storage kept in a single JSON file.
// Values are signed (and encrypted when a block key is set) with securecookie, so a tampered file reads as empty.
package securefile

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gorilla/securecookie"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

const (
	fileName    = "session.json"
	keyFileName = "session.key"
)

type Storage struct {
	path  string
	codec *securecookie.SecureCookie

	mutex sync.Mutex
}

var _ core.Storage = (*Storage)(nil)

// Open uses dir/session.json. An empty hashKey is replaced by a random one kept in dir/session.key.
func Open(dir string, hashKey, blockKey []byte) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating session dir")
	}
	if len(hashKey) == 0 {
		var err error
		if hashKey, err = loadOrCreateKey(filepath.Join(dir, keyFileName)); err != nil {
			return nil, err
		}
	}
	if len(blockKey) == 0 {
		blockKey = nil
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(0) // sessions expire through their token, not their storage
	return &Storage{path: filepath.Join(dir, fileName), codec: codec}, nil
}

func loadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil && len(key) > 0 {
		return key, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "reading session key")
	}
	key = securecookie.GenerateRandomKey(32)
	if key == nil {
		return nil, errors.New("generating session key")
	}
	if err = os.WriteFile(path, key, 0o600); err != nil {
		return nil, errors.Wrap(err, "writing session key")
	}
	return key, nil
}

func (s *Storage) read() (map[string]string, error) {
	entries := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return entries, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading session file")
	}
	if err = json.Unmarshal(data, &entries); err != nil {
		return make(map[string]string), nil // unreadable: start over
	}
	return entries, nil
}

func (s *Storage) write(entries map[string]string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "encoding session file")
	}
	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "writing session file")
}

// Get returns core.ErrNotFound for absent keys and for values that fail verification.
func (s *Storage) Get(_ context.Context, key string) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	encoded, ok := entries[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	var val []byte
	if err = s.codec.Decode(key, encoded, &val); err != nil {
		return nil, core.ErrNotFound
	}
	return val, nil
}

func (s *Storage) Set(_ context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	encoded, err := s.codec.Encode(key, value)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	entries, err := s.read()
	if err != nil {
		return err
	}
	entries[key] = encoded
	return s.write(entries)
}

func (s *Storage) Delete(_ context.Context, keys ...string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(entries, key)
	}
	if len(entries) == 0 {
		if err = os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "removing session file")
		}
		return nil
	}
	return s.write(entries)
}

func (s *Storage) Close() error { return nil }
