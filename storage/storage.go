// Package storage opens the core.Storage selected by the configuration.
package storage

import (
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/storage/badgerkv"
	"github.com/trezcool/academia/storage/inmem"
	"github.com/trezcool/academia/storage/securefile"
)

// Backends
const (
	Badger = "badger"
	File   = "file"
	Memory = "memory"
)

var ErrUnknownBackend = errors.New("unknown session backend")

func Open(conf *core.Config) (core.Storage, error) {
	switch conf.Session.Backend {
	case Badger, "":
		s, err := badgerkv.Open(conf.Session.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case File:
		s, err := securefile.Open(conf.Session.Dir, []byte(conf.Session.HashKey), []byte(conf.Session.BlockKey))
		if err != nil {
			return nil, err
		}
		return s, nil
	case Memory:
		return inmem.New(), nil
	}
	return nil, errors.Wrapf(ErrUnknownBackend, "%q", conf.Session.Backend)
}
