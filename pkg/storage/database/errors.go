package database

import "github.com/iotaledger/hive.go/ierrors"

var (
	ErrEngineNotSupported  = ierrors.New("database engine not supported")
	ErrIncompatibleVersion = ierrors.New("incompatible database version")
	ErrNoVersion           = ierrors.New("no database version was persisted")
	ErrDatabaseCorrupted   = ierrors.New("database is corrupted")
	ErrReadOnly            = ierrors.New("database is opened read-only")
)
