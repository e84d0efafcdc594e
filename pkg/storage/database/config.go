package database

import "github.com/iotaledger/hive.go/db"

// EngineLevelDB stores the data in a LevelDB database.
const EngineLevelDB db.Engine = "leveldb"

type Config struct {
	Engine    db.Engine
	Directory string

	Version Version
	// CacheSize is the size of the read cache in bytes, 0 disables it.
	CacheSize int
	// Sync makes every applied changeset wait for the engine to persist it.
	Sync bool
}
