package database

import (
	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/ierrors"
)

type Version byte

func (v Version) Bytes() []byte {
	return []byte{byte(v)}
}

func VersionFromBytes(bytes []byte) (Version, int, error) {
	if len(bytes) == 0 {
		return 0, 0, ierrors.New("not enough bytes")
	}

	return Version(bytes[0]), 1, nil
}

var dbVersionKey = []byte("db_version")

// CheckVersion checks whether the database is compatible with the current schema version.
// also automatically sets the version if the database is new.
func CheckVersion(store kvstore.ReadWriter, version Version) error {
	entry, exists, err := store.Get(column.Metadata, dbVersionKey)
	if err != nil {
		return err
	}

	if !exists {
		// set the version in an empty DB
		changeset := kvstore.NewChangeset()
		changeset.Set(column.Metadata, dbVersionKey, version.Bytes())

		return store.Apply(changeset)
	}

	if len(entry) == 0 {
		return ErrNoVersion
	}

	storedVersion, _, err := VersionFromBytes(entry)
	if err != nil {
		return err
	}

	if storedVersion != version {
		return ierrors.Wrapf(ErrIncompatibleVersion, "supported version: %d, version of database: %d", version, storedVersion)
	}

	return nil
}

// StoredVersion returns the schema version persisted in the database.
func StoredVersion(store kvstore.Reader) (Version, bool, error) {
	entry, exists, err := store.Get(column.Metadata, dbVersionKey)
	if err != nil || !exists {
		return 0, exists, err
	}

	version, _, err := VersionFromBytes(entry)

	return version, true, err
}
