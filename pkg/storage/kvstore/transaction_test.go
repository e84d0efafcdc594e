package kvstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/chainstore/pkg/storage/database"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
)

func newStore(t *testing.T) kvstore.Store {
	store := database.NewHiveStore(mapdb.NewMapDB())
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	return store
}

func set(t *testing.T, store kvstore.Writer, col column.Column, key string, value string) {
	changeset := kvstore.NewChangeset()
	changeset.Set(col, []byte(key), []byte(value))
	require.NoError(t, store.Apply(changeset))
}

func remove(t *testing.T, store kvstore.Writer, col column.Column, key string) {
	changeset := kvstore.NewChangeset()
	changeset.Delete(col, []byte(key))
	require.NoError(t, store.Apply(changeset))
}

func get(t *testing.T, store kvstore.Reader, col column.Column, key string) (string, bool) {
	value, exists, err := store.Get(col, []byte(key))
	require.NoError(t, err)

	return string(value), exists
}

func keys(t *testing.T, store kvstore.Reader, col column.Column, prefix string, start []byte, direction kvstore.IterDirection) []string {
	result := make([]string, 0)
	require.NoError(t, store.Iterate(col, []byte(prefix), start, direction, func(key []byte, value []byte) bool {
		result = append(result, string(key)+"="+string(value))

		return true
	}))

	return result
}

func TestTransactionReadsItsOwnWrites(t *testing.T) {
	store := newStore(t)
	set(t, store, column.Coins, "a", "1")
	set(t, store, column.Coins, "b", "2")

	tx := kvstore.NewTransaction(store)
	set(t, tx, column.Coins, "a", "10")
	remove(t, tx, column.Coins, "b")
	set(t, tx, column.Coins, "c", "3")

	value, exists := get(t, tx, column.Coins, "a")
	require.True(t, exists)
	require.Equal(t, "10", value)

	_, exists = get(t, tx, column.Coins, "b")
	require.False(t, exists)

	has, err := tx.Has(column.Coins, []byte("c"))
	require.NoError(t, err)
	require.True(t, has)

	size, exists, err := tx.Size(column.Coins, []byte("a"))
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, 2, size)

	buf := make([]byte, 2)
	n, exists, err := tx.Read(column.Coins, []byte("a"), buf)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, "10", string(buf[:n]))

	// the parent is untouched until the commit.
	value, _ = get(t, store, column.Coins, "a")
	require.Equal(t, "1", value)
	_, exists = get(t, store, column.Coins, "c")
	require.False(t, exists)

	require.NoError(t, tx.Commit())

	value, _ = get(t, store, column.Coins, "a")
	require.Equal(t, "10", value)
	_, exists = get(t, store, column.Coins, "b")
	require.False(t, exists)
	value, _ = get(t, store, column.Coins, "c")
	require.Equal(t, "3", value)
}

func TestTransactionIterateMergesPendingWrites(t *testing.T) {
	store := newStore(t)
	for _, key := range []string{"a", "c", "e", "g"} {
		set(t, store, column.OwnedCoins, key, "old")
	}
	set(t, store, column.OwnedMessageIds, "b", "other column")

	tx := kvstore.NewTransaction(store)
	set(t, tx, column.OwnedCoins, "b", "new")
	set(t, tx, column.OwnedCoins, "c", "new")
	remove(t, tx, column.OwnedCoins, "e")
	set(t, tx, column.OwnedCoins, "h", "new")
	remove(t, tx, column.OwnedCoins, "z")

	require.Equal(t, []string{"a=old", "b=new", "c=new", "g=old", "h=new"}, keys(t, tx, column.OwnedCoins, "", nil, kvstore.IterDirectionForward))
	require.Equal(t, []string{"h=new", "g=old", "c=new", "b=new", "a=old"}, keys(t, tx, column.OwnedCoins, "", nil, kvstore.IterDirectionBackward))
	require.Equal(t, []string{"c=new", "g=old", "h=new"}, keys(t, tx, column.OwnedCoins, "", []byte("c"), kvstore.IterDirectionForward))
	require.Equal(t, []string{"c=new", "b=new", "a=old"}, keys(t, tx, column.OwnedCoins, "", []byte("d"), kvstore.IterDirectionBackward))
	require.Equal(t, []string{"b=other column"}, keys(t, tx, column.OwnedMessageIds, "", nil, kvstore.IterDirectionForward))

	visited := 0
	require.NoError(t, tx.Iterate(column.OwnedCoins, nil, nil, kvstore.IterDirectionForward, func([]byte, []byte) bool {
		visited++

		return visited < 3
	}))
	require.Equal(t, 3, visited)
}

func TestTransactionCommitsOnce(t *testing.T) {
	store := newStore(t)

	tx := kvstore.NewTransaction(store)
	set(t, tx, column.Coins, "a", "1")
	require.NoError(t, tx.Commit())

	require.ErrorIs(t, tx.Commit(), kvstore.ErrTransactionClosed)
	require.ErrorIs(t, tx.Apply(kvstore.NewChangeset()), kvstore.ErrTransactionClosed)

	_, _, err := tx.Get(column.Coins, []byte("a"))
	require.ErrorIs(t, err, kvstore.ErrTransactionClosed)
}

// rejectingStore fails every Apply while reject is set.
type rejectingStore struct {
	kvstore.Store

	reject bool
}

func (r *rejectingStore) Apply(changeset *kvstore.Changeset) error {
	if r.reject {
		return kvstore.ErrStore
	}

	return r.Store.Apply(changeset)
}

func TestTransactionCommitFailureKeepsChanges(t *testing.T) {
	store := &rejectingStore{Store: newStore(t), reject: true}

	tx := kvstore.NewTransaction(store)
	set(t, tx, column.Coins, "a", "1")

	require.ErrorIs(t, tx.Commit(), kvstore.ErrStore)

	value, exists := get(t, tx, column.Coins, "a")
	require.True(t, exists)
	require.Equal(t, "1", value)

	store.reject = false
	require.NoError(t, tx.Commit())
	require.ErrorIs(t, tx.Commit(), kvstore.ErrTransactionClosed)

	value, exists = get(t, store, column.Coins, "a")
	require.True(t, exists)
	require.Equal(t, "1", value)
}

func TestTransactionCancel(t *testing.T) {
	store := newStore(t)

	tx := kvstore.NewTransaction(store)
	set(t, tx, column.Coins, "a", "1")
	tx.Cancel()

	require.ErrorIs(t, tx.Commit(), kvstore.ErrTransactionClosed)

	_, exists := get(t, store, column.Coins, "a")
	require.False(t, exists)
}

func TestNestedTransaction(t *testing.T) {
	store := newStore(t)

	tx := kvstore.NewTransaction(store)
	set(t, tx, column.Coins, "a", "1")

	nested := tx.Transaction()
	set(t, nested, column.Coins, "b", "2")

	value, exists := get(t, nested, column.Coins, "a")
	require.True(t, exists)
	require.Equal(t, "1", value)

	_, exists = get(t, tx, column.Coins, "b")
	require.False(t, exists)

	require.NoError(t, nested.Commit())

	value, exists = get(t, tx, column.Coins, "b")
	require.True(t, exists)
	require.Equal(t, "2", value)

	_, exists = get(t, store, column.Coins, "b")
	require.False(t, exists, "nested transactions commit into their parent")

	require.NoError(t, tx.Commit())

	value, _ = get(t, store, column.Coins, "b")
	require.Equal(t, "2", value)
}

func TestTransactionAtomicity(t *testing.T) {
	store := newStore(t)

	tx := kvstore.NewTransaction(store)
	for _, col := range []column.Column{column.ContractsState, column.ContractsStateMerkleData, column.ContractsStateMerkleMetadata} {
		set(t, tx, col, "key", col.String())
	}

	for _, col := range []column.Column{column.ContractsState, column.ContractsStateMerkleData, column.ContractsStateMerkleMetadata} {
		_, exists := get(t, store, col, "key")
		require.False(t, exists)
	}

	require.NoError(t, tx.Commit())

	for _, col := range []column.Column{column.ContractsState, column.ContractsStateMerkleData, column.ContractsStateMerkleMetadata} {
		value, exists := get(t, store, col, "key")
		require.True(t, exists)
		require.Equal(t, col.String(), value)
	}
}
