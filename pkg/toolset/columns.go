package toolset

import (
	"fmt"
	"io"

	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/ierrors"
)

// ColumnStats is the number of rows and stored bytes of a column.
type ColumnStats struct {
	Column string `json:"column"`
	ID     byte   `json:"id"`
	Rows   uint64 `json:"rows"`
	Bytes  uint64 `json:"bytes"`
}

// CountRows visits every column of the store and sums up its rows.
func CountRows(store kvstore.Reader) ([]ColumnStats, error) {
	stats := make([]ColumnStats, 0, column.Count)
	for _, col := range column.All() {
		entry := ColumnStats{Column: col.String(), ID: byte(col)}
		if err := store.Iterate(col, nil, nil, kvstore.IterDirectionForward, func(key []byte, value []byte) bool {
			entry.Rows++
			entry.Bytes += uint64(len(key) + len(value))

			return true
		}); err != nil {
			return nil, ierrors.Wrapf(err, "failed to iterate column %s", col)
		}

		stats = append(stats, entry)
	}

	return stats, nil
}

func listColumns(args []string, out io.Writer) (err error) {
	fs, databasePathFlag, databaseEngineFlag, outputJSONFlag := newFlagSet(ToolColumns, out)
	if err = parseFlagSet(fs, args); err != nil {
		return err
	}

	d, err := openDatabase(*databasePathFlag, *databaseEngineFlag)
	if err != nil {
		return err
	}
	defer func() { err = ierrors.Join(err, d.Shutdown()) }()

	stats, err := CountRows(d.Store())
	if err != nil {
		return err
	}

	if *outputJSONFlag {
		return printJSON(out, stats)
	}

	for _, entry := range stats {
		_, _ = fmt.Fprintf(out, "%-2d %-36s rows: %-10d bytes: %d\n", entry.ID, entry.Column, entry.Rows, entry.Bytes)
	}

	return nil
}
