package toolset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/iotaledger/chainstore/pkg/storage"
	"github.com/iotaledger/chainstore/pkg/storage/database"
	"github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/log"
)

const (
	FlagToolDatabasePath   = "databasePath"
	FlagToolDatabaseEngine = "databaseEngine"

	FlagToolContractID = "contract"

	FlagToolOutputJSON            = "json"
	FlagToolDescriptionOutputJSON = "format output as JSON"
)

const (
	ToolColumns       = "columns"
	ToolLatestBlock   = "latest-block"
	ToolContractRoots = "contract-roots"
)

const (
	DefaultValueDatabasePath   = "chainstore"
	DefaultValueDatabaseEngine = string(database.EngineLevelDB)
)

type tool func(args []string, out io.Writer) error

var tools = map[string]tool{
	ToolColumns:       listColumns,
	ToolLatestBlock:   latestBlock,
	ToolContractRoots: contractRoots,
}

// HandleTools runs the tool named by the first argument and exits the process.
func HandleTools(args []string) {
	if len(args) == 0 {
		listTools(os.Stdout)
		os.Exit(1)
	}

	if err := Run(args, os.Stdout); err != nil {
		if ierrors.Is(err, flag.ErrHelp) {
			// help text was requested
			os.Exit(0)
		}

		fmt.Printf("\nerror: %s\n", err)
		os.Exit(1)
	}

	os.Exit(0)
}

// Run executes the tool named by the first argument with the remaining arguments.
func Run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return ierrors.New("no tool specified")
	}

	t, exists := tools[strings.ToLower(args[0])]
	if !exists {
		listTools(out)

		return ierrors.Errorf("tool %q not found", args[0])
	}

	return t(args[1:], out)
}

func listTools(out io.Writer) {
	_, _ = fmt.Fprintf(out, "%-20s lists the columns and their row counts\n", fmt.Sprintf("%s:", ToolColumns))
	_, _ = fmt.Fprintf(out, "%-20s prints the latest block and the block tree root\n", fmt.Sprintf("%s:", ToolLatestBlock))
	_, _ = fmt.Fprintf(out, "%-20s prints the state and asset roots of a contract\n", fmt.Sprintf("%s:", ToolContractRoots))
}

func newFlagSet(name string, out io.Writer) (*flag.FlagSet, *string, *string, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(out)

	databasePathFlag := fs.String(FlagToolDatabasePath, DefaultValueDatabasePath, "the path to the database folder")
	databaseEngineFlag := fs.String(FlagToolDatabaseEngine, DefaultValueDatabaseEngine, "the engine of the database")
	outputJSONFlag := fs.Bool(FlagToolOutputJSON, false, FlagToolDescriptionOutputJSON)

	fs.Usage = func() {
		_, _ = fmt.Fprintf(out, "Usage of %s:\n", name)
		fs.PrintDefaults()
	}

	return fs, databasePathFlag, databaseEngineFlag, outputJSONFlag
}

func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Check if all parameters were parsed
	if fs.NArg() != 0 {
		return ierrors.New("too much arguments")
	}

	return nil
}

func openDatabase(databasePath string, databaseEngine string) (*storage.Database, error) {
	if len(databasePath) == 0 {
		return nil, ierrors.Errorf("'%s' not specified", FlagToolDatabasePath)
	}

	if _, err := os.Stat(databasePath); err != nil {
		return nil, ierrors.Wrapf(err, "unable to open database folder (%s)", databasePath)
	}

	return storage.OpenReadOnly(database.Config{
		Engine:    db.Engine(databaseEngine),
		Directory: databasePath,
	}, storage.WithLogger(log.NewLogger(log.WithName("Toolset"), log.WithOutput(io.Discard))))
}

func printJSON(out io.Writer, obj interface{}) error {
	output, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(output))

	return err
}
