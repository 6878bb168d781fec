package cmd

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/restoredcdc/warcserve/apps/warcserve/config"
	"github.com/restoredcdc/warcserve/pkg/loader"
)

// loadCmd imports a converter dump into the snapshot database.
var loadCmd = &cobra.Command{
	Use:   "load [dump.jsonl ...]",
	Short: "Import a converter dump into the snapshot database",
	Long: `Load reads JSON Lines records produced by the ZIM converter and writes
them into the snapshot database. Use "-" to read from stdin.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().String("db", "", "path to the snapshot database (overrides WARCSERVE_DB_PATH)")
}

func runLoad(cmd *cobra.Command, args []string) {
	cfg, err := config.ValidateEnv()
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath, _ = cmd.Flags().GetString("db")
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	store, err := openStore(cfg, false)
	if err != nil {
		logger.Fatal("failed to open snapshot store", zap.Error(err))
	}
	defer store.Close()

	var total loader.Result
	for _, name := range args {
		var in io.ReadCloser
		if name == "-" {
			in = os.Stdin
		} else {
			in, err = os.Open(name)
			if err != nil {
				logger.Fatal("failed to open dump", zap.String("file", name), zap.Error(err))
			}
		}

		res, err := loader.Load(cmd.Context(), in, store, logger)
		if name != "-" {
			in.Close()
		}
		if err != nil {
			logger.Fatal("import failed", zap.String("file", name), zap.Error(err))
		}

		logger.Info("imported dump",
			zap.String("file", name),
			zap.Int("loaded", res.Loaded),
			zap.Int("skipped", res.Skipped),
		)
		total.Loaded += res.Loaded
		total.Skipped += res.Skipped
	}

	logger.Info("import complete",
		zap.Int("loaded", total.Loaded),
		zap.Int("skipped", total.Skipped),
	)
}
