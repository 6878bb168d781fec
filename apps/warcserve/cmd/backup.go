package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/restoredcdc/warcserve/apps/warcserve/config"
	"github.com/restoredcdc/warcserve/pkg/archive"
	"github.com/restoredcdc/warcserve/pkg/backup"
)

// backupCmd uploads a snapshot of the serving database to object storage.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload a database snapshot to S3-compatible storage",
	Long: `Backup writes a consistent copy of the snapshot database to the
configured S3-compatible bucket and prunes old copies. The database can
stay in use by a running server while the backup is taken.`,
	Run: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().String("db", "", "path to the snapshot database (overrides WARCSERVE_DB_PATH)")
	backupCmd.Flags().Int("keep", 0, "number of snapshots to retain (overrides WARCSERVE_BACKUP_KEEP)")
}

func runBackup(cmd *cobra.Command, args []string) {
	cfg, err := config.ValidateEnv()
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath, _ = cmd.Flags().GetString("db")
	}
	if cmd.Flags().Changed("keep") {
		cfg.BackupKeep, _ = cmd.Flags().GetInt("keep")
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.S3Endpoint == "" {
		logger.Fatal("WARCSERVE_S3_ENDPOINT is required for backup")
	}

	db, err := archive.OpenBolt(archive.BoltConfig{Path: cfg.DBPath, ReadOnly: true})
	if err != nil {
		logger.Fatal("failed to open snapshot database", zap.Error(err))
	}
	defer db.Close()

	store, err := backup.NewS3Store(backup.S3Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		UseSSL:    cfg.S3UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to connect to object storage", zap.Error(err))
	}

	ctx := cmd.Context()

	key, err := backup.Run(ctx, db, store, time.Now())
	if err != nil {
		logger.Fatal("backup failed", zap.Error(err))
	}
	logger.Info("snapshot uploaded", zap.String("key", key), zap.String("bucket", cfg.S3Bucket))

	if cfg.BackupKeep > 0 {
		removed, err := backup.Prune(ctx, store, cfg.BackupKeep)
		if err != nil {
			logger.Fatal("prune failed", zap.Error(err))
		}
		if len(removed) > 0 {
			logger.Info("pruned old snapshots", zap.Strings("keys", removed))
		}
	}
}
