package cmd

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/restoredcdc/warcserve/apps/warcserve/config"
	"github.com/restoredcdc/warcserve/apps/warcserve/routes"
	"github.com/restoredcdc/warcserve/pkg/archive"
	"github.com/restoredcdc/warcserve/pkg/mirror"
	"github.com/restoredcdc/warcserve/pkg/rewrite"
	"github.com/restoredcdc/warcserve/pkg/rules"
)

// serveCmd runs the mirror server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the archived snapshot over HTTP",
	Long: `Serve starts the mirror server: archived pages and assets from the
snapshot database, link rewriting for HTML, and an operational API
under /api.`,
	Run: serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("hostname", "", "interface to listen on (overrides WARCSERVE_HOSTNAME)")
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides WARCSERVE_PORT)")
	serveCmd.Flags().String("db", "", "path to the snapshot database (overrides WARCSERVE_DB_PATH)")
	serveCmd.Flags().String("rules", "", "path to the rewrite rules file (overrides WARCSERVE_RULES_FILE)")
}

func serve(cmd *cobra.Command, args []string) {
	cfg, err := config.ValidateEnv()
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	applyServeFlags(cmd, cfg)

	cfg.Print(log.Printf)

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ruleCfg, err := rules.Load(cfg.RulesFile)
	if err != nil {
		logger.Fatal("failed to load rewrite rules", zap.Error(err))
	}

	store, err := openStore(cfg, true)
	if err != nil {
		logger.Fatal("failed to open snapshot store", zap.Error(err))
	}

	var cached *archive.CachedStore
	serving := store
	if cfg.CacheMB > 0 {
		cached = archive.NewCachedStore(cfg.CacheMB<<20, store)
		serving = cached
	}
	defer serving.Close()

	svc := mirror.NewService(serving, rewrite.New(ruleCfg), ruleCfg.HomeDomain, logger)

	router := chi.NewMux()
	router.Use(mirror.RequestLogger(logger))
	router.Use(middleware.Recoverer)

	api := humachi.New(router, huma.DefaultConfig("warcserve", version))
	routes.RegisterRoutes(api, svc, cached)

	// Catch-all last: /api and the generated docs keep precedence.
	svc.Mount(router)

	addr := fmt.Sprintf("%s:%d", cfg.Hostname, cfg.Port)
	logger.Info("starting mirror server",
		zap.String("addr", addr),
		zap.String("home", "/"+ruleCfg.HomeDomain+"/"),
	)

	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// applyServeFlags lets command-line flags override environment config.
func applyServeFlags(cmd *cobra.Command, cfg *config.EnvConfig) {
	if cmd.Flags().Changed("hostname") {
		cfg.Hostname, _ = cmd.Flags().GetString("hostname")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath, _ = cmd.Flags().GetString("db")
	}
	if cmd.Flags().Changed("rules") {
		cfg.RulesFile, _ = cmd.Flags().GetString("rules")
	}
}

// openStore opens the configured snapshot backend.
func openStore(cfg *config.EnvConfig, readOnly bool) (archive.Store, error) {
	switch cfg.Store {
	case "valkey":
		return archive.NewValkeyStore(archive.ValkeyConfig{
			Addr:     cfg.ValkeyAddr,
			Password: cfg.ValkeyPassword,
			DB:       cfg.ValkeyDB,
		})
	default:
		return archive.OpenBolt(archive.BoltConfig{
			Path:     cfg.DBPath,
			ReadOnly: readOnly,
		})
	}
}
