package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/bait0ngxaxa/survey-sub000/server/internal/config"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/database"
	logger "github.com/bait0ngxaxa/survey-sub000/server/internal/logging"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/models"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/router"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	conf, _, err := config.Load(projectRoot)
	if err != nil {
		return err
	}

	// Initialize Logger
	log, err := logger.Init(conf.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	if err := config.Init(projectRoot, log); err != nil {
		return err
	}

	// Initialize Database
	if err := database.Init(log, config.Conf.Database); err != nil {
		log.Error("Database initialization failed", zap.Error(err))
		return err
	}

	// Load survey catalogs at startup; an invalid catalog stops the process.
	catalogs, err := models.LoadCatalogDir(config.Conf.Survey.Directory)
	if err != nil {
		log.Error("Failed to load survey catalogs", zap.Error(err))
		return err
	}
	if _, ok := catalogs[config.Conf.Survey.DefaultVariant]; !ok {
		return fmt.Errorf("default survey variant %q is not loaded", config.Conf.Survey.DefaultVariant)
	}
	log.Info("Survey catalogs loaded", zap.Strings("variants", catalogs.Variants()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := services.NewScheduler(log, config.Conf.Retention.SweepInterval, config.Conf.Retention.DraftTTL)
	scheduler.Start(ctx)

	r := router.Setup(log, catalogs, services.NewLogNotifier(log))

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(port) }()

	select {
	case err := <-errCh:
		log.Error("Failed to run Gin server", zap.Error(err))
		return err
	case <-ctx.Done():
		log.Info("Shutting down")
		return nil
	}
}
