package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/prepdeck/interviewd/internal/interview"
	"github.com/prepdeck/interviewd/internal/logger"
	"github.com/prepdeck/interviewd/internal/oracle"
	"github.com/prepdeck/interviewd/internal/oracle/gemini"
	"github.com/prepdeck/interviewd/internal/report"
	"github.com/prepdeck/interviewd/internal/secrets"
	"github.com/prepdeck/interviewd/internal/server"
	"github.com/prepdeck/interviewd/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interviewd HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address for the HTTP API")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting interviewd", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	orch, err := buildOrchestrator(ctx, config, logger)
	if err != nil {
		logger.Fatal("building orchestrator", zap.Error(err))
	}

	api := server.New(orch, config.ReportsDir, logger)

	httpServer := &http.Server{
		Addr:              config.Listen,
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go sweepLoop(ctx, orch, config.SweepInterval, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http server shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", config.Listen))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server failed", zap.Error(err))
	}

	logger.Info("exiting", zap.String("reason", "shutdown requested"))
}

// sweepLoop reclaims expired sessions until the context is cancelled.
func sweepLoop(ctx context.Context, orch *interview.Orchestrator, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Debug("session sweeper started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			orch.Sweep()
		}
	}
}

// buildOrchestrator wires the store, renderer, and the configured oracle
// provider into an orchestrator instance.
func buildOrchestrator(ctx context.Context, config *Config, logger *zap.Logger) (*interview.Orchestrator, error) {
	oracleClient, err := newOracle(ctx, config.AI, logger)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(config.SessionTimeout)
	renderer := report.NewRenderer(config.ReportsDir)

	return interview.New(store, oracleClient, renderer, logger), nil
}

func newOracle(ctx context.Context, cfg *AIConfig, log *zap.Logger) (oracle.Oracle, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required under the ai section")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	oracleLogger := logger.WithCommonFields(log, "gemini", generator.Model())

	return gemini.NewOracle(generator, oracleLogger, cfg.Gemini.MaxLogLength), nil
}
