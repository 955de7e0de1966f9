package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/athapong/kinship/pkg/config"
	"github.com/athapong/kinship/pkg/graph/metrics"
	"github.com/athapong/kinship/pkg/graph/storage"
	"github.com/athapong/kinship/pkg/kinship"
	"github.com/athapong/kinship/prompts"
	"github.com/athapong/kinship/tools"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	envFile := flag.String("env", ".env", "Path to environment file")
	configFile := flag.String("config", "", "Path to YAML config file")
	enableSSE := flag.Bool("sse", false, "Enable SSE server")
	sseAddr := flag.String("sse-addr", ":8080", "Address for SSE server to listen on")
	sseBasePath := flag.String("sse-base-path", "/mcp", "Base path for SSE endpoints")
	metricsAddr := flag.String("metrics-addr", "", "Address to serve Prometheus metrics on (disabled when empty)")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	// stdout carries the stdio transport
	logger.SetOutput(os.Stderr)

	if err := godotenv.Load(*envFile); err != nil {
		logger.WithError(err).Warnf("Error loading env file %s", *envFile)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}
	logger.SetLevel(cfg.Level())

	store, err := openStore(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open family store")
	}
	if store != nil {
		defer store.Close()
	}

	engine := kinship.NewEngine(append(kinship.FromConfig(cfg), kinship.WithLogger(logger))...)
	pipeline := kinship.NewPipeline(
		kinship.WithWorkers(cfg.Pipeline.Workers),
		kinship.WithPipelineLogger(logger),
	)

	mcpServer := server.NewMCPServer(
		"kinship",
		"1.0.0",
		server.WithLogging(),
		server.WithPromptCapabilities(true),
	)

	enableTools := strings.Split(os.Getenv("ENABLE_TOOLS"), ",")
	allToolsEnabled := len(enableTools) == 1 && enableTools[0] == ""

	isEnabled := func(toolName string) bool {
		return allToolsEnabled || slices.Contains(enableTools, toolName)
	}

	if isEnabled("kinship") {
		tools.RegisterKinshipTools(mcpServer, tools.NewKinshipTools(engine, pipeline, store, logger))
		prompts.RegisterKinshipPrompts(mcpServer)
	}

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, logger)
	}

	if *enableSSE || os.Getenv("ENABLE_SSE") == "true" {
		sseServer := server.NewSSEServer(
			mcpServer,
			server.WithBasePath(*sseBasePath),
			server.WithKeepAlive(true),
		)

		go func() {
			logger.Infof("Starting SSE server on %s with base path %s", *sseAddr, *sseBasePath)
			if err := sseServer.Start(*sseAddr); err != nil {
				logger.WithError(err).Fatal("Failed to start SSE server")
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		sig := <-sigCh
		logger.Infof("Received signal %v, shutting down...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := sseServer.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("Error during SSE server shutdown")
		}
		logger.Info("SSE server shutdown complete")
	} else {
		if err := server.ServeStdio(mcpServer); err != nil {
			logger.WithError(err).Fatal("Server error")
		}
	}
}

// openStore picks the JSON file store when a data file is configured, then
// Neo4j, and returns nil when neither is set
func openStore(cfg *config.Config, logger *logrus.Logger) (storage.FamilyStore, error) {
	switch {
	case cfg.Storage.DataFile != "":
		logger.WithField("file", cfg.Storage.DataFile).Info("Using JSON family store")
		return storage.NewJSONFamilyStore(cfg.Storage.DataFile), nil
	case cfg.Storage.Neo4jURI != "":
		store, err := storage.NewNeo4jStore(cfg.Storage.Neo4jURI, cfg.Storage.Neo4jUsername, cfg.Storage.Neo4jPassword)
		if err != nil {
			return nil, err
		}
		if err := store.Connect(context.Background()); err != nil {
			store.Close()
			return nil, err
		}
		logger.WithField("uri", cfg.Storage.Neo4jURI).Info("Using Neo4j family store")
		return store, nil
	}
	return nil, nil
}

func serveMetrics(addr string, logger *logrus.Logger) {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			metrics.UpdateSystemMetrics()
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Infof("Serving metrics on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.WithError(err).Error("Metrics server stopped")
	}
}
