package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"rpcrank/internal/endpoints"
	"rpcrank/internal/probe"
	"rpcrank/internal/rpc"
	"rpcrank/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve ranked endpoints over HTTP, re-probing on an interval",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Sync()
	lg.Info("Logger initialized", zap.Any("config", cfg.Logger))

	repo := endpoints.NewRepository(lg)
	path := resolveArtifact(cfg, repo)
	eps, err := repo.Load(path)
	if err != nil {
		lg.Fatal("Failed to load endpoint artifact", zap.Error(err))
	}

	lg.Info("Initializing dependencies...")
	client := rpc.NewClient(cfg.Probe.Timeout, lg)
	prober := probe.NewProber(client, cfg.Probe, lg)
	orch := probe.NewOrchestrator(prober, cfg.Probe, lg)
	store := server.NewStore(cfg.Cache, lg)
	refresher := server.NewRefresher(orch, store, eps, cfg.Server.CheckInterval, lg)
	handler := server.NewHandler(store, lg)
	r := server.NewRouter(handler, lg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go refresher.Run(ctx)

	loggingMiddleware := func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			lg.Info("Request received",
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("uri", ctx.RequestURI()))
			next(ctx)
		}
	}

	addr := cfg.Server.Addr
	if flagAddr != "" {
		addr = flagAddr
	}
	srv := &fasthttp.Server{Handler: loggingMiddleware(r.Handler)}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(addr)
	}()
	lg.Info("Starting HTTP server", zap.String("address", addr))

	select {
	case err := <-errCh:
		if err != nil {
			lg.Fatal("Failed to start server", zap.Error(err))
		}
	case <-ctx.Done():
		lg.Info("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			lg.Error("Server shutdown failed", zap.Error(err))
		}
	}
	return nil
}
