package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/cadence/internal/config"
	"github.com/aretw0/cadence/pkg/action"
	httpAdapter "github.com/aretw0/cadence/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/cadence/pkg/adapters/mcp"
	redisAdapter "github.com/aretw0/cadence/pkg/adapters/redis"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/runner"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// live is a stack driven in real time by a runner.
type live struct {
	*Stack
	Runner *runner.Runner
	close  func()
	// workers run beside the runner until ctx ends.
	workers []func(ctx context.Context) error
}

// start runs the runner and every worker in g.
func (l *live) start(ctx context.Context, g *errgroup.Group) {
	g.Go(func() error {
		return l.Runner.Run(ctx)
	})
	for _, w := range l.workers {
		g.Go(func() error { return w(ctx) })
	}
}

// startLive builds the stack and a runner publishing to pubs and, when
// configured, to Redis. The runner is not started.
func startLive(cfg *config.Config, logger *slog.Logger, pubs ...ports.Publisher) (*live, error) {
	stack, err := createStack(cfg, logger)
	if err != nil {
		return nil, err
	}

	ropts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithPeriod(cfg.Tick.Period),
		runner.WithSettler(stack.Board),
	}
	for _, pub := range pubs {
		ropts = append(ropts, runner.WithPublisher(pub))
	}
	closeFn := func() {}
	var workers []func(context.Context) error
	if cfg.Redis.Addr != "" {
		pub := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithPrefix(cfg.Redis.Prefix),
			redisAdapter.WithChannel(cfg.Redis.Channel),
			redisAdapter.WithLogger(logger),
		)
		closeFn = func() {
			if err := pub.Close(); err != nil {
				logger.Warn("failed to close redis publisher", "err", err)
			}
		}
		ropts = append(ropts, runner.WithPublisher(pub))
		workers = append(workers, pub.Run)
		logger.Info("publishing flags to redis", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
	}

	return &live{
		Stack:   stack,
		Runner:  runner.NewRunner(stack.Engine, ropts...),
		close:   closeFn,
		workers: workers,
	}, nil
}

// Serve runs the scoring engine in real time behind the HTTP API until ctx
// is cancelled. Flag changes are streamed to SSE clients and, when
// configured, published to Redis.
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger = logger.With("run_id", uuid.NewString())

	streams := httpAdapter.NewStreamManager(logger)
	l, err := startLive(cfg, logger, streams)
	if err != nil {
		return err
	}
	defer l.close()

	submit := func(req *http.Request, a action.Action) error {
		return l.Runner.Submit(req.Context(), a)
	}
	server := httpAdapter.NewServer(l.Board, l.Runner, l.Engine.Inspect(),
		httpAdapter.WithLogger(logger),
		httpAdapter.WithStreams(streams),
		httpAdapter.WithMetrics(promhttp.HandlerFor(l.Registry, promhttp.HandlerOpts{})),
		httpAdapter.WithActions(submit, l.Actions()),
	)

	g, gctx := errgroup.WithContext(ctx)
	l.start(gctx, g)
	serveHTTP(gctx, g, cfg.HTTP.Addr, server.Handler(), logger)

	err = g.Wait()
	logger.Info("server stopped")
	return err
}

// MCPTransport selects how ServeMCP talks to its client.
type MCPTransport string

const (
	MCPStdio MCPTransport = "stdio"
	MCPSSE   MCPTransport = "sse"
)

// ServeMCP runs the scoring engine in real time and exposes it as an MCP
// server. Over stdio it returns when the client disconnects.
func ServeMCP(ctx context.Context, cfg *config.Config, logger *slog.Logger, transport MCPTransport) error {
	if transport != MCPStdio && transport != MCPSSE {
		return fmt.Errorf("unknown transport %q (want stdio or sse)", transport)
	}
	logger = logger.With("run_id", uuid.NewString())

	l, err := startLive(cfg, logger)
	if err != nil {
		return err
	}
	defer l.close()

	srv := mcpAdapter.NewServer(l.Board, l.Runner, l.Engine.Inspect(),
		mcpAdapter.WithLogger(logger),
		mcpAdapter.WithActions(l.Runner.Submit, l.Actions()),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	l.start(gctx, g)

	switch transport {
	case MCPStdio:
		g.Go(func() error {
			// The runner stops when the client goes away.
			defer cancel()
			logger.Info("Starting cadence MCP server (stdio)")
			return srv.ServeStdio()
		})
	case MCPSSE:
		baseURL := "http://" + displayAddr(cfg.HTTP.Addr)
		serveHTTP(gctx, g, cfg.HTTP.Addr, srv.SSEHandler(baseURL), logger)
	}

	return g.Wait()
}

// serveHTTP runs an HTTP server in g and shuts it down when ctx ends.
func serveHTTP(ctx context.Context, g *errgroup.Group, addr string, h http.Handler, logger *slog.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		// Streaming handlers end with ctx.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		return nil
	})
}

func displayAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
