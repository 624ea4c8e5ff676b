package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/getmockd/feignbridge/pkg/bridge"
	"github.com/getmockd/feignbridge/pkg/config"
	"github.com/getmockd/feignbridge/pkg/logging"
	"github.com/getmockd/feignbridge/pkg/signature"
	"github.com/getmockd/feignbridge/pkg/store"
	"github.com/getmockd/feignbridge/pkg/typedesc"
)

// watchDebounce coalesces editor write bursts on the config file.
const watchDebounce = 200 * time.Millisecond

var (
	serveListen    string
	serveAgentHost string
	serveAgentPort int
	serveNoMonitor bool
	serveNoWatch   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge and its control API",
	Long: `Run the bridge: wait for the target application's agent, push every
configured mock once it answers, and forward later edits made through the
control API. Edits made while the target is suspended are replayed on resume.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Control API address (overrides config)")
	serveCmd.Flags().StringVar(&serveAgentHost, "agent-host", "", "Agent host (overrides config)")
	serveCmd.Flags().IntVar(&serveAgentPort, "agent-port", 0, "Agent port (overrides config)")
	serveCmd.Flags().BoolVar(&serveNoMonitor, "no-monitor", false, "Do not start the connection monitor")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not reload the config file on change")
	rootCmd.AddCommand(serveCmd)
}

func serveOverrides(cmd *cobra.Command) config.Override {
	return func(c *config.Config) {
		if serveListen != "" {
			c.Control.Listen = serveListen
		}
		if serveAgentHost != "" {
			c.Agent.Host = serveAgentHost
		}
		if cmd.Flags().Changed("agent-port") {
			c.Agent.Port = serveAgentPort
		}
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := resolveConfigPath()
	cfg, err := config.Load(path, flagOverrides(serveOverrides(cmd))...)
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())
	holder := config.NewHolder(path, cfg, logging.Component(log, "config"), flagOverrides(serveOverrides(cmd))...)

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := seedMocks(ctx, st, cfg.Mocks); err != nil {
		return err
	}

	reg, err := typedesc.LoadRegistryFiles(cfg.Descriptors...)
	if err != nil {
		return err
	}

	srv := bridge.New(holder, st, bridge.WithLogger(log), bridge.WithRegistry(reg))
	defer srv.Close()

	ln, err := net.Listen("tcp", cfg.Control.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Control.Listen, err)
	}
	log.Info("bridge started",
		"control", ln.Addr().String(),
		"store", cfg.Store.Backend,
		"classes", reg.Len(),
		"mocks", len(cfg.Mocks),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(gctx, ln) })
	if path != "" && !serveNoWatch {
		g.Go(func() error { return holder.Watch(gctx, watchDebounce) })
	}
	if !serveNoMonitor {
		srv.Monitor().Start(gctx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("bridge stopped")
	return nil
}

// openStore creates the configured mock store. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (store.MockStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		r, err := store.DialRedis(ctx, cfg.Store.RedisAddr, cfg.Store.RedisKey)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	default:
		return store.NewMemory(nil), func() {}, nil
	}
}

// seedMocks writes the configured mocks with normalized signatures. It runs
// before the bridge subscribes, so nothing is forwarded yet.
func seedMocks(ctx context.Context, st store.MockStore, mocks map[string]string) error {
	for raw, text := range mocks {
		sig, err := signature.Normalize(raw)
		if err != nil {
			return fmt.Errorf("mock %q: %w", raw, err)
		}
		if err := st.Put(ctx, sig, text); err != nil {
			return fmt.Errorf("seed %s: %w", sig, err)
		}
	}
	return nil
}

// oneShotLogger is used by one-shot commands unless debug logging is asked for.
func oneShotLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	if logLevel == "" {
		return logging.Nop()
	}
	return newLogger(cfg, cmd.ErrOrStderr())
}
