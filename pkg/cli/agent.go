package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/feignbridge/pkg/agent"
	"github.com/getmockd/feignbridge/pkg/logging"
)

var (
	agentListen   string
	agentNotReady bool
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run a standalone agent that accepts mocks",
	Long: `Run a standalone agent speaking the same protocol as the in-process one.
Useful to try the bridge without a target application.`,
	Args: cobra.NoArgs,
	RunE: runAgent,
}

func init() {
	agentCmd.Flags().StringVar(&agentListen, "listen", "127.0.0.1:0", "Address to listen on")
	agentCmd.Flags().BoolVar(&agentNotReady, "not-ready", false, "Answer pings as not started")
	rootCmd.AddCommand(agentCmd)
}

func runAgent(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())

	recv := agent.New(logging.Component(log, "agent"))
	recv.SetReady(!agentNotReady)

	ln, err := net.Listen("tcp", agentListen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", agentListen, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	if err := printResult(cmd, map[string]any{"addr": ln.Addr().String(), "port": port}, func() {
		fmt.Fprintf(cmd.OutOrStdout(), "agent listening on %s (port %d)\n", ln.Addr(), port)
	}); err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{Handler: recv.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
