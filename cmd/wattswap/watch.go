package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
	"github.com/wattswap/wattswap-contract/internal/metrics"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("listen", ":9100", "Address to serve Prometheus metrics on")
	watchCmd.Flags().String("ws", "", "Neo WebSocket endpoint, derived from rpc.endpoint by default")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow Market notifications and serve trade metrics",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logger.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	_, _, marketHash, err := cfg.ContractHashes()
	if err != nil {
		return err
	}
	if marketHash.Equals(util.Uint160{}) {
		return fmt.Errorf("market: %w", errContractNotSet)
	}

	listen, _ := cmd.Flags().GetString("listen")
	endpoint, _ := cmd.Flags().GetString("ws")
	if endpoint == "" {
		endpoint = wsEndpoint(cfg.RPC.Endpoint)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c, err := rpcclient.NewWS(ctx, endpoint, rpcclient.WSOptions{
		Options: rpcclient.Options{
			DialTimeout:    cfg.RPC.DialTimeout,
			RequestTimeout: cfg.RPC.RequestTimeout,
		},
	})
	if err != nil {
		return fmt.Errorf("WS client dial: %w", err)
	}
	defer c.Close()

	if err = c.Init(); err != nil {
		return fmt.Errorf("WS client init: %w", err)
	}

	m := metrics.NewMarket()

	srv := &http.Server{
		Addr:              listen,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failure", zap.Error(err))
			cancel()
		}
	}()
	defer func() {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	ch := make(chan *state.ContainedNotificationEvent)

	_, err = c.ReceiveExecutionNotifications(&neorpc.NotificationFilter{Contract: &marketHash}, ch)
	if err != nil {
		return fmt.Errorf("subscribe to market notifications: %w", err)
	}

	log.Info("watching market notifications",
		zap.Stringer("market", marketHash), zap.String("metrics", listen))

	for {
		select {
		case <-ctx.Done():
			log.Info("stop watching")
			return nil
		case ev, ok := <-ch:
			if !ok {
				return errors.New("notification channel closed, connection lost")
			}

			if err := m.Handle(ev); err != nil {
				log.Warn("skip notification", zap.Stringer("tx", ev.Container), zap.Error(err))
				continue
			}

			log.Debug("market notification", zap.String("name", ev.Name), zap.Stringer("tx", ev.Container))
		}
	}
}

// wsEndpoint converts HTTP RPC endpoint into the WebSocket one served by
// neo-go nodes.
func wsEndpoint(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint = "wss://" + strings.TrimPrefix(endpoint, "https://")
	case strings.HasPrefix(endpoint, "http://"):
		endpoint = "ws://" + strings.TrimPrefix(endpoint, "http://")
	}

	if !strings.HasSuffix(endpoint, "/ws") {
		endpoint = strings.TrimSuffix(endpoint, "/") + "/ws"
	}
	return endpoint
}
