package main

import (
	"context"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ppopth/gf2-rank/host"
	"github.com/ppopth/gf2-rank/rankd"
)

var serveConfig struct {
	listen   string
	metrics  string
	maxWords int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "answer rank requests over QUIC",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ap, err := netip.ParseAddrPort(serveConfig.listen)
	if err != nil {
		return errors.Wrapf(err, "parsing --listen")
	}
	h, err := host.NewHost(host.WithAddrPort(ap))
	if err != nil {
		return err
	}
	defer h.Close()

	reg := prometheus.NewRegistry()
	opts := []rankd.ServerOption{rankd.WithRegisterer(reg)}
	if serveConfig.maxWords > 0 {
		opts = append(opts, rankd.WithMaxWords(serveConfig.maxWords))
	}
	if _, err := rankd.NewServer(h, opts...); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveConfig.metrics != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: serveConfig.metrics, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("metrics server: %s", err)
			}
		}()
		defer srv.Close()
	}

	log.Infof("serving as %s on %s", h.ID(), h.LocalAddr())
	cmd.Printf("%s %s\n", h.ID(), h.LocalAddr())
	<-ctx.Done()
	log.Infof("shutting down")
	return nil
}
