// Package serve is a subcommand of the root command. It serves address
// resolution and decoder metrics over HTTP.
package serve

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dmimap/internal/common"
	"dmimap/internal/config"
	"dmimap/internal/dmi"
	"dmimap/internal/metrics"
	"dmimap/internal/report"
	"dmimap/internal/util"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const cmdName = "serve"

var examples = []string{
	fmt.Sprintf("  Serve on the default address:  $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  Serve on all interfaces:       $ %s %s --listen :9367", common.AppName, cmdName),
	fmt.Sprintf("  Query a running server:        $ curl 'http://%s/resolve?addr=0x1000&addr=4*GB'", config.DefaultListen),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Serve /resolve and Prometheus /metrics over HTTP",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var FlagListen string

const FlagListenName = "listen"

// maxAddresses bounds the addr parameters accepted by one request
const maxAddresses = 64

func init() {
	Cmd.Flags().StringVar(&FlagListen, FlagListenName, "", "")
	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []common.FlagGroup {
	return []common.FlagGroup{{
		GroupName: "Options",
		Flags: []common.Flag{
			{Name: FlagListenName, Help: fmt.Sprintf("address to listen on (default: %s)", config.DefaultListen)},
		},
	}}
}

// NewHandler returns the HTTP handler serving d. Resolutions are recorded
// in c and reg is exposed on /metrics.
func NewHandler(d *dmi.Decoder, c *metrics.Collector, reg prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/resolve", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		params := r.URL.Query()["addr"]
		if len(params) == 0 || len(params) > maxAddresses {
			http.Error(w, fmt.Sprintf("expected 1 to %d addr parameters", maxAddresses), http.StatusBadRequest)
			return
		}
		results := make([]report.Resolution, 0, len(params))
		for _, p := range params {
			addr, err := util.ParseAddress(p)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			results = append(results, report.Resolution{Address: addr, Devices: c.Resolve(d, addr)})
		}
		out, err := report.Create(report.FormatJson, []report.TableValues{report.ResolutionTable(results)})
		if err != nil {
			slog.Error("failed to render resolution", slog.String("error", err.Error()))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(out)
	})
	return mux
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := common.GetAppContext(cmd)
	d, err := common.LoadDecoder(appContext.Config)
	if err != nil {
		return common.Fail(cmd, err)
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c := metrics.New(reg)
	c.Observe(d)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	server := &http.Server{
		Addr:              appContext.Config.Listen,
		Handler:           NewHandler(d, c, reg),
		ReadHeaderTimeout: 3 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", slog.String("address", server.Addr))
		errCh <- server.ListenAndServe()
	}()
	fmt.Fprintf(os.Stderr, "Serving on %s, press Ctrl-C to stop\n", server.Addr)
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return common.Fail(cmd, err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("received signal, shutting down server")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return common.Fail(cmd, err)
	}
	return nil
}
