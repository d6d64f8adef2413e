/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/northbeam/rosterengine/pkg/balance"
	"github.com/northbeam/rosterengine/pkg/config"
	"github.com/northbeam/rosterengine/pkg/metrics"
	"github.com/northbeam/rosterengine/pkg/orchestrator"
)

// Options are rosterctl's command-line flags (spec §6's CLI entry
// point), in the same flag.StringVar/flag.Parse style as the teacher's
// cmd/controller/main.go.
type Options struct {
	RunDocPath  string
	Verbose     bool
	MetricsAddr string
}

func main() {
	options := Options{}
	flag.StringVar(&options.RunDocPath, "config", "", "Path to the TOML run document (workers, date range, holidays, policy).")
	flag.BoolVar(&options.Verbose, "verbose", false, "Log at debug level instead of info.")
	flag.StringVar(&options.MetricsAddr, "metrics-addr", "", "If set, serve this run's Prometheus collectors on this address (e.g. :9090) until the run completes.")
	flag.Parse()

	if options.RunDocPath == "" {
		fmt.Fprintln(os.Stderr, "rosterctl: -config is required")
		os.Exit(3)
	}

	log := newLogger(options.Verbose)
	defer log.Sync() //nolint:errcheck

	doc, err := config.LoadRunDoc(options.RunDocPath)
	if err != nil {
		log.Error("failed to load run document", zap.Error(err))
		os.Exit(3)
	}
	doc.Policy.NumPosts = doc.NumPosts
	if err := doc.Policy.Validate(); err != nil {
		log.Error("invalid policy", zap.Error(err))
		os.Exit(3)
	}

	workers, err := doc.ToWorkers()
	if err != nil {
		log.Error("failed to parse workers", zap.Error(err))
		os.Exit(3)
	}
	dates, holidays, err := doc.DateRange()
	if err != nil {
		log.Error("failed to parse date range", zap.Error(err))
		os.Exit(3)
	}

	collectors := metrics.New()
	if options.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(collectors.Registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: options.MetricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		defer srv.Close() //nolint:errcheck
	}

	cfg := orchestrator.Config{
		InitialAttempts: doc.Policy.InitialAttempts,
		MaxIterations:   doc.Policy.MaxIterations,
		TolerancePhase1: doc.Policy.TolerancePercent,
		TolerancePhase2: doc.Policy.EmergencyTolerance,
		CoverageTarget:  doc.Policy.CoverageTargetRatio * 100,
		Seed:            doc.Policy.Seed,
		Thresholds:      balance.DefaultThresholds(),
		Log:             log,
		Metrics:         collectors,
	}

	run := orchestrator.New(workers, dates, doc.NumPosts, holidays, cfg).RunOnce(context.Background())

	if run.Errors != nil {
		log.Warn("run completed with configuration errors", zap.Error(run.Errors))
		printReport(run)
		os.Exit(3)
	}

	exitCode := run.Report.ExitCode(doc.Policy.CoverageTargetRatio * 100)
	printReport(run)
	os.Exit(exitCode)
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level.SetLevel(zap.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		// zap's own production config never fails to build; fall back
		// to a no-op logger rather than panic if it somehow does.
		return zap.NewNop()
	}
	return log
}

func printReport(run orchestrator.Run) {
	out, err := json.MarshalIndent(map[string]interface{}{
		"run_id":   run.ID,
		"report":   run.Report,
		"attempts": run.Attempts,
	}, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "rosterctl: failed to marshal report:", err)
		return
	}
	fmt.Println(string(out))
}
