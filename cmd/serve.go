package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/aeo-monitor/internal/collector"
	"github.com/sells-group/aeo-monitor/internal/model"
	"github.com/sells-group/aeo-monitor/internal/monitoring"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server for collection requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		c := initCollector(st)
		metrics := monitoring.NewCollector(st)

		checker := monitoring.NewChecker(metrics, monitoring.NewAlerter(cfg.Monitoring), cfg.Monitoring)
		go checker.Run(ctx)

		mux := buildMux(ctx, c, metrics, cfg.Monitoring.LookbackWindowHours)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// buildMux wires the webhook routes. Collection passes triggered over the
// webhook run asynchronously against the server's lifetime context, not the
// request's.
func buildMux(ctx context.Context, c *collector.Collector, metrics *monitoring.Collector, lookbackHours int) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		if metrics == nil {
			http.Error(w, `{"error":"metrics unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		snap, err := metrics.Collect(r.Context(), lookbackHours)
		if err != nil {
			http.Error(w, `{"error":"metrics unavailable"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
	})

	mux.HandleFunc("POST /webhook/collect", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProjectID string `json:"project_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.ProjectID == "" {
			http.Error(w, `{"error":"project_id is required"}`, http.StatusBadRequest)
			return
		}

		// The webhook only acknowledges; the pass runs in the background.
		go func() {
			if c == nil {
				return
			}
			results, err := c.CollectForProject(ctx, req.ProjectID)
			if err != nil {
				zap.L().Error("webhook collection failed",
					zap.String("project_id", req.ProjectID),
					zap.Error(err),
				)
				return
			}
			summary := model.Summarize(results)
			zap.L().Info("webhook collection complete",
				zap.String("project_id", req.ProjectID),
				zap.Int("total", summary.Total),
				zap.Int("successful", summary.Successful),
				zap.Int("failed", summary.Failed),
			)
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"status":     "accepted",
			"project_id": req.ProjectID,
		})
	})

	return mux
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
