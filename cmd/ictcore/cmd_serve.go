package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/ictcore/internal/artifacts"
)

func newServeCmd() *cobra.Command {
	var (
		addr       string
		artifactDir string
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose /metrics and a read-only /artifacts/{run} endpoint over the artifact store",
		Long: `serve is a host-level convenience mode, outside the deterministic
core's contract: it exposes the Prometheus registry and lets an
operator fetch a previously persisted WalkForwardResult artifact by
run ID. It never runs the scorer or simulator itself.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := artifacts.NewFileStore(artifactDir)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(prometheus.NewGoCollector())

			router := mux.NewRouter()
			router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			router.HandleFunc("/artifacts/{run}", artifactHandler(store)).Methods(http.MethodGet)

			log.Info().Str("addr", addr).Msg("ictcore serve listening")
			return http.ListenAndServe(addr, router)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8090", "Listen address")
	serveCmd.Flags().StringVar(&artifactDir, "artifact-dir", "experiments", "Directory the artifact store reads from")

	return serveCmd
}

func artifactHandler(store *artifacts.FileStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run := mux.Vars(r)["run"]
		data, err := store.Load(run + ".json")
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}
