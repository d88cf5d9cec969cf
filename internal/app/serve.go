package app

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"grna/internal/appcore"
	"grna/internal/logging"
	"grna/internal/server"
)

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "Serve the design engine as a JSON HTTP API",
		Long: `Serve exposes GET /systems, GET /healthz, POST /design, POST /batch,
POST /score and POST /offtargets. Requests start from the configured
defaults and may override system, filters and pool.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.cfg.DesignOptions()
			if err != nil {
				return appcore.Usage(err)
			}
			srv := server.New(opts, logging.Component(a.log, "server"))
			err = srv.ListenAndServe(cmd.Context(), a.cfg.Server.Addr)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	fs := cmd.Flags()
	addEngineFlags(fs)
	fs.String("addr", ":8080", "listen address")
	return cmd
}
