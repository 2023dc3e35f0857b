package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/futurewallet/wallet/httpapi"
	"github.com/futurewallet/wallet/store"
)

func newServeCmd(rc *RootConfig) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(rc.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := httpapi.New(rc.Logger(), st)
			rc.Logger().WithField("addr", addr).Info("listening")
			return http.ListenAndServe(addr, srv.Router())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}
