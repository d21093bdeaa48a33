package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phantomworx/cq-intel/internal/proxy"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the allow-listed caching fetch proxy",
		Long: `Runs the HTTP proxy the fallback fetch path uses. It accepts
GET ?url=<target>, enforces a hostname allow-list, validates that the
upstream page still carries the expected marker phrase, and caches
successful responses for 24 hours.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := proxy.New(viper.GetStringSlice("serve.allowed_hosts"))
			return srv.Start(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8787", "Listen address")
	return cmd
}
