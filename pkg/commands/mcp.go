package commands

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/dailyreport/pkg/commands/options"
	"tableflip.dev/dailyreport/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	so := &options.ServeOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "serve saved reports over the Model Context Protocol",
		Long: options.Wrap80(`Exposes the saved reports, save and delete, the month calendar and PDF ` +
			`export as MCP tools and resources. Run "dailyreport unlock" first.`),
		Example: `
dailyreport mcp
dailyreport mcp --transport http --http-port 0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace()
			if err != nil {
				return err
			}
			reports, err := w.reports()
			if err != nil {
				return err
			}

			runner := mcp.Runner{
				Reports:  reports,
				Exporter: w.renderer(),
				Name:     "dailyreport",
				Version:  version,
				OutDir:   so.Out,
			}
			if so.Watch {
				runner.WatchDir = w.cfg.BasePath()
			}

			switch strings.ToLower(strings.TrimSpace(so.Transport)) {
			case "", string(mcp.TransportStdio):
				runner.Transport = mcp.TransportStdio
			case string(mcp.TransportHTTP):
				addr, err := so.Addr()
				if err != nil {
					return err
				}
				runner.Transport = mcp.TransportHTTP
				runner.HTTPListenAddr = addr
				runner.HTTPEndpointPath = so.Endpoint()
				runner.HTTPRateLimit = so.RateLimit
				if so.TLS() {
					runner.HTTPServerCert = strings.TrimSpace(so.TLSCert)
					runner.HTTPServerKey = strings.TrimSpace(so.TLSKey)
				}
				runner.OnHTTPListening = func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on %s\n", so.URL(a))
				}
			default:
				return fmt.Errorf("unsupported transport %q (expected stdio or http)", so.Transport)
			}

			return runner.Do(cmd.Context())
		},
	}
	options.AddServeArgs(cmd, so)

	topLevel.AddCommand(cmd)
}
