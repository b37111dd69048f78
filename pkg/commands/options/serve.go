package options

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// ServeOptions configure how the MCP server is reached.
type ServeOptions struct {
	Transport string
	Host      string
	Port      int
	Path      string
	TLSCert   string
	TLSKey    string
	RateLimit int
	Out       string
	Watch     bool
}

func AddServeArgs(cmd *cobra.Command, o *ServeOptions) {
	f := cmd.Flags()
	f.StringVar(&o.Transport, "transport", "stdio", "Transport to serve on: stdio or http.")
	f.StringVar(&o.Host, "http-host", "127.0.0.1", "Interface the HTTP transport binds.")
	f.IntVar(&o.Port, "http-port", 8080, "Port for the HTTP transport, 0 picks a free one.")
	f.StringVar(&o.Path, "http-path", "/mcp", "Path the MCP endpoint is mounted on.")
	f.StringVar(&o.TLSCert, "http-tls-cert", "", "Certificate file, serves HTTPS together with --http-tls-key.")
	f.StringVar(&o.TLSKey, "http-tls-key", "", "Private key file for --http-tls-cert.")
	f.IntVar(&o.RateLimit, "http-rate-limit", 120, "Requests per minute per client IP, 0 disables the limit.")
	f.StringVar(&o.Out, "out", ".", "Directory export_report writes PDFs into.")
	f.BoolVar(&o.Watch, "watch", true, "Reload reports when another process changes them.")
}

// Endpoint returns the mount path with a leading slash.
func (o *ServeOptions) Endpoint() string {
	p := strings.TrimSpace(o.Path)
	if p == "" {
		return "/mcp"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Addr validates the port and joins it with the host.
func (o *ServeOptions) Addr() (string, error) {
	if o.Port < 0 || o.Port > 65535 {
		return "", fmt.Errorf("invalid http-port %d", o.Port)
	}
	host := strings.TrimSpace(o.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(o.Port)), nil
}

// TLS reports whether both certificate and key were given.
func (o *ServeOptions) TLS() bool {
	return strings.TrimSpace(o.TLSCert) != "" && strings.TrimSpace(o.TLSKey) != ""
}

// URL is the address clients connect to once the listener is bound to a.
// Wildcard binds are shown as loopback.
func (o *ServeOptions) URL(a net.Addr) string {
	scheme := "http"
	if o.TLS() {
		scheme = "https"
	}
	host, port := strings.TrimSpace(o.Host), strconv.Itoa(o.Port)
	if tcp, ok := a.(*net.TCPAddr); ok {
		port = strconv.Itoa(tcp.Port)
		if host == "" || host == "0.0.0.0" || host == "::" {
			host = "127.0.0.1"
			if tcp.IP != nil && !tcp.IP.IsUnspecified() {
				host = tcp.IP.String()
			}
		}
	}
	return scheme + "://" + net.JoinHostPort(host, port) + o.Endpoint()
}
