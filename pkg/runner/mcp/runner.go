package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/dailyreport/pkg/app"
	"tableflip.dev/dailyreport/pkg/store"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportStdio serves MCP over stdio.
	TransportStdio Transport = "stdio"
)

// Runner coordinates MCP server startup.
type Runner struct {
	Reports  *store.Store
	Exporter app.Exporter
	Name     string
	Version  string
	// OutDir receives PDFs written by export_report.
	OutDir string
	// WatchDir, when set, reloads Reports whenever another process writes
	// the report store.
	WatchDir string

	Transport        Transport
	HTTPListenAddr   string
	HTTPEndpointPath string
	OnHTTPListening  func(net.Addr)
	HTTPServerCert   string
	HTTPServerKey    string
	// HTTPRateLimit caps requests per minute per client IP; zero disables it.
	HTTPRateLimit int
}

// Do executes the runner until ctx is done or the transport stops.
func (r Runner) Do(ctx context.Context) error {
	if r.Reports == nil {
		return errors.New("mcp runner requires a report store")
	}
	name := r.Name
	if name == "" {
		name = "dailyreport"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	srv := server.NewMCPServer(
		fmt.Sprintf("%s MCP", name),
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Read, write and export daily work reports keyed by YYYY-MM-DD via MCP."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)

	svc := NewService(r.Reports, r.Exporter)
	svc.OutDir = r.OutDir
	registerResources(srv, svc)
	registerTools(srv, svc)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if r.WatchDir != "" {
		g.Go(func() error {
			return r.reloadOnChange(gctx)
		})
	}

	g.Go(func() error {
		defer cancel()
		switch t := r.Transport; t {
		case "", TransportHTTP:
			return r.serveHTTP(gctx, srv, svc)
		case TransportStdio:
			return server.ServeStdio(srv)
		default:
			return fmt.Errorf("unknown MCP transport %q", t)
		}
	})
	return g.Wait()
}

func (r Runner) reloadOnChange(ctx context.Context) error {
	events, err := store.Watch(ctx, r.WatchDir)
	if err != nil {
		return err
	}
	for ev := range events {
		if ev.Err != nil {
			log.Printf("mcp: store watch: %v", ev.Err)
		}
		if r.Reports.Stale() {
			r.Reports.Reload()
		}
	}
	return nil
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer, svc *Service) error {
	if (r.HTTPServerCert != "" && r.HTTPServerKey == "") || (r.HTTPServerCert == "" && r.HTTPServerKey != "") {
		return errors.New("both http tls cert and key must be provided")
	}

	handler := server.NewStreamableHTTPServer(srv)

	path := r.HTTPEndpointPath
	if path == "" {
		path = "/mcp"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	listenAddr := r.HTTPListenAddr
	if listenAddr == "" {
		listenAddr = "127.0.0.1:8080"
	}

	httpSrv := &http.Server{
		Handler:           r.router(path, handler, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	if r.OnHTTPListening != nil {
		r.OnHTTPListening(ln.Addr())
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if r.HTTPServerCert != "" && r.HTTPServerKey != "" {
		err = httpSrv.ServeTLS(ln, r.HTTPServerCert, r.HTTPServerKey)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// router mounts the MCP endpoint next to plain PDF downloads.
func (r Runner) router(path string, mcpHandler http.Handler, svc *Service) http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	if r.HTTPRateLimit > 0 {
		mux.Use(httprate.LimitByIP(r.HTTPRateLimit, time.Minute))
	}

	mux.Handle(path, mcpHandler)
	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Get("/export/all.pdf", func(w http.ResponseWriter, req *http.Request) {
		servePDF(w, req, svc, ExportArgs{})
	})
	mux.Get("/export/{date}.pdf", func(w http.ResponseWriter, req *http.Request) {
		servePDF(w, req, svc, ExportArgs{Date: chi.URLParam(req, "date")})
	})
	return mux
}

func servePDF(w http.ResponseWriter, req *http.Request, svc *Service, args ExportArgs) {
	doc, err := svc.Render(req.Context(), args)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	if _, err := doc.WriteTo(w); err != nil {
		log.Printf("mcp: write %s: %v", doc.Filename, err)
	}
}
