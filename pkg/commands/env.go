package commands

import (
	"errors"

	"tableflip.dev/dailyreport/pkg/app"
	"tableflip.dev/dailyreport/pkg/export"
	"tableflip.dev/dailyreport/pkg/gate"
	"tableflip.dev/dailyreport/pkg/session"
	"tableflip.dev/dailyreport/pkg/store"
)

var errLocked = errors.New("reports are locked, run `dailyreport unlock` first")

// workspace is what every report command needs: configuration, the
// session flag and, once unlocked, the report store.
type workspace struct {
	cfg     store.Config
	data    *store.DiskKV
	session *session.Session
	gate    *gate.Gate
}

func openWorkspace() (*workspace, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	sessionKV, err := store.NewDiskKV(cfg.SessionPath())
	if err != nil {
		return nil, err
	}
	return &workspace{
		cfg:     cfg,
		session: session.Open(sessionKV, nil),
		gate:    gate.New(cfg.Digest()),
	}, nil
}

// reports opens the report store, refusing while the session is locked.
func (w *workspace) reports() (*store.Store, error) {
	if !w.session.Unlocked() {
		return nil, errLocked
	}
	if s := w.session.Reports(); s != nil {
		return s, nil
	}
	data, err := store.NewDiskKV(w.cfg.BasePath())
	if err != nil {
		return nil, err
	}
	w.data = data
	s := store.Open(data)
	w.session.Attach(s)
	return s, nil
}

func (w *workspace) renderer() *export.Renderer {
	return export.NewRenderer(export.Options{
		Author: w.cfg.Author(),
		Site:   w.cfg.Site(),
	})
}

func (w *workspace) controller() (*app.Controller, error) {
	s, err := w.reports()
	if err != nil {
		return nil, err
	}
	return app.New(s, app.WithExporter(w.renderer())), nil
}
