// Package add saves and deletes daily reports from the command line.
package add

import (
	"context"
	"errors"

	"tableflip.dev/dailyreport/pkg/app"
	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/printers"
	"tableflip.dev/dailyreport/pkg/store"
)

// Save writes the report for Key. Nil fields keep what is already saved.
type Save struct {
	Controller *app.Controller
	Key        datekey.Key
	Company    *string
	Report     *string

	Printer *printers.PrettyPrint
}

func (n *Save) Do(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.Controller == nil {
		return errors.New("can not save, no controller")
	}
	pp := printerOrDefault(n.Printer)

	if err := n.Controller.SelectDate(n.Key); err != nil {
		return err
	}
	if n.Company != nil {
		n.Controller.SetCompany(*n.Company)
	}
	if n.Report != nil {
		n.Controller.SetReport(*n.Report)
	}

	e, err := n.Controller.SaveDraft()
	switch {
	case store.IsPersistenceError(err):
		pp.Warning("%v", err)
	case err != nil:
		return err
	}
	pp.Success("Saved report for %s.", n.Key.Format())
	pp.Entry(n.Key, e)
	return nil
}

// Delete removes the report saved for Key.
type Delete struct {
	Controller *app.Controller
	Key        datekey.Key

	Printer *printers.PrettyPrint
}

func (n *Delete) Do(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.Controller == nil {
		return errors.New("can not delete, no controller")
	}
	pp := printerOrDefault(n.Printer)

	if err := n.Controller.JumpToEntry(n.Key); err != nil {
		return err
	}
	err := n.Controller.DeleteEntry()
	switch {
	case store.IsPersistenceError(err):
		pp.Warning("%v", err)
	case err != nil:
		return err
	}
	pp.Success("Deleted report for %s.", n.Key.Format())
	return nil
}

func printerOrDefault(pp *printers.PrettyPrint) *printers.PrettyPrint {
	if pp != nil {
		return pp
	}
	return &printers.PrettyPrint{}
}
