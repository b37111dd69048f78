// Package export writes report PDFs to disk.
package export

import (
	"context"
	"errors"

	"tableflip.dev/dailyreport/pkg/app"
	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/printers"
)

// Export renders Filter, or every saved report when Filter is nil, into Out.
type Export struct {
	Controller *app.Controller
	Filter     *datekey.Key
	Out        string

	Printer *printers.PrettyPrint
}

func (n *Export) Do(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.Controller == nil {
		return errors.New("can not export, no controller")
	}
	doc, err := n.Controller.Export(n.Filter)
	if err != nil {
		return err
	}
	path, err := doc.Save(n.Out)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{}
	if n.Printer != nil {
		pp = *n.Printer
	}
	switch count := len(doc.Plan.Entries); count {
	case 0:
		pp.Warning("no reports found, wrote an empty document")
	case 1:
		pp.Success("Exported 1 report.")
	default:
		pp.Success("Exported %d reports.", count)
	}
	pp.Success("%s", path)
	return nil
}
