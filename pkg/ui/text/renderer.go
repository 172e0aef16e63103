// Package text renders results as plain lines
package text

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/arthur-debert/hasscleanup/pkg/cleaner"
)

// Renderer writes unstyled output suitable for pipes and logs
type Renderer struct {
	output io.Writer
}

// New creates a text renderer writing to output
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderResult renders a run result or a device inventory
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *cleaner.Result:
		return r.renderRun(v)
	case *cleaner.Inventory:
		return r.renderInventory(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderRun(res *cleaner.Result) error {
	if _, err := fmt.Fprintln(r.output, res.Message()); err != nil {
		return err
	}
	for _, path := range res.Backups {
		if _, err := fmt.Fprintf(r.output, "backup: %s\n", path); err != nil {
			return err
		}
	}
	for _, path := range res.Written {
		if _, err := fmt.Fprintf(r.output, "wrote: %s\n", path); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderInventory(inv *cleaner.Inventory) error {
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tMANUFACTURER\tMODEL\tENTITIES")
	for _, d := range inv.Devices {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", d.ID, d.Name, d.Manufacturer, d.Model, d.Entities)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(r.output, "%d devices, %d orphan entities, %d unassigned entities\n",
		len(inv.Devices), inv.Orphans, inv.Unassigned)
	return err
}

// RenderError renders err prefixed with "Error: "
func (r *Renderer) RenderError(err error) error {
	_, writeErr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return writeErr
}

// RenderMessage writes msg on its own line
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
