// Package terminal renders styled output for interactive terminals
package terminal

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/hasscleanup/pkg/cleaner"
	"github.com/arthur-debert/hasscleanup/pkg/styles"
)

// Renderer writes lipgloss styled lines and pterm tables
type Renderer struct {
	output io.Writer
}

// New creates a terminal renderer writing to output
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
	style := "Success"
	switch res.Status {
	case cleaner.StatusNotFound:
		style = "Warning"
	case cleaner.StatusDryRun:
		style = "Info"
	}
	if _, err := fmt.Fprintln(r.output, styles.Render(style, res.Message())); err != nil {
		return err
	}
	for _, path := range res.Backups {
		if _, err := fmt.Fprintf(r.output, "  %s %s\n", styles.Render("Muted", "backup"), styles.Render("FilePath", path)); err != nil {
			return err
		}
	}
	for _, path := range res.Written {
		if _, err := fmt.Fprintf(r.output, "  %s %s\n", styles.Render("Muted", "wrote "), styles.Render("FilePath", path)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderInventory(inv *cleaner.Inventory) error {
	if _, err := fmt.Fprintln(r.output, styles.Render("Header", "Devices in "+inv.Directory)); err != nil {
		return err
	}

	if len(inv.Devices) > 0 {
		data := pterm.TableData{{"ID", "Name", "Manufacturer", "Model", "Entities"}}
		for _, d := range inv.Devices {
			data = append(data, []string{
				styles.Render("DeviceID", d.ID),
				d.Name,
				d.Manufacturer,
				d.Model,
				strconv.Itoa(d.Entities),
			})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(r.output, table); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("%s devices, %s orphan entities, %s unassigned entities",
		styles.Render("Count", strconv.Itoa(len(inv.Devices))),
		styles.Render("Count", strconv.Itoa(inv.Orphans)),
		styles.Render("Count", strconv.Itoa(inv.Unassigned)))
	_, err := fmt.Fprintln(r.output, styles.Render("Muted", summary))
	return err
}

// RenderError renders err in the Error style
func (r *Renderer) RenderError(err error) error {
	_, writeErr := fmt.Fprintln(r.output, styles.Render("Error", "Error: "+err.Error()))
	return writeErr
}

// RenderMessage renders msg in the Info style
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, styles.Render("Info", msg))
	return err
}
