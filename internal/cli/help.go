package cli

import (
	"embed"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/hasscleanup/pkg/cobrax/topics"
	"github.com/arthur-debert/hasscleanup/pkg/ui"
)

//go:embed help/*.md
var helpFiles embed.FS

// installHelp adds the embedded help topics to root
func installHelp(root *cobra.Command) error {
	source, err := fs.Sub(helpFiles, "help")
	if err != nil {
		return err
	}

	var renderer topics.Renderer = &topics.PlainRenderer{}
	if ui.DetectFormat(os.Stdout) == ui.FormatTerminal {
		renderer = topics.NewGlamourRenderer()
	}

	m := topics.New(source, topics.Options{Extensions: []string{".md"}, Renderer: renderer})
	if err := m.Load(); err != nil {
		return err
	}
	m.Install(root)
	return nil
}
