package commands

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"
)

// DownloadOptions holds options for the download command
type DownloadOptions struct {
	OutputFile string
}

func newDownloadCommand(g *GlobalOptions) *cobra.Command {
	opts := &DownloadOptions{}

	cmd := &cobra.Command{
		Use:   "download PATH",
		Short: "Save a binary such as a document PDF",
		Long: `Fetch a file from the Holded API and save it. Files served directly and
files wrapped as base64 JSON are both handled.`,
		Example: `  # Save an invoice PDF
  holded download invoicing/v1/documents/invoice/5f1a.../pdf -f invoice.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := g.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			file, err := client.Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			target := opts.OutputFile
			if target == "" {
				target = defaultFileName(args[0], file.Extension)
			}
			if dir := filepath.Dir(target); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}
			if err := os.WriteFile(target, file.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}

			okLabel.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes, %s)\n", target, len(file.Data), mediaTypeOrUnknown(file.MediaType))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.OutputFile, "file", "f", "", "Output file (default derived from PATH)")

	return cmd
}

// defaultFileName names a download after the meaningful part of its path:
// the document id for .../{id}/pdf, otherwise the last segment.
func defaultFileName(apiPath, ext string) string {
	name := path.Base(path.Clean("/" + apiPath))
	if name == "pdf" {
		name = path.Base(path.Dir(path.Clean("/" + apiPath)))
		if ext == "" {
			ext = "pdf"
		}
	}
	if name == "/" || name == "." {
		name = "download"
	}
	if ext != "" && filepath.Ext(name) == "" {
		name += "." + ext
	}
	return name
}

func mediaTypeOrUnknown(mediaType string) string {
	if mediaType == "" {
		return "unknown type"
	}
	return mediaType
}
