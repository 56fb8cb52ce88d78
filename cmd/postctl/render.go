package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"postpilot/internal/markdown"
	"postpilot/internal/source"
)

func newRenderCmd() *cobra.Command {
	var (
		toc      bool
		siteHost string
		raw      bool
	)
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a Markdown file to HTML",
		Long: `render prints the HTML for one post. Front matter is stripped
unless --raw is set. Use "-" to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			body := string(data)
			if !raw {
				p, err := source.Parse(filepath.Base(args[0]), data)
				if err != nil {
					return err
				}
				body = p.Body
			}

			out := cmd.OutOrStdout()
			if toc {
				for _, h := range markdown.TableOfContents(body) {
					indent := strings.Repeat("  ", h.Level-2)
					fmt.Fprintf(out, "%s- %s (#%s)\n", indent, h.Title, h.ID)
				}
				return nil
			}

			r := markdown.New(markdown.WithSiteHost(siteHost))
			_, err = fmt.Fprintln(out, r.Render(body))
			return err
		},
	}
	cmd.Flags().BoolVar(&toc, "toc", false, "print the table of contents instead of HTML")
	cmd.Flags().BoolVar(&raw, "raw", false, "treat the whole file as Markdown")
	cmd.Flags().StringVar(&siteHost, "site-host", "postpilot.io", "host whose links are internal")
	return cmd
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
