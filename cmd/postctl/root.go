package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"postpilot/internal/blog"
	"postpilot/internal/catalog"
	"postpilot/internal/source"
)

// options are shared by every subcommand.
type options struct {
	dir        string
	categories string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "postctl",
		Short: "PostPilot blog content tool",
		Long: `postctl works on a directory of Markdown posts laid out as
<dir>/<category>/<slug>.md. It renders single files, runs searches,
writes the sitemap, checks content before it is published and pushes it
into PostgreSQL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dir, "dir", envOr("CONTENT_DIR", "content"), "content directory")
	cmd.PersistentFlags().StringVar(&opts.categories, "categories", os.Getenv("CATEGORIES_FILE"), "categories YAML file (default is the built-in catalogue)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(
		newRenderCmd(),
		newSearchCmd(opts),
		newSitemapCmd(opts),
		newCheckCmd(opts),
		newPushCmd(opts),
	)
	return cmd
}

// loadService builds a blog service over the content directory and loads it.
func (o *options) loadService(ctx context.Context, svcOpts ...blog.Option) (*blog.Service, error) {
	cats, err := catalog.Load(o.categories)
	if err != nil {
		return nil, err
	}
	svc := blog.New(source.NewDir(o.dir), cats, svcOpts...)
	if err := svc.Refresh(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
