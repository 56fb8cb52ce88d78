package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"postpilot/internal/blog"
	"postpilot/internal/catalog"
	"postpilot/internal/source"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate posts before publishing",
		Long: `check reads every post in the content directory, drafts
included, and reports unknown categories and duplicate slugs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := catalog.Load(opts.categories)
			if err != nil {
				return err
			}
			posts, err := source.NewDir(opts.dir).ListPosts(cmd.Context())
			if err != nil {
				return err
			}
			if err := errors.Join(
				blog.ValidateCategories(posts, cats),
				blog.ValidateSlugs(posts),
			); err != nil {
				return fmt.Errorf("%d posts checked:\n%w", len(posts), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d posts ok\n", len(posts))
			return nil
		},
	}
}
