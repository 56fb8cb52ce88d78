package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"postpilot/internal/blog"
)

func newSearchCmd(opts *options) *cobra.Command {
	q := blog.ListQuery{}
	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search published posts",
		Long: `search ranks the published posts against QUERY and prints one
page of results, best match first. Without a query it lists posts newest
first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				q.Query = args[0]
			}
			svc, err := opts.loadService(cmd.Context())
			if err != nil {
				return err
			}
			page, err := svc.List(cmd.Context(), q)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if page.Total == 0 {
				fmt.Fprintln(out, "no posts found")
				return nil
			}
			for _, p := range page.Items {
				fmt.Fprintf(out, "%s/%s\t%s\t%s\n", p.Category, p.URLSlug(), p.PublishDate.Format("2006-01-02"), p.Title)
			}
			fmt.Fprintf(out, "page %d of %d (%d %s)\n", page.Page, page.TotalPages, page.Total, plural(page.Total, "post"))
			return nil
		},
	}
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	cmd.Flags().StringVar(&q.Category, "category", "", "only posts in this category")
	cmd.Flags().StringVar(&q.Tag, "tag", "", "only posts with this tag")
	return cmd
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
