package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"postpilot/internal/config"
	"postpilot/internal/sitemap"
	"postpilot/internal/storage"
)

func newSitemapCmd(opts *options) *cobra.Command {
	var (
		base    string
		output  string
		publish bool
	)
	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Write the blog sitemap",
		Long: `sitemap writes the XML sitemap for the published posts to
standard output or --output. With --publish it is uploaded to the public
bucket configured through the S3_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.loadService(cmd.Context())
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := sitemap.Write(&buf, svc.Sitemap(base)); err != nil {
				return err
			}

			if publish {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3BucketPublic, cfg.S3PublicURL)
				if err != nil {
					return err
				}
				if client == nil {
					return fmt.Errorf("publish sitemap: S3 storage is not configured")
				}
				url, err := client.Upload(cmd.Context(), "sitemap.xml", "application/xml", buf.Bytes())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			}

			if output != "" {
				return os.WriteFile(output, buf.Bytes(), 0o644)
			}
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		},
	}
	cmd.Flags().StringVar(&base, "base", envOr("SITE_URL", "https://postpilot.io"), "site base URL")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of standard output")
	cmd.Flags().BoolVar(&publish, "publish", false, "upload to the public bucket")
	return cmd
}
