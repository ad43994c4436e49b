package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/HerbHall/fullstock/internal/build"
	"github.com/HerbHall/fullstock/internal/catalog"
	"github.com/HerbHall/fullstock/internal/web"
)

func buildCmd() *cobra.Command {
	var opts build.Options
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the static deployment",
		Long: `Generate js/config.js from the Airtable credentials and copy the site into
the output directory. The build fails without writing anything when
AIRTABLE_API_KEY, AIRTABLE_BASE_ID or AIRTABLE_TABLE_ID is missing.

When the source directory has no index.html, the dashboard is rendered from
the configured catalog together with its stylesheet and script.`,
		Example: `  fullstock build --src . --out public
  fullstock build --out public --env-file .env.production --archive site.tar.gz`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := loadCatalog(appConfig)
			if err != nil {
				return err
			}
			renderer := web.NewRenderer(catalog.NewEngine(src), web.WithLogger(appLogger.Named("web")))
			opts.Index = func(w io.Writer) error { return renderer.Render(w, web.ViewState{}) }
			opts.Assets = web.Assets()
			opts.Logger = appLogger.Named("build")

			res, err := build.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Build completed: %d files in %s\n", len(res.Files), opts.OutDir)
			if res.Archive != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Archive created: %s\n", res.Archive)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.SrcDir, "src", ".", "source directory containing index.html and js, css, assets, data")
	cmd.Flags().StringVar(&opts.OutDir, "out", "public", "output directory")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file with the Airtable credentials")
	cmd.Flags().StringVar(&opts.Archive, "archive", "", "also bundle the output into this tar.gz file")
	return cmd
}
