package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HerbHall/fullstock/internal/catalog"
	pkgcatalog "github.com/HerbHall/fullstock/pkg/catalog"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and export the inventory catalog",
	}
	cmd.AddCommand(catalogExportCmd())
	cmd.AddCommand(catalogCheckCmd())
	return cmd
}

func catalogExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog to an .xlsx workbook",
		Long: `Export the inventory and supplier sheets of the configured catalog. The
workbook can be edited and loaded back with the catalog.workbook setting.`,
		Example: `  fullstock catalog export --out catalog.xlsx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := loadCatalog(appConfig)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := pkgcatalog.WriteWorkbook(f, src); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog exported: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "catalog.xlsx", "output workbook path")
	return cmd
}

func catalogCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [workbook]",
		Short: "Validate a catalog workbook and print its status counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				src *pkgcatalog.Catalog
				err error
			)
			if len(args) == 1 {
				src, err = pkgcatalog.LoadWorkbook(args[0])
			} else {
				src, err = loadCatalog(appConfig)
			}
			if err != nil {
				return err
			}
			engine := catalog.NewEngine(src)
			s, err := engine.Summary()
			if err != nil {
				return err
			}
			suppliers, err := engine.Suppliers()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "items: %d (critical %d, warning %d, ok %d)\nsuppliers: %d\n",
				s.Total, s.Critical, s.Warning, s.OK, len(suppliers))
			return nil
		},
	}
}
