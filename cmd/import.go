package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ChrisDrivar/drivar-dashboard/internal/importer"
	"github.com/ChrisDrivar/drivar-dashboard/pkg/geocode"
)

var importFlags struct {
	sourceSheet string
	geocode     bool
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import owners and vehicles from the legacy import tab",
	Long:  "Rebuilds the owners and inventory tables of the configured workbook from the legacy export tab, splitting vehicle lists and normalizing contact data.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Sheets.Workbook == "" {
			return eris.New("import needs a local workbook, set sheets.workbook")
		}

		_, store := newTableBackend()

		var gc geocode.Client
		if importFlags.geocode {
			client, cleanup := newGeocoder()
			defer cleanup()
			gc = client
		}

		summary, err := importer.New(store, gc, cfg.Sheets).Run(cmd.Context(), importFlags.sourceSheet)
		if err != nil {
			return err
		}

		fmt.Printf("Import abgeschlossen (%s): %d Vermieter, %d Fahrzeuge, %d geokodiert\n",
			summary.BatchID, summary.Owners, summary.Vehicles, summary.Geocoded)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFlags.sourceSheet, "source", "import", "source tab name")
	importCmd.Flags().BoolVar(&importFlags.geocode, "geocode", false, "geocode owner cities during import")
	rootCmd.AddCommand(importCmd)
}
