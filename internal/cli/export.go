package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avkosten/kostentracker/internal/export"
	"github.com/avkosten/kostentracker/internal/snapshot"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Kostenbericht als CSV oder XLSX exportieren",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadStore()
		if err != nil {
			return err
		}
		p := s.Project()

		out := exportOut
		if out == "" {
			base := strings.TrimSuffix(snapshot.Filename(p), snapshot.Ext)
			out = base + "_bericht." + exportFormat
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()

		switch exportFormat {
		case "csv":
			err = export.WriteCSV(f, p)
		case "xlsx":
			err = export.WriteXLSX(f, p)
		default:
			return fmt.Errorf("unbekanntes Format %q (csv oder xlsx)", exportFormat)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Bericht geschrieben: %s\n", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Ausgabeformat (csv oder xlsx)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Zieldatei (Standard: <Projektname>_bericht.<format>)")
	rootCmd.AddCommand(exportCmd)
}
