package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avkosten/kostentracker/internal/domain"
	"github.com/avkosten/kostentracker/internal/snapshot"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Projektdatei mit Beispieldaten anlegen",
	Long: `Schreibt ein Beispielprojekt mit Posten, Belegen und Zuordnungen in
die Projektdatei. Eine vorhandene Projektdatei wird überschrieben.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := domain.DemoProject()
		if err := snapshot.SaveFile(projectPath, p); err != nil {
			return fmt.Errorf("save project %s: %w", projectPath, err)
		}
		fmt.Printf("Beispielprojekt %q gespeichert: %s\n", p.Name, projectPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
