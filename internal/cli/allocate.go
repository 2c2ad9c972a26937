package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avkosten/kostentracker/internal/reconcile"
)

var allocateCmd = &cobra.Command{
	Use:   "allocate [positions-id posten-id]",
	Short: "Belegpositionen Posten zuordnen",
	Long: `Ohne Argumente werden alle nicht zugeordneten Belegpositionen mit
Zuordnungsvorschlägen aufgelistet. Mit zwei Argumenten wird die Position
dem Posten zugeordnet; eine leere Posten-ID ("") hebt die Zuordnung auf.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadStore()
		if err != nil {
			return err
		}

		if len(args) == 2 {
			if err := s.Allocate(args[0], args[1]); err != nil {
				return err
			}
			return saveStore(s)
		}
		if len(args) == 1 {
			return fmt.Errorf("positions-id und posten-id angeben, oder keines von beiden")
		}

		p := s.Project()
		for _, l := range p.Lines {
			if l.Allocated() {
				continue
			}
			fmt.Printf("%s  %-40s %s\n", l.ID, l.Description, l.LineTotal.StringFixed(2))
			for _, sug := range reconcile.SuggestAllocations(p, l, 3) {
				fmt.Printf("    → %s  %-32s (%.0f%%)\n",
					sug.Item.ID, sug.Item.Name, sug.Similarity*100)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(allocateCmd)
}
