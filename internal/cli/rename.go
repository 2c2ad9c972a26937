package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <name>",
	Short: "Projekt umbenennen",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadStore()
		if err != nil {
			return err
		}
		if err := s.Rename(args[0]); err != nil {
			return err
		}
		if err := saveStore(s); err != nil {
			return err
		}
		fmt.Printf("Projekt heißt jetzt %q.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
