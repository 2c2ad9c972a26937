package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avkosten/kostentracker/internal/secrets"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "API-Schlüssel für den Rechnungs-Parser verwalten",
}

var keySetCmd = &cobra.Command{
	Use:   "set <schlüssel>",
	Short: "API-Schlüssel verschlüsselt ablegen",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := secrets.Open()
		if err != nil {
			return err
		}
		if err := store.Set(cfg.LLM.Provider, args[0]); err != nil {
			return err
		}
		fmt.Printf("Schlüssel für %s gespeichert.\n", cfg.LLM.Provider)
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Gespeicherten API-Schlüssel löschen",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := secrets.Open()
		if err != nil {
			return err
		}
		if err := store.Delete(cfg.LLM.Provider); err != nil {
			return err
		}
		fmt.Printf("Schlüssel für %s gelöscht.\n", cfg.LLM.Provider)
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd, keyDeleteCmd)
	rootCmd.AddCommand(keyCmd)
}
