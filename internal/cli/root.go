// Package cli wires the cobra command tree: project snapshots in, reports
// and invoice imports out.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/avkosten/kostentracker/internal/config"
	"github.com/avkosten/kostentracker/internal/domain"
	"github.com/avkosten/kostentracker/internal/llm"
	"github.com/avkosten/kostentracker/internal/secrets"
	"github.com/avkosten/kostentracker/internal/snapshot"
	"github.com/avkosten/kostentracker/internal/store"
)

var (
	projectPath string
	verbose     bool

	cfg config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kostentracker",
	Short: "Budget- und Kostenverfolgung für AV-Installationen",
	Long: `kostentracker verwaltet geplante Posten, Belege und deren Zuordnung
für AV-Installationsprojekte und gleicht Soll gegen Ist ab.

Projekte werden als .avproj.json-Datei gespeichert und komplett
geladen bzw. geschrieben.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if projectPath == "" {
			projectPath = cfg.Project.Path
		}
		log = newLogger()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the command tree. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Fehler: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectPath, "project", "p", "", "Pfad zur Projektdatei (.avproj.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug-Ausgaben aktivieren")
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err == nil {
		level = parsed
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// loadStore reads the project file into a store. Missing files start a
// fresh project so first runs work without a setup step.
func loadStore() (*store.Store, error) {
	p, err := snapshot.LoadFile(projectPath)
	if os.IsNotExist(err) {
		log.Debug().Str("path", projectPath).Msg("no project file, starting fresh")
		return store.New(domain.NewProject("")), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", projectPath, err)
	}
	return store.New(p), nil
}

func saveStore(s *store.Store) error {
	if err := snapshot.SaveFile(projectPath, s.Project()); err != nil {
		return fmt.Errorf("save project %s: %w", projectPath, err)
	}
	log.Debug().Str("path", projectPath).Msg("project saved")
	return nil
}

// newParser picks the invoice parser: the OpenAI-backed one when a key is
// configured, the offline heuristics otherwise.
func newParser() llm.InvoiceParser {
	key := resolveAPIKey()
	if strings.EqualFold(cfg.LLM.Provider, "openai") && key != "" {
		return llm.NewOpenAIParser(key, cfg.LLM.Model, time.Duration(cfg.LLM.TimeoutSec)*time.Second)
	}
	log.Debug().Msg("no API key configured, using rules-based invoice parser")
	return llm.NewRulesParser()
}

// resolveAPIKey checks the env var first, then the encrypted key store,
// then the plain config value.
func resolveAPIKey() string {
	if cfg.LLM.APIKeyEnv != "" {
		if key := os.Getenv(cfg.LLM.APIKeyEnv); key != "" {
			return key
		}
	}
	if ks, err := secrets.Open(); err == nil {
		if key, err := ks.Get(cfg.LLM.Provider); err == nil {
			return key
		}
	}
	return strings.TrimSpace(cfg.LLM.APIKey)
}
