// lylebot is a terminal console for the LyleBot services: a contact manager,
// a document chat grounded in an uploaded PDF corpus, and corpus management.
// Run without arguments for the interactive console; subcommands cover the
// same operations for scripting.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lylebot/cmd/lylebot/tui"
	"lylebot/cmd/lylebot/ui"
	"lylebot/internal/api"
	"lylebot/internal/config"
	"lylebot/internal/contacts"
	"lylebot/internal/corpus"
	"lylebot/internal/docchat"
	"lylebot/internal/logging"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lylebot",
	Short: "Terminal console for the LyleBot contact and document services",
	Long: `lylebot talks to two REST backends: a contact service (CRUD, activity
logs, personalized email drafts) and a document service (chat over an
uploaded PDF corpus, source downloads, outreach email).

Run without arguments to start the interactive console.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}

		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "lylebot.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(contactsCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(corpusCmd)
	rootCmd.AddCommand(outreachCmd)
}

// contactClient builds the contact service client from the loaded config.
func contactClient() *contacts.Client {
	base := api.New(cfg.ContactAPI.BaseURL, cfg.ContactAPI.TimeoutDuration(), logger)
	return contacts.NewClient(base, logger)
}

// documentClient builds the document service chat client.
func documentClient() *docchat.Client {
	base := api.New(cfg.DocumentAPI.BaseURL, cfg.DocumentAPI.TimeoutDuration(), logger)
	return docchat.NewClient(base, logger)
}

// corpusClient builds the document service corpus client.
func corpusClient() *corpus.Client {
	base := api.New(cfg.DocumentAPI.BaseURL, cfg.DocumentAPI.TimeoutDuration(), logger)
	return corpus.NewClient(base, logger)
}

// runConsole launches the interactive TUI.
func runConsole() error {
	styles := ui.NewStyles(ui.DetectTheme())

	model := tui.New(tui.Deps{
		Contacts:  contactClient(),
		Chat:      documentClient(),
		Corpus:    corpusClient(),
		Styles:    styles,
		PageSize:  cfg.UI.PageSize,
		PollEvery: cfg.UI.PollInterval(),
		Logger:    logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console failed: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
