package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursewiz/internal/app"
	"github.com/abhisek/coursewiz/internal/config"
	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/gateway"
	"github.com/abhisek/coursewiz/internal/llm"
	"github.com/abhisek/coursewiz/internal/logger"
	"github.com/abhisek/coursewiz/internal/screen"
	"github.com/abhisek/coursewiz/internal/screens/submitted"
	"github.com/abhisek/coursewiz/internal/screens/welcome"
	wizscreen "github.com/abhisek/coursewiz/internal/screens/wizard"
	"github.com/abhisek/coursewiz/internal/store"
	"github.com/abhisek/coursewiz/internal/wizard"
)

// fetcher is what the wizard needs from a generation backend.
type fetcher interface {
	wizard.StructureFetcher
	wizard.SuggestionFetcher
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	log, err := tuiLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	backend, label, err := newFetcher(cmd, cfg, st, log)
	if err != nil {
		return err
	}

	submitter := wizard.NewStoreSubmitter(st.SubmissionRepo(), log)
	seed := course.DefaultValues(cfg.Provider, cfg.DefaultModel())

	var newWizard func() screen.Screen
	newWizard = func() screen.Screen {
		values := seed.Clone()
		ctrl := wizard.New(wizard.Options{
			Values:      &values,
			Structures:  backend,
			Suggestions: backend,
			Submitter:   submitter,
			Context:     ctx,
		})
		return wizscreen.New(ctrl, func(v course.FormValues) screen.Screen {
			return submitted.New(v, newWizard)
		}, log)
	}

	log.Info("starting wizard", "backend", label, "provider", cfg.Provider)
	return app.Run(app.Options{Root: welcome.New(newWizard, label)})
}

// newFetcher returns the remote gateway client when a gateway URL is
// configured and an in-process service otherwise.
func newFetcher(cmd *cobra.Command, cfg *config.Config, st *store.Store, log *logger.Logger) (fetcher, string, error) {
	if cfg.GatewayURL != "" {
		return gateway.NewClient(cfg.GatewayURL, nil), "gateway " + cfg.GatewayURL, nil
	}

	llmCfg := cfg.LLM()
	reg, err := llm.NewRegistry(cmd.Context(), llmCfg, st.EventRepo(), log)
	if err != nil {
		return nil, "", fmt.Errorf("build LLM providers: %w", err)
	}
	if len(reg.Names()) == 0 {
		fmt.Fprintln(os.Stderr, "No LLM provider configured. Set OPENAI_API_KEY, GEMINI_API_KEY or ANTHROPIC_API_KEY.")
		fmt.Fprintln(os.Stderr, "AI suggestions will be unavailable.")
	}
	return gateway.NewService(reg, gateway.DefaultConfig(), log), "local AI", nil
}

// tuiLogger writes to a file so log lines never reach the alt screen.
func tuiLogger(cfg *config.Config) (*logger.Logger, error) {
	file := cfg.LogFile
	if file == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		file = filepath.Join(dir, "coursewiz.log")
	}
	log, err := logger.New(logger.Options{Mode: "prod", Level: cfg.LogLevel, File: file})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}
