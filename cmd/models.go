package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursewiz/internal/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List AI providers and the models the wizard may use",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		llmCfg := cfg.LLM()

		for i, p := range llm.Providers() {
			if i > 0 {
				fmt.Println()
			}
			status := "not configured, set " + llm.CredentialEnvVar(p)
			if llmCfg.APIKey(p) != "" {
				status = "configured"
			}
			fmt.Printf("%s (%s) - %s\n", llm.ProviderLabel(p), p, status)
			fmt.Println(strings.Repeat("─", 60))

			for _, m := range llm.Models(p) {
				mark := " "
				if m.ID == cfg.DefaultModel() && p == cfg.Provider {
					mark = "*"
				}
				avail := ""
				if !m.Available {
					avail = "(unavailable)"
				}
				fmt.Printf("%s %-30s  %-24s  %s\n", mark, m.ID, m.DisplayLabel(), avail)
			}
		}
		return nil
	},
}
