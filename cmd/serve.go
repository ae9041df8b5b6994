package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursewiz/internal/gateway"
	"github.com/abhisek/coursewiz/internal/llm"
	"github.com/abhisek/coursewiz/internal/logger"
	"github.com/abhisek/coursewiz/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the AI gateway over HTTP",
	Long: `serve exposes the structure, suggestion and model catalog endpoints used
by the wizard. Point a wizard at it with gateway_url in the config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ServerAddr = addr
		}
		format, _ := cmd.Flags().GetString("log-format")

		log, err := logger.New(logger.Options{Mode: format, Level: cfg.LogLevel, File: cfg.LogFile})
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg, err := llm.NewRegistry(ctx, cfg.LLM(), st.EventRepo(), log)
		if err != nil {
			return fmt.Errorf("build LLM providers: %w", err)
		}
		if len(reg.Names()) == 0 {
			log.Warn("no LLM provider configured; generation requests will fail")
		}

		svc := gateway.NewService(reg, gateway.DefaultConfig(), log)
		router := server.NewRouter(server.RouterConfig{
			AIHandler:    server.NewAIHandler(svc, reg.Names),
			Log:          log,
			AllowOrigins: cfg.AllowOrigins,
		})

		return server.New(cfg.ServerAddr, router, log).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().String("log-format", "prod", "Log encoding: prod (JSON) or dev (console)")
}
