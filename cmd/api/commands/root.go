package commands

import (
	"fmt"
	"os"

	"github.com/jhoicas/hospital-contable/pkg/config"
	"github.com/jhoicas/hospital-contable/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log *logger.Logger
)

// Execute arma el comando raíz. Sin subcomando levanta la API.
func Execute() error {
	root := &cobra.Command{
		Use:           "hospital-contable",
		Short:         "Núcleo contable del hospital: libro diario y comprobantes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			log = logger.New(logger.Config{
				Env:     cfg.App.Env,
				Level:   cfg.App.LogLevel,
				Service: cfg.App.Name,
			})
			return nil
		},
	}

	serve := serveCmd()
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, migrateCmd(), tokenCmd())
	if err := root.Execute(); err != nil {
		if log != nil {
			log.Error().Err(err).Str("command", root.Name()).Msg("comando finalizado con error")
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		return err
	}
	return nil
}
