package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/hospital-contable/pkg/jwt"
	"github.com/spf13/cobra"
)

// tokenCmd emite un token firmado con JWT_SECRET para probar la API en local.
func tokenCmd() *cobra.Command {
	var (
		userID     string
		hospitalID string
		role       string
		ttl        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Genera un JWT de desarrollo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.App.Env == "production" {
				return fmt.Errorf("token: no disponible en production")
			}
			if userID == "" {
				userID = uuid.NewString()
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, userID, hospitalID, role, cfg.JWT.Issuer, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user_id del token (por defecto uno aleatorio)")
	cmd.Flags().StringVar(&hospitalID, "hospital", "", "hospital_id del token")
	cmd.Flags().StringVar(&role, "role", jwt.RoleContador, "rol: admin | contador | auxiliar")
	cmd.Flags().DurationVar(&ttl, "ttl", 8*time.Hour, "vigencia del token")
	return cmd
}
