package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/decideflix/internal/middleware"
)

func newTokenCmd() *cobra.Command {
	var (
		name string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Gera um token de administrador assinado com APP_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("APP_SECRET")
			if secret == "" {
				return errors.New("APP_SECRET não definida")
			}
			if ttl <= 0 {
				return errors.New("--ttl deve ser positivo")
			}

			token, err := middleware.GenerateToken(name, middleware.RoleAdmin, secret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "nome", "catalogctl", "Nome gravado no token")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Validade do token")
	return cmd
}
