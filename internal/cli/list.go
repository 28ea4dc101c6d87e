package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista todos os títulos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			titles, err := newClient().List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(titles) == 0 {
				fmt.Fprintln(out, "Nenhum título cadastrado")
				return nil
			}
			for _, t := range titles {
				fmt.Fprintf(out, "%s (%d) - %s\n", t.Nome, t.Ano, t.Categoria)
			}
			return nil
		},
	}
}
