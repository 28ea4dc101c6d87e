package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newSortearCmd() *cobra.Command {
	var (
		categoria string
		decada    int
	)
	cmd := &cobra.Command{
		Use:   "sortear",
		Short: "Sorteia um título, opcionalmente por categoria ou década",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			byDecade := cmd.Flags().Changed("decada")
			if categoria != "" && byDecade {
				return errors.New("use --categoria ou --decada, não ambos")
			}
			var decadaPtr *int
			if byDecade {
				decadaPtr = &decada
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			title, err := newClient().Sample(ctx, categoria, decadaPtr)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d) - %s\n", title.Nome, title.Ano, title.Categoria)
			return nil
		},
	}
	cmd.Flags().StringVar(&categoria, "categoria", "", "Sorteia dentro da categoria")
	cmd.Flags().IntVar(&decada, "decada", 0, "Sorteia dentro da década (ex.: 1990)")
	return cmd
}
