package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Mostra a contagem por categoria e por década",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			api := newClient()
			categories, err := api.CountByCategory(ctx)
			if err != nil {
				return err
			}
			decades, err := api.CountByDecade(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Categorias:")
			for _, c := range categories {
				fmt.Fprintf(out, "  %-20s %d\n", c.Categoria, c.QuantidadeFilmes)
			}
			fmt.Fprintln(out, "Décadas:")
			for _, d := range decades {
				fmt.Fprintf(out, "  %-20d %d\n", d.Decada, d.QuantidadeFilmes)
			}
			return nil
		},
	}
}
