package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/decideflix/internal/model"
	"gopkg.in/yaml.v3"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <arquivo>",
		Short: "Importa títulos de um arquivo YAML ou JSON via /titulos/lote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("ler %s: %w", args[0], err)
			}
			titles, err := parseSeed(data)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			n, err := newClient().CreateBatch(ctx, titles)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d títulos inseridos\n", n)
			return nil
		},
	}
}

// parseSeed 解析种子文件；JSON 是 YAML 的子集，统一用 yaml 解析
func parseSeed(data []byte) ([]model.TitleInput, error) {
	var titles []model.TitleInput
	if err := yaml.Unmarshal(data, &titles); err != nil {
		return nil, fmt.Errorf("arquivo inválido: %w", err)
	}
	if len(titles) == 0 {
		return nil, errors.New("arquivo sem títulos")
	}
	return titles, nil
}
