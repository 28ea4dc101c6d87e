// Package cli catalogctl 命令行：调用运行中的 DecideFlix API。
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/decideflix/internal/client"
)

// DefaultAPI 默认服务地址
const DefaultAPI = "http://127.0.0.1:5000"

const requestTimeout = 30 * time.Second

var (
	apiURL   string
	apiToken string
)

// newClient 便于测试替换
var newClient = func() *client.Client {
	return client.New(apiURL, apiToken)
}

// NewRootCmd 根命令
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "catalogctl - ferramenta de linha de comando do DecideFlix",
		Long:  "catalogctl lista, importa, sorteia e resume títulos de uma API DecideFlix em execução.",
	}
	cmd.SilenceUsage = true

	defaultAPI := os.Getenv("DECIDEFLIX_API")
	if defaultAPI == "" {
		defaultAPI = DefaultAPI
	}
	cmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "Endereço base da API (env DECIDEFLIX_API)")
	cmd.PersistentFlags().StringVar(&apiToken, "token", "", "Token Bearer enviado nas requisições")

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newSortearCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newTokenCmd())
	return cmd
}

// Execute 入口
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
