package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mrc20-presale/presale-node/internal/interfaces/cli/schedule"
	"github.com/mrc20-presale/presale-node/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "presale-node",
		Short: "MRC20 presale deposit verification node",
		Long: `presale-node validates presale deposit requests against the allocation table,
the sale schedule and the purchases recorded on every configured chain, and returns
a deterministic decision and digest for the network to sign.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		schedule.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
