package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"greenhouse/config"
	"greenhouse/pkg/logging"
)

var (
	// Global flags
	debug       bool
	rpcURL      string
	artifactSrc string

	cfg    config.AppConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "greenhouse",
	Short: "Greenhouse crop supply-chain front-end",
	Long: `greenhouse talks to a deployed GreenHouseContract: it lists crops,
moves them along the supply chain, records sensor data and serves the
greenhouse, exporter and buyer dashboards over HTTP.

Configuration comes from the environment (and an optional .env file);
see PORT, RPC_URL, CONTRACT_ARTIFACT and WALLET_PRIVATE_KEY.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if logger, err = logging.New(debug); err != nil {
			return err
		}
		cfg = config.Load(logger)
		if cfg.Debug && !debug {
			if logger, err = logging.New(true); err != nil {
				return err
			}
		}
		if rpcURL != "" {
			cfg.RPCURL = rpcURL
		}
		if artifactSrc != "" {
			cfg.ArtifactSource = artifactSrc
		}
		logger.Debug("config loaded", zap.Stringer("config", cfg))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc", "", "JSON-RPC endpoint (overrides RPC_URL)")
	rootCmd.PersistentFlags().StringVar(&artifactSrc, "artifact", "", "contract artifact path or URL (overrides CONTRACT_ARTIFACT)")

	cropsCmd.AddCommand(cropsListCmd, cropsShowCmd, cropsAddCmd,
		cropsSendToManufacturerCmd, cropsSendToSupplierCmd, cropsSetStatusCmd, cropsExportCmd)
	sensorCmd.AddCommand(sensorAddCmd)
	opsCmd.AddCommand(opsListCmd)

	rootCmd.AddCommand(serveCmd, sessionCmd, cropsCmd, sensorCmd, opsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
