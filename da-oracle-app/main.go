package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/compose-network/da-oracle/da-oracle-app/config"
	"github.com/compose-network/da-oracle/log"
	"github.com/compose-network/da-oracle/x/da"
	dahttp "github.com/compose-network/da-oracle/x/da/http"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "da-oracle",
		Short: "DA gas oracle",
		Long:  banner + "\n\nEstimates the L2 gas a rollup charges to publish user operation calldata to its DA layer.",
		RunE:  runApp,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP estimate service (default)",
		RunE:  runApp,
	}

	estimateCmd = &cobra.Command{
		Use:   "estimate",
		Short: "Run a single estimate and print it as JSON",
		RunE:  runEstimate,
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE:  runConfig,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run:   runVersion,
	}
)

const banner = `
 ____    _       ___                 _
|  _ \  / \     / _ \ _ __ __ _  ___| | ___
| | | |/ _ \   | | | | '__/ _` + "`" + ` |/ __| |/ _ \
| |_| / ___ \  | |_| | | | (_| | (__| |  __/
|____/_/   \_\  \___/|_|  \__,_|\___|_|\___|`

func main() {
	if err := execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func execute() error {
	initCommands()
	return rootCmd.Execute()
}

func initCommands() {
	// Add subcommands
	rootCmd.AddCommand(serveCmd, estimateCmd, configCmd, versionCmd)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-pretty", false, "enable pretty logging")

	// Server flags
	rootCmd.PersistentFlags().String("listen-addr", "", "API listen address")
	rootCmd.PersistentFlags().Duration("read-timeout", 0, "API read timeout")
	rootCmd.PersistentFlags().Duration("write-timeout", 0, "API write timeout")

	// Metrics flags
	rootCmd.PersistentFlags().Bool("metrics", false, "enable metrics")
	rootCmd.PersistentFlags().Int("metrics-port", 0, "metrics server port (0 serves on the API listener)")

	// Oracle flags
	rootCmd.PersistentFlags().String("rpc-endpoint", "", "L2 node RPC endpoint")
	rootCmd.PersistentFlags().Uint64("chain-id", 0, "expected chain ID (0 skips the check)")
	rootCmd.PersistentFlags().String("oracle-type", "", "oracle type (none, arbitrum_nitro, optimism_bedrock, calldata)")
	rootCmd.PersistentFlags().String("oracle-address", "", "helper contract address (default per oracle type)")

	// Estimate flags
	estimateCmd.Flags().String("calldata", "0x", "user operation calldata (0x-hex)")
	estimateCmd.Flags().String("to", "", "destination address")
	estimateCmd.Flags().String("block", "latest", "block tag, number or hash")
	estimateCmd.Flags().String("gas-price", "", "L2 gas price in wei (decimal or 0x)")
	estimateCmd.Flags().Uint("extra-data-len", 0, "bytes still to be appended to calldata")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Read(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	fmt.Println(banner)
	fmt.Println()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := log.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("go_version", runtime.Version()).
		Msg("Build information")

	log.Info().
		Str("config_file", cfgFile).
		Str("listen_addr", cfg.API.ListenAddr).
		Int("metrics_port", cfg.Metrics.Port).
		Bool("metrics_enabled", cfg.Metrics.Enabled).
		Str("oracle_type", string(cfg.Oracle.Type)).
		Str("log_level", cfg.Log.Level).
		Msg("Configuration loaded")

	application, err := NewApp(cmd.Context(), cfg, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return application.Run(cmd.Context())
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Logs go to stderr so stdout carries only the JSON result.
	log := log.NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)

	calldata, _ := cmd.Flags().GetString("calldata")
	to, _ := cmd.Flags().GetString("to")
	block, _ := cmd.Flags().GetString("block")
	gasPrice, _ := cmd.Flags().GetString("gas-price")
	extra, _ := cmd.Flags().GetUint("extra-data-len")

	req, err := dahttp.ParseRequest(cfg.Estimate, calldata, to, block, gasPrice, extra)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	oracle, closeFn, err := buildOracle(ctx, cfg, log.Logger)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(ctx, cfg.Estimate.Timeout)
	defer cancel()

	est, err := oracle.EstimateDAGas(ctx, req)
	if err != nil {
		return fmt.Errorf("estimate failed: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(dahttp.Response(est))
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out, err := cfg.YAML()
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runVersion(*cobra.Command, []string) {
	fmt.Println(banner)
	fmt.Println()
	fmt.Printf("DA Gas Oracle\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
	fmt.Printf("Go Version: %s\n", runtime.Version())
	fmt.Printf("OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-pretty") {
		cfg.Log.Pretty, _ = flags.GetBool("log-pretty")
	}

	if flags.Changed("listen-addr") {
		cfg.API.ListenAddr, _ = flags.GetString("listen-addr")
	}
	if flags.Changed("read-timeout") {
		cfg.API.ReadTimeout, _ = flags.GetDuration("read-timeout")
	}
	if flags.Changed("write-timeout") {
		cfg.API.WriteTimeout, _ = flags.GetDuration("write-timeout")
	}

	if flags.Changed("metrics") {
		cfg.Metrics.Enabled, _ = flags.GetBool("metrics")
	}
	if flags.Changed("metrics-port") {
		cfg.Metrics.Port, _ = flags.GetInt("metrics-port")
	}

	if flags.Changed("rpc-endpoint") {
		cfg.Chain.RPCEndpoint, _ = flags.GetString("rpc-endpoint")
	}
	if flags.Changed("chain-id") {
		cfg.Chain.ChainID, _ = flags.GetUint64("chain-id")
	}
	if flags.Changed("oracle-type") {
		t, _ := flags.GetString("oracle-type")
		cfg.Oracle.Type = da.Type(t)
	}
	if flags.Changed("oracle-address") {
		cfg.Oracle.Address, _ = flags.GetString("oracle-address")
	}
}
