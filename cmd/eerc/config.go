package main

import (
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultLogLevel  = "info"
	defaultLogOutput = "stderr"
)

// Config holds the CLI configuration.
type Config struct {
	Web3      Web3Config
	Log       LogConfig
	Artifacts ArtifactsConfig

	// PrivKey is the Ethereum private key used to derive the eERC key pair.
	PrivKey string `mapstructure:"privkey"`

	// ChainID overrides the chain id so that register can prove offline.
	// When zero it is queried from the RPC endpoint.
	ChainID int64 `mapstructure:"chainid"`
}

// Web3Config holds Ethereum-related configuration.
type Web3Config struct {
	Rpc      string `mapstructure:"rpc"`      // Web3 RPC endpoint
	Contract string `mapstructure:"contract"` // Encrypted token contract address
	Token    string `mapstructure:"token"`    // Underlying ERC-20 address (converter mode)
}

// ArtifactsConfig holds the prover assets of the registration circuit,
// the only circuit the CLI proves itself.
type ArtifactsConfig struct {
	WasmURL  string `mapstructure:"wasm-url"`  // Register circuit wasm URL
	WasmHash string `mapstructure:"wasm-hash"` // sha256 of the wasm, hex
	ZkeyURL  string `mapstructure:"zkey-url"`  // Register proving key URL
	ZkeyHash string `mapstructure:"zkey-hash"` // sha256 of the zkey, hex
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// loadConfig loads configuration from flags, environment variables and
// defaults.
func loadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOutput)

	flag.StringP("privkey", "k", "", "Ethereum private key used to derive the eERC key pair")
	flag.StringP("web3.rpc", "r", "", "web3 rpc endpoint")
	flag.StringP("web3.contract", "c", "", "encrypted token contract address")
	flag.StringP("web3.token", "t", "", "underlying ERC-20 address (converter deployments)")
	flag.Int64("chainid", 0, "chain id override, queried from the rpc endpoint when zero")
	flag.String("artifacts.wasm-url", "", "register circuit wasm URL")
	flag.String("artifacts.wasm-hash", "", "sha256 of the register circuit wasm (hex)")
	flag.String("artifacts.zkey-url", "", "register proving key URL")
	flag.String("artifacts.zkey-hash", "", "sha256 of the register proving key (hex)")
	flag.StringP("log.level", "l", defaultLogLevel, "log level (debug, info, warn, error)")
	flag.StringP("log.output", "o", defaultLogOutput, "log output (stdout, stderr or filepath)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: eerc [flags] <command>\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  derive-key        derive the Baby Jubjub key pair from the wallet key\n")
		fmt.Fprintf(os.Stderr, "  register          prove the registration circuit and print the calldata\n")
		fmt.Fprintf(os.Stderr, "  balance <user>    reconstruct and print the decrypted balance\n")
		fmt.Fprintf(os.Stderr, "  decrypt-metadata <hex>  decrypt an on-wire encrypted message\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables are also available with the same name as\n")
		fmt.Fprintf(os.Stderr, "  flags, prefixed with EERC_ and with dots replaced by underscores,\n")
		fmt.Fprintf(os.Stderr, "  e.g. EERC_PRIVKEY or EERC_WEB3_RPC\n")
	}
	flag.Parse()

	if err := v.BindPFlags(flag.CommandLine); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}
	v.SetEnvPrefix("EERC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return cfg, nil
}
