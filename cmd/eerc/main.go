// Command eerc bundles command-line utilities of the encrypted token SDK:
// deriving the Baby Jubjub key pair from a wallet key, proving the
// registration circuit, reconstructing a decrypted balance over RPC and
// decrypting on-wire encrypted messages.
package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	flag "github.com/spf13/pflag"

	"github.com/eerc-protocol/eerc-go/circuits"
	"github.com/eerc-protocol/eerc-go/config"
	bjj "github.com/eerc-protocol/eerc-go/crypto/ecc/bjj"
	ethereum "github.com/eerc-protocol/eerc-go/crypto/signatures/ethereum"
	"github.com/eerc-protocol/eerc-go/engine"
	"github.com/eerc-protocol/eerc-go/keys"
	"github.com/eerc-protocol/eerc-go/log"
	"github.com/eerc-protocol/eerc-go/metadata"
	"github.com/eerc-protocol/eerc-go/prover"
	"github.com/eerc-protocol/eerc-go/types"
	"github.com/eerc-protocol/eerc-go/web3"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.Log.Level, cfg.Log.Output)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	switch args[0] {
	case "derive-key":
		err = deriveKey(cfg)
	case "register":
		err = register(cfg)
	case "balance":
		if len(args) < 2 {
			err = fmt.Errorf("balance requires a user address")
			break
		}
		err = balance(cfg, args[1])
	case "decrypt-metadata":
		if len(args) < 2 {
			err = fmt.Errorf("decrypt-metadata requires a hex payload")
			break
		}
		err = decryptMetadata(cfg, args[1])
	default:
		err = fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

// sessionKeys signs the registration message with the wallet key and
// derives the session key pair from the signature.
func sessionKeys(cfg *Config) (*keys.KeyPair, common.Address, error) {
	if cfg.PrivKey == "" {
		return nil, common.Address{}, fmt.Errorf("a wallet private key is required (--privkey)")
	}
	signer, err := ethereum.NewSignerFromHex(cfg.PrivKey)
	if err != nil {
		return nil, common.Address{}, err
	}
	address := signer.Address()
	sig, err := signer.Sign([]byte(keys.RegistrationMessage(address)))
	if err != nil {
		return nil, common.Address{}, err
	}
	kp, err := keys.DeriveFromSignature(sig.Bytes())
	if err != nil {
		return nil, common.Address{}, err
	}
	return kp, address, nil
}

func deriveKey(cfg *Config) error {
	kp, address, err := sessionKeys(cfg)
	if err != nil {
		return err
	}
	defer kp.Zeroize()
	x, y := kp.PublicKey().Point()
	fmt.Printf("address:    %s\n", address)
	fmt.Printf("publicKey:  [%s, %s]\n", x, y)
	return nil
}

// register derives the session key pair, assembles the registration
// witness, proves it with the local rapidsnark prover and prints the
// calldata of register(proof), ready to submit.
func register(cfg *Config) error {
	assets, err := registerAssets(cfg)
	if err != nil {
		return err
	}
	kp, address, err := sessionKeys(cfg)
	if err != nil {
		return err
	}
	defer kp.Zeroize()

	ctx := context.Background()
	chainID := big.NewInt(cfg.ChainID)
	if chainID.Sign() == 0 {
		if cfg.Web3.Rpc == "" {
			return fmt.Errorf("either --chainid or --web3.rpc is required")
		}
		dialCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		client, err := web3.NewClient(dialCtx, cfg.Web3.Rpc, common.HexToAddress(cfg.Web3.Contract))
		if err != nil {
			return err
		}
		defer client.Close()
		if chainID, err = client.ChainID(dialCtx); err != nil {
			return err
		}
	}

	e := engine.New(engine.Standalone, chainID, kp)
	defer e.Close()
	res, err := e.Register(address)
	if err != nil {
		return err
	}

	all := map[circuits.Type]*circuits.CircuitArtifacts{circuits.RegisterCircuit: assets}
	if err := circuits.Prefetch(ctx, all); err != nil {
		return err
	}
	prv, err := prover.New()
	if err != nil {
		return err
	}
	proof, err := e.GenerateProof(ctx, prv, assets, res.Witness)
	if err != nil {
		return err
	}
	calldata, err := web3.PackRegister(proof)
	if err != nil {
		return err
	}
	fmt.Printf("address:  %s\n", address)
	fmt.Printf("calldata: 0x%x\n", calldata)
	return nil
}

// registerAssets builds the register circuit artifact handles from the
// CLI flags.
func registerAssets(cfg *Config) (*circuits.CircuitArtifacts, error) {
	wasmHash, err := types.HexStringToHexBytes(cfg.Artifacts.WasmHash)
	if err != nil {
		return nil, fmt.Errorf("artifacts.wasm-hash: %w", err)
	}
	zkeyHash, err := types.HexStringToHexBytes(cfg.Artifacts.ZkeyHash)
	if err != nil {
		return nil, fmt.Errorf("artifacts.zkey-hash: %w", err)
	}
	sdkCfg := &config.Config{Circuits: map[circuits.Type]config.CircuitAssets{
		circuits.RegisterCircuit: {
			WasmURL:        cfg.Artifacts.WasmURL,
			WasmHash:       wasmHash,
			ProvingKeyURL:  cfg.Artifacts.ZkeyURL,
			ProvingKeyHash: zkeyHash,
		},
	}}
	return sdkCfg.Artifacts(circuits.RegisterCircuit)
}

func balance(cfg *Config, user string) error {
	if !common.IsHexAddress(user) {
		return fmt.Errorf("invalid user address %q", user)
	}
	if cfg.Web3.Rpc == "" || !common.IsHexAddress(cfg.Web3.Contract) {
		return fmt.Errorf("an rpc endpoint and a contract address are required")
	}
	kp, _, err := sessionKeys(cfg)
	if err != nil {
		return err
	}
	defer kp.Zeroize()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := web3.NewClient(ctx, cfg.Web3.Rpc, common.HexToAddress(cfg.Web3.Contract))
	if err != nil {
		return err
	}
	defer client.Close()

	converter, err := client.IsConverter(ctx)
	if err != nil {
		return err
	}
	mode := engine.Standalone
	var enc *types.BalanceEncoding
	if converter {
		mode = engine.Converter
		if !common.IsHexAddress(cfg.Web3.Token) {
			return fmt.Errorf("converter deployments require --web3.token")
		}
		enc, err = client.GetBalanceFromTokenAddress(ctx, common.HexToAddress(user), common.HexToAddress(cfg.Web3.Token))
	} else {
		enc, err = client.BalanceOf(ctx, common.HexToAddress(user))
	}
	if err != nil {
		return err
	}
	e := engine.New(mode, nil, kp)
	defer e.Close()
	total, err := e.CalculateTotalBalance(enc)
	if err != nil {
		return err
	}
	fmt.Printf("balance: %s\n", total)
	return nil
}

func decryptMetadata(cfg *Config, payload string) error {
	wire, err := types.HexStringToHexBytes(payload)
	if err != nil {
		return err
	}
	kp, _, err := sessionKeys(cfg)
	if err != nil {
		return err
	}
	defer kp.Zeroize()
	message, err := metadata.Decrypt(wire, kp.SecretKey(), bjj.New())
	if err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}
