// Package config holds the SDK configuration: the RPC endpoint, the
// encrypted token contract and the per-circuit artifact descriptors
// (remote URL plus sha256) the prover assets are fetched with.
package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eerc-protocol/eerc-go/circuits"
	"github.com/eerc-protocol/eerc-go/types"
)

// CircuitAssets describes the remote prover assets of one circuit.
type CircuitAssets struct {
	WasmURL        string         `json:"wasmURL" mapstructure:"wasmURL"`
	WasmHash       types.HexBytes `json:"wasmHash" mapstructure:"wasmHash"`
	ProvingKeyURL  string         `json:"provingKeyURL" mapstructure:"provingKeyURL"`
	ProvingKeyHash types.HexBytes `json:"provingKeyHash" mapstructure:"provingKeyHash"`
}

// Config is the top-level SDK configuration.
type Config struct {
	RPCEndpoint string                          `json:"rpcEndpoint" mapstructure:"rpcEndpoint"`
	Contract    common.Address                  `json:"contract" mapstructure:"contract"`
	Circuits    map[circuits.Type]CircuitAssets `json:"circuits" mapstructure:"circuits"`
}

// Artifacts builds the artifact handles of the given circuit from its
// asset descriptor.
func (c *Config) Artifacts(t circuits.Type) (*circuits.CircuitArtifacts, error) {
	assets, ok := c.Circuits[t]
	if !ok {
		return nil, fmt.Errorf("no artifacts configured for %s circuit", t)
	}
	if len(assets.WasmHash) == 0 || len(assets.ProvingKeyHash) == 0 {
		return nil, fmt.Errorf("missing artifact hashes for %s circuit", t)
	}
	wasm := &circuits.Artifact{
		Name:      fmt.Sprintf("%s.wasm", t),
		RemoteURL: assets.WasmURL,
		Hash:      assets.WasmHash,
	}
	zkey := &circuits.Artifact{
		Name:      fmt.Sprintf("%s.zkey", t),
		RemoteURL: assets.ProvingKeyURL,
		Hash:      assets.ProvingKeyHash,
	}
	return circuits.NewCircuitArtifacts(t, wasm, zkey), nil
}

// AllArtifacts builds the artifact handles of every configured circuit,
// ready for circuits.Prefetch.
func (c *Config) AllArtifacts() (map[circuits.Type]*circuits.CircuitArtifacts, error) {
	out := make(map[circuits.Type]*circuits.CircuitArtifacts, len(c.Circuits))
	for t := range c.Circuits {
		ca, err := c.Artifacts(t)
		if err != nil {
			return nil, err
		}
		out[t] = ca
	}
	return out, nil
}
