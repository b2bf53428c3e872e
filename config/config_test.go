package config

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/eerc-protocol/eerc-go/circuits"
	"github.com/eerc-protocol/eerc-go/types"
)

func TestArtifacts(t *testing.T) {
	c := qt.New(t)

	cfg := &Config{Circuits: map[circuits.Type]CircuitAssets{
		circuits.RegisterCircuit: {
			WasmURL:        "https://example.com/register.wasm",
			WasmHash:       types.HexBytes{0x01, 0x02},
			ProvingKeyURL:  "https://example.com/register.zkey",
			ProvingKeyHash: types.HexBytes{0x03, 0x04},
		},
	}}

	ca, err := cfg.Artifacts(circuits.RegisterCircuit)
	c.Assert(err, qt.IsNil)
	c.Assert(ca.Circuit(), qt.Equals, circuits.RegisterCircuit)
	c.Assert(ca.WasmHash(), qt.DeepEquals, []byte{0x01, 0x02})

	// unconfigured circuits reject
	_, err = cfg.Artifacts(circuits.MintCircuit)
	c.Assert(err, qt.IsNotNil)
}

func TestArtifactsRequireHashes(t *testing.T) {
	c := qt.New(t)

	cfg := &Config{Circuits: map[circuits.Type]CircuitAssets{
		circuits.TransferCircuit: {WasmURL: "https://example.com/transfer.wasm"},
	}}
	_, err := cfg.Artifacts(circuits.TransferCircuit)
	c.Assert(err, qt.IsNotNil)
}

func TestAllArtifacts(t *testing.T) {
	c := qt.New(t)

	cfg := &Config{Circuits: map[circuits.Type]CircuitAssets{}}
	for _, typ := range circuits.AllTypes() {
		cfg.Circuits[typ] = CircuitAssets{
			WasmHash:       types.HexBytes{0x01},
			ProvingKeyHash: types.HexBytes{0x02},
		}
	}
	all, err := cfg.AllArtifacts()
	c.Assert(err, qt.IsNil)
	c.Assert(all, qt.HasLen, len(circuits.AllTypes()))
}
