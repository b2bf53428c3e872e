// Package prover wraps the rapidsnark Groth16 prover and the circom
// witness calculator behind the black-box oracle interface the operation
// engine consumes: prove(wasm, zkey, witness) → (proofPoints, publicSignals).
package prover

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/iden3/go-rapidsnark/prover"
	"github.com/iden3/go-rapidsnark/witness"

	"github.com/eerc-protocol/eerc-go/circuits"
	"github.com/eerc-protocol/eerc-go/log"
	"github.com/eerc-protocol/eerc-go/types"
)

// calculatorCacheSize bounds the number of parsed wasm runtimes kept
// alive. Five circuits exist, so the cache effectively never evicts.
const calculatorCacheSize = 8

// proverMu serializes calls to the rapidsnark Groth16 prover, which is not
// safe for concurrent use (native code can crash or corrupt state when run
// in parallel).
var proverMu sync.Mutex

// Prover generates Groth16 proofs for the protocol circuits. Witness
// calculators are cached per wasm artifact, since parsing the wasm runtime
// is expensive.
type Prover struct {
	calculators *lru.Cache[string, *witness.Circom2WitnessCalculator]
}

// New creates a Prover with an empty calculator cache.
func New() (*Prover, error) {
	cache, err := lru.New[string, *witness.Circom2WitnessCalculator](calculatorCacheSize)
	if err != nil {
		return nil, fmt.Errorf("calculator cache: %w", err)
	}
	return &Prover{calculators: cache}, nil
}

// Prove calculates the witness for the given circom input JSON and runs
// the Groth16 prover over it. The artifacts must be loaded beforehand
// (circuits.Prefetch). The returned proof carries the circuit's public
// signals; their count is validated against the contract ABI.
func (p *Prover) Prove(ctx context.Context, artifacts *circuits.CircuitArtifacts, inputs []byte) (*types.Proof, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	calc, err := p.calculator(artifacts)
	if err != nil {
		return nil, err
	}
	parsedInputs, err := witness.ParseInputs(inputs)
	if err != nil {
		return nil, fmt.Errorf("circom inputs: %w", err)
	}
	wtns, err := calc.CalculateWTNSBin(parsedInputs, true)
	if err != nil {
		return nil, fmt.Errorf("calculate witness: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	proverMu.Lock()
	proofJSON, signalsJSON, err := prover.Groth16ProverRaw(artifacts.ProvingKey(), wtns)
	proverMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("groth16 prover: %w", err)
	}
	proof, err := parseProof(proofJSON, signalsJSON)
	if err != nil {
		return nil, err
	}
	expected, err := artifacts.Circuit().PublicSignals()
	if err != nil {
		return nil, err
	}
	if got := len(proof.PublicSignals); got != expected {
		return nil, fmt.Errorf("%s circuit produced %d public signals, ABI expects %d",
			artifacts.Circuit(), got, expected)
	}
	log.Debugf("proved %s circuit with %d public signals", artifacts.Circuit(), expected)
	return proof, nil
}

func (p *Prover) calculator(artifacts *circuits.CircuitArtifacts) (*witness.Circom2WitnessCalculator, error) {
	key := hex.EncodeToString(artifacts.WasmHash())
	if calc, ok := p.calculators.Get(key); ok {
		return calc, nil
	}
	wasm := artifacts.Wasm()
	if len(wasm) == 0 {
		return nil, fmt.Errorf("%s circuit wasm not loaded", artifacts.Circuit())
	}
	calc, err := witness.NewCircom2WitnessCalculator(wasm, true)
	if err != nil {
		return nil, fmt.Errorf("witness calculator: %w", err)
	}
	p.calculators.Add(key, calc)
	return calc, nil
}

// rawProof mirrors the snarkjs proof JSON layout: projective coordinates
// with a trailing 1, and pi_b pairs in reversed limb order.
type rawProof struct {
	PiA      []string   `json:"pi_a"`
	PiB      [][]string `json:"pi_b"`
	PiC      []string   `json:"pi_c"`
	Protocol string     `json:"protocol"`
}

func parseProof(proofJSON, signalsJSON string) (*types.Proof, error) {
	var raw rawProof
	if err := json.Unmarshal([]byte(proofJSON), &raw); err != nil {
		return nil, fmt.Errorf("parse proof: %w", err)
	}
	if len(raw.PiA) < 2 || len(raw.PiB) < 2 || len(raw.PiB[0]) < 2 || len(raw.PiB[1]) < 2 || len(raw.PiC) < 2 {
		return nil, fmt.Errorf("malformed proof points")
	}
	var signals []string
	if err := json.Unmarshal([]byte(signalsJSON), &signals); err != nil {
		return nil, fmt.Errorf("parse public signals: %w", err)
	}
	proof := &types.Proof{PublicSignals: make([]*types.BigInt, len(signals))}
	var err error
	if proof.Points.A, err = parsePair(raw.PiA[0], raw.PiA[1]); err != nil {
		return nil, err
	}
	if proof.Points.C, err = parsePair(raw.PiC[0], raw.PiC[1]); err != nil {
		return nil, err
	}
	// the contract verifier expects each G2 limb pair swapped with respect
	// to the snarkjs output
	for i := range 2 {
		pair, err := parsePair(raw.PiB[i][1], raw.PiB[i][0])
		if err != nil {
			return nil, err
		}
		proof.Points.B[i] = pair
	}
	for i, s := range signals {
		v := new(types.BigInt)
		if err := v.UnmarshalText([]byte(s)); err != nil {
			return nil, fmt.Errorf("parse public signal %d: %w", i, err)
		}
		proof.PublicSignals[i] = v
	}
	return proof, nil
}

func parsePair(a, b string) ([2]*types.BigInt, error) {
	var out [2]*types.BigInt
	for i, s := range []string{a, b} {
		v := new(types.BigInt)
		if err := v.UnmarshalText([]byte(s)); err != nil {
			return out, fmt.Errorf("parse proof coordinate: %w", err)
		}
		out[i] = v
	}
	return out, nil
}
