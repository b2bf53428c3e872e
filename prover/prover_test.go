package prover

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

const testProofJSON = `{
  "pi_a": ["11", "12", "1"],
  "pi_b": [["21", "22"], ["23", "24"], ["1", "0"]],
  "pi_c": ["31", "32", "1"],
  "protocol": "groth16"
}`

func TestParseProof(t *testing.T) {
	c := qt.New(t)

	proof, err := parseProof(testProofJSON, `["1", "2", "3"]`)
	c.Assert(err, qt.IsNil)
	c.Assert(proof.Points.A[0].String(), qt.Equals, "11")
	c.Assert(proof.Points.A[1].String(), qt.Equals, "12")
	c.Assert(proof.Points.C[0].String(), qt.Equals, "31")
	// G2 limb pairs are swapped for the contract verifier
	c.Assert(proof.Points.B[0][0].String(), qt.Equals, "22")
	c.Assert(proof.Points.B[0][1].String(), qt.Equals, "21")
	c.Assert(proof.Points.B[1][0].String(), qt.Equals, "24")
	c.Assert(proof.Points.B[1][1].String(), qt.Equals, "23")
	c.Assert(proof.PublicSignals, qt.HasLen, 3)
	c.Assert(proof.PublicSignals[2].String(), qt.Equals, "3")
}

func TestParseProofRejectsMalformed(t *testing.T) {
	c := qt.New(t)

	_, err := parseProof(`{"pi_a": ["1"]}`, `[]`)
	c.Assert(err, qt.IsNotNil)
	_, err = parseProof(`not json`, `[]`)
	c.Assert(err, qt.IsNotNil)
	_, err = parseProof(testProofJSON, `not json`)
	c.Assert(err, qt.IsNotNil)
}

func TestNewProver(t *testing.T) {
	c := qt.New(t)

	p, err := New()
	c.Assert(err, qt.IsNil)
	c.Assert(p, qt.IsNotNil)
}
