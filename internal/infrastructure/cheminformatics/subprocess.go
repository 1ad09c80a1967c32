// Package cheminformatics adapts the classifier's ChemTool collaborator to
// an out-of-process cheminformatics toolkit, invoked as a subprocess per
// spec.md's framing of standardisation and functional-group counting as
// external collaborators whose implementation is out of scope here.
package cheminformatics

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"

	"github.com/dnaenc/edesigner/internal/domain/classifier"
	"github.com/dnaenc/edesigner/pkg/errors"
)

// SubprocessTool invokes an external binary for standardisation and
// functional-group counting, passing one JSON request on stdin and reading
// one JSON response from stdout per call. The binary's location and
// invocation contract are deployment concerns, not domain ones; this
// adapter only shapes the classifier.ChemTool calls into subprocess calls.
type SubprocessTool struct {
	path string
}

// NewSubprocessTool returns a ChemTool backed by the external tool at path.
func NewSubprocessTool(path string) *SubprocessTool {
	return &SubprocessTool{path: path}
}

type standardizeRequest struct {
	SMILES string `json:"smiles"`
}

type standardizeResponse struct {
	CanonicalSMILES string `json:"canonical_smiles"`
	HeavyAtoms      int    `json:"heavy_atoms"`
	RotatableBonds  int    `json:"rotatable_bonds"`
}

// Standardize desalts and canonicalises smiles via `<tool> standardize`.
func (t *SubprocessTool) Standardize(ctx context.Context, smiles string) (classifier.MoleculeProperties, error) {
	var resp standardizeResponse
	if err := t.run(ctx, "standardize", standardizeRequest{SMILES: smiles}, &resp); err != nil {
		return classifier.MoleculeProperties{}, err
	}
	return classifier.MoleculeProperties{
		CanonicalSMILES: resp.CanonicalSMILES,
		HeavyAtoms:      resp.HeavyAtoms,
		RotatableBonds:  resp.RotatableBonds,
	}, nil
}

type countFGRequest struct {
	CanonicalSMILES string   `json:"canonical_smiles"`
	QueryHandles    []string `json:"query_handles"`
}

type countFGResponse struct {
	Count int `json:"count"`
}

// CountFG reports how many of the query substructure handles match
// canonicalSMILES via `<tool> count-fg`.
func (t *SubprocessTool) CountFG(ctx context.Context, canonicalSMILES string, queryHandles []string) (int, error) {
	var resp countFGResponse
	if err := t.run(ctx, "count-fg", countFGRequest{CanonicalSMILES: canonicalSMILES, QueryHandles: queryHandles}, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (t *SubprocessTool) run(ctx context.Context, mode string, req, resp interface{}) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerializationError, "failed to encode chemtool request")
	}

	cmd := exec.CommandContext(ctx, t.path, mode)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.Error); ok {
			return errors.Wrap(err, errors.CodeChemToolError, "external cheminformatics tool not found at "+t.path)
		}
		return errors.Wrap(err, errors.CodeChemToolError, "external cheminformatics tool failed: "+stderr.String())
	}

	if err := json.Unmarshal(stdout.Bytes(), resp); err != nil {
		return errors.Wrap(err, errors.CodeSerializationError, "failed to decode chemtool response")
	}
	return nil
}
