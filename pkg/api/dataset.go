package api

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rubiojr/trialsearch/pkg/trials"
)

//go:embed fixtures/trials.json
var defaultFixtures []byte

// Dataset is the fixed set of trials the stub service searches over. Trial
// order is the relevance order every response preserves.
type Dataset struct {
	Trials []trials.TrialResult `json:"trials"`
}

// DefaultDataset returns the embedded fixture trials.
func DefaultDataset() (*Dataset, error) {
	return LoadDataset(bytes.NewReader(defaultFixtures))
}

// LoadDataset decodes a {"trials": [...]} document.
func LoadDataset(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	seen := make(map[string]bool, len(ds.Trials))
	for _, t := range ds.Trials {
		if t.NCTID == "" {
			return nil, fmt.Errorf("dataset contains a trial without nct_id")
		}
		if seen[t.NCTID] {
			return nil, fmt.Errorf("duplicate trial %s in dataset", t.NCTID)
		}
		seen[t.NCTID] = true
	}
	return &ds, nil
}

// LoadDatasetFile reads a dataset from path.
func LoadDatasetFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return LoadDataset(f)
}

// Match returns every trial satisfying all set entity fields, in dataset
// order.
func (d *Dataset) Match(e trials.ExtractedEntities) []trials.TrialResult {
	var out []trials.TrialResult
	for _, t := range d.Trials {
		if matches(t, e) {
			out = append(out, t)
		}
	}
	return out
}
