package pipeline

import (
	"encoding/json"
	"io"

	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/pkg/errors"
)

// SaveCatalogue serializes a catalogue's BBTs (including their populated
// compound histograms) as JSON, the artifact the classify verb writes for a
// later design run to load.
func SaveCatalogue(w io.Writer, catalogue *bbt.Catalogue) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(catalogue.BBTs); err != nil {
		return errors.Wrap(err, errors.CodeSerializationError, "failed to encode catalogue")
	}
	return nil
}

// LoadCatalogue reconstructs a catalogue from a stream written by
// SaveCatalogue.
func LoadCatalogue(r io.Reader) (*bbt.Catalogue, error) {
	var bbts []*bbt.BBT
	if err := json.NewDecoder(r).Decode(&bbts); err != nil {
		return nil, errors.Wrap(err, errors.CodeSerializationError, "failed to decode catalogue")
	}
	return bbt.FromBBTs(bbts), nil
}
