package pipeline

import (
	"encoding/json"
	"io"

	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/library"
	"github.com/dnaenc/edesigner/internal/domain/param"
)

// HeadpieceSMILES looks up the SMILES string a LibDesign's headpiece BBT
// index resolves to, by matching the catalogue triple at that index against
// the configured headpiece table. Returns "" if no match is found.
func HeadpieceSMILES(p *param.Params, catalogue *bbt.Catalogue, headpieceBBTIndex int) string {
	b, ok := catalogue.Get(headpieceBBTIndex)
	if !ok {
		return ""
	}
	for _, hp := range p.Headpieces {
		if hp.BBT == b.Triple {
			return hp.SMILES
		}
	}
	return ""
}

// WriteLibraryStream writes every surviving library as newline-delimited
// JSON, the structured LibDesign stream the design verb emits to --out.
func WriteLibraryStream(w io.Writer, libs []*library.LibDesign) error {
	enc := json.NewEncoder(w)
	for _, lib := range libs {
		if err := enc.Encode(lib); err != nil {
			return err
		}
	}
	return nil
}

// WriteTranslations emits the enumeration-instruction transcript for every
// surviving library, one after another, to w.
func WriteTranslations(w io.Writer, libs []*library.LibDesign, p *param.Params, catalogue *bbt.Catalogue, folders library.TranslationFolders) error {
	for _, lib := range libs {
		smiles := HeadpieceSMILES(p, catalogue, lib.Headpiece)
		if err := library.WriteTranslation(w, lib, p, smiles, folders); err != nil {
			return err
		}
	}
	return nil
}
