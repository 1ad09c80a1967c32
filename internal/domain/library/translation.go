package library

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dnaenc/edesigner/internal/domain/param"
)

// TranslationFolders names the enumeration-reaction and compound-listing
// folders referenced by emitted instruction lines; owned by configuration,
// not by the domain model.
type TranslationFolders struct {
	ReactionsFolder string
	CompoundsFolder string
}

// WriteTranslation emits the human-readable enumeration-instruction
// transcript for one validated library, in both the INTERNAL and ALL scope,
// grounded on update_translation_file. It is a strict output supplement: no
// selection or validation semantics live here.
func WriteTranslation(w io.Writer, lib *LibDesign, p *param.Params, headpieceSMILES string, folders TranslationFolders) error {
	for _, scope := range []string{"INTERNAL", "ALL"} {
		if err := writeScope(w, lib, p, headpieceSMILES, folders, scope); err != nil {
			return err
		}
	}
	return nil
}

func writeScope(w io.Writer, lib *LibDesign, p *param.Params, headpieceSMILES string, folders TranslationFolders, scope string) error {
	size := lib.NAll
	limits := lib.AllLimits
	bbtLimits := lib.AllBBTLimits
	suffix := ".smi"
	if scope == "INTERNAL" {
		size = lib.NInt
		limits = lib.IntLimits
		bbtLimits = lib.IntBBTLimits
		suffix = ".int.smi"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Start enumeration instructions\n")
	fmt.Fprintf(&sb, "# Design number %d\n", lib.ID)
	fmt.Fprintf(&sb, "# Design fingerprint %s\n", lib.LibID.Key())
	fmt.Fprintf(&sb, "# Design scope %d.%s\n", lib.ID, scope)
	fmt.Fprintf(&sb, "# Design size %d\n", size)
	fmt.Fprintf(&sb, "# Design number of cycles %d\n", lib.NCycles)
	for i := 0; i < lib.NCycles; i++ {
		fmt.Fprintf(&sb, "# MAKE C%d%s WITH {%s}\n", i+1, suffix, bbtLimitClause(lib.BBTs[i], bbtLimits[i], suffix))
		_ = limits // limits[i] is the per-cycle total; retained on LibDesign for the structured stream
	}
	fmt.Fprintf(&sb, "START: %s core\n", headpieceSMILES)

	for i := 0; i < len(lib.ReactionEnumIDs); i++ {
		if i < len(lib.DeprotEnumIDs) && lib.DeprotEnumIDs[i] != 0 {
			fmt.Fprintf(&sb, "AND:\n%s%s\n|\n", folders.ReactionsFolder, enumName(p.EnumDeprot, lib.DeprotEnumIDs[i]))
		}
		fmt.Fprintf(&sb, "AND:\n%s%s||file=%sC%d%s\n|\n",
			folders.ReactionsFolder, enumName(p.EnumReactions, lib.ReactionEnumIDs[i]),
			folders.CompoundsFolder, i+1, suffix)
	}
	fmt.Fprintf(&sb, "# End enumeration instructions\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func bbtLimitClause(bbts []int, limits []int, suffix string) string {
	parts := make([]string, 0, len(bbts))
	for j, b := range bbts {
		n := 0
		if j < len(limits) {
			n = limits[j]
		}
		parts = append(parts, "'"+strconv.Itoa(b)+suffix+"':"+strconv.Itoa(n))
	}
	return strings.Join(parts, ",")
}

func enumName(groups []param.EnumGroup, id int) string {
	for _, g := range groups {
		if g.ID == id {
			return g.Name
		}
	}
	return ""
}
