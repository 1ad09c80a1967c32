package param

import "github.com/dnaenc/edesigner/pkg/errors"

// LoadFG converts a parsed fg table into typed FG records. Row order
// defines the FG index; row 0 is conventionally the null FG.
func LoadFG(t *Table) ([]FG, error) {
	out := make([]FG, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		name, _ := t.String("name", i)
		incompatible, err := t.IntSet("self_incompatibility", i)
		if err != nil {
			return nil, err
		}
		atomDif, _ := t.Int("atom_dif", i)
		excessRB, _ := t.Int("excess_rb", i)
		allowedEnd, _ := t.Bool("allowed_end_exposed", i)
		handles, _ := t.StringList("query", i)
		out[i] = FG{
			Index:             i,
			Name:              name,
			Incompatible:      incompatible,
			AtomDif:           atomDif,
			ExcessRB:          excessRB,
			AllowedEndExposed: allowedEnd,
			QueryHandles:      handles,
		}
	}
	return out, nil
}

// LoadAntiFG converts a parsed antifg table into typed AntiFG records.
func LoadAntiFG(t *Table) ([]AntiFG, error) {
	out := make([]AntiFG, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		name, _ := t.String("name", i)
		handles, _ := t.StringList("query", i)
		out[i] = AntiFG{Index: i, Name: name, QueryHandles: handles}
	}
	return out, nil
}

// LoadCalcFG converts a parsed calcfg table into typed CalcFG rules.
func LoadCalcFG(t *Table) ([]CalcFG, error) {
	out := make([]CalcFG, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		name, _ := t.String("name", i)
		add, _ := t.StringList("rule_add", i)
		sub, _ := t.StringList("rule_subtract", i)
		out[i] = CalcFG{Name: name, Add: add, Subtract: sub}
	}
	return out, nil
}

// LoadRules converts a parsed reaction or deprotection table into typed
// Rule records; row order defines the rule Index.
func LoadRules(t *Table) ([]Rule, error) {
	out := make([]Rule, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		on, _ := t.Int("fg_on", i)
		off, _ := t.Int("fg_off", i)
		out1, _ := t.Int("fg_out1", i)
		out2, _ := t.Int("fg_out2", i)
		excludedOn, err := t.IntSet("excluded_on", i)
		if err != nil {
			return nil, err
		}
		excludedOff, err := t.IntSet("excluded_off", i)
		if err != nil {
			return nil, err
		}
		atomDif, _ := t.Int("atom_dif", i)
		enumID, _ := t.Int("enum_index", i)
		production, _ := t.Bool("production", i)
		enumName, _ := t.String("enum_name", i)
		out[i] = Rule{
			Index:       i,
			On:          on,
			Off:         off,
			Out1:        out1,
			Out2:        out2,
			ExcludedOn:  excludedOn,
			ExcludedOff: excludedOff,
			AtomDif:     atomDif,
			EnumGroupID: enumID,
			Production:  production,
			EnumName:    enumName,
		}
	}
	return out, nil
}

// LoadEnumGroups converts a parsed ER/ED table into typed EnumGroup records.
func LoadEnumGroups(t *Table) ([]EnumGroup, error) {
	out := make([]EnumGroup, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		name, _ := t.String("name", i)
		out[i] = EnumGroup{ID: i, Name: name}
	}
	return out, nil
}

// LoadHeadpieces converts a parsed headpieces table into typed Headpiece
// records.
func LoadHeadpieces(t *Table) ([]Headpiece, error) {
	out := make([]Headpiece, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		bbt, err := t.IntList("bbt", i)
		if err != nil {
			return nil, err
		}
		if len(bbt) != 3 {
			return nil, errors.New(errors.CodeParamFileMalformed, "headpiece bbt must have exactly three entries")
		}
		smiles, _ := t.String("smiles", i)
		out[i] = Headpiece{Index: i, BBT: [3]int{bbt[0], bbt[1], bbt[2]}, SMILES: smiles}
	}
	return out, nil
}

// LoadLimits converts a parsed limits table into typed BBTLimit overrides.
func LoadLimits(t *Table) ([]BBTLimit, error) {
	out := make([]BBTLimit, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		bbtIndex, _ := t.Int("bbt_index", i)
		max, _ := t.Int("max", i)
		out[i] = BBTLimit{BBTIndex: bbtIndex, Max: max}
	}
	return out, nil
}

// LoadGlobal converts the single-row global parameter table into the
// typed Global struct.
func LoadGlobal(t *Table) (Global, error) {
	const row = 0
	maxCycleNA, err := t.IntList("max_cycle_na", row)
	if err != nil {
		return Global{}, err
	}
	headpieceNA, _ := t.Int("headpiece_na", row)
	nRawMax, _ := t.Int("n_raw_max", row)
	rRawMax, _ := t.Int("r_raw_max", row)
	aMin, _ := t.Int("a_min", row)
	aMax, _ := t.Int("a_max", row)
	rMax, _ := t.Int("r_max", row)
	maxNAAbsolute, _ := t.Int("max_na_absolute", row)
	maxScaffoldsNA, _ := t.Int("max_scaffolds_na", row)
	maxNAPercentile, _ := t.Int("max_na_percentile", row)
	percentile, _ := t.Float("percentile", row)
	minCount, _ := t.Int("min_count", row)
	designsInMemory, _ := t.Int("designs_in_memory", row)
	includeDesigns, _ := t.String("include_designs", row)

	g := Global{
		TotalCycles:     len(maxCycleNA),
		HeadpieceNA:     headpieceNA,
		NRawMax:         nRawMax,
		RRawMax:         rRawMax,
		AMin:            aMin,
		AMax:            aMax,
		RMax:            rMax,
		MaxCycleNA:      maxCycleNA,
		MaxNAAbsolute:   maxNAAbsolute,
		MaxScaffoldsNA:  maxScaffoldsNA,
		MaxNAPercentile: maxNAPercentile,
		Percentile:      percentile,
		MinCount:        minCount,
		DesignsInMemory: designsInMemory,
		IncludeDesigns:  includeDesigns,
	}
	if g.DesignsInMemory <= 0 {
		g.DesignsInMemory = 100000
	}
	if g.Percentile <= 0 {
		g.Percentile = 1.0
	}
	return g, nil
}
