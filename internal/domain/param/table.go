// Package param implements the parameter model (P): the immutable tables
// read once at the start of a run — functional groups, antifunctional
// groups, calculated functional groups, reactions, deprotections,
// enumeration groupings, headpieces, building-block limits, and global
// engine parameters.
package param

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/dnaenc/edesigner/pkg/errors"
)

// Orientation names the record shape a parameter file is read for: List for
// tables holding one record per value column (functional groups, reactions,
// headpieces, ...), Dict for the single-record global table. Both are laid
// out the same way on disk: one attribute per row, its values in the
// columns after the description.
type Orientation int

const (
	OrientationDict Orientation = iota
	OrientationList
)

// Table is the orientation-normalised, typed-but-unconverted contents of one
// parameter file: a named, typed column per attribute with one raw string
// cell per record. Typed accessors below convert cells on demand, so a
// malformed cell in a column nobody reads never surfaces as an error.
type Table struct {
	names       []string
	order       map[string]int
	typ         map[string]string
	separator   map[string]string
	description map[string]string
	values      map[string][]string
	numRows     int
}

// Names returns the attribute names in file order.
func (t *Table) Names() []string { return append([]string(nil), t.names...) }

// NumRows returns the number of value records in the table.
func (t *Table) NumRows() int { return t.numRows }

// Has reports whether the table defines the named attribute.
func (t *Table) Has(name string) bool {
	_, ok := t.order[name]
	return ok
}

// ReadTable parses a tab-delimited parameter file at path. The first
// line is a free-text header and is discarded; every following line
// supplies, in order: name, type, list-separator, description, then one or
// more raw values.
func ReadTable(path string, orientation Orientation) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeParamFileMalformed, "parameter file not found: "+path)
	}
	defer f.Close()

	var rows [][]string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		rows = append(rows, strings.Split(line, "\t"))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeParamFileMalformed, "failed reading parameter file: "+path)
	}

	var records [][]string
	switch orientation {
	case OrientationDict, OrientationList:
		records = rows
	default:
		return nil, errors.New(errors.CodeParamFileMalformed, "unknown orientation for: "+path)
	}

	if len(records) < 2 {
		return nil, errors.New(errors.CodeParamFileMalformed, "parameter file has no attribute rows: "+path)
	}
	records = records[1:] // discard the free-text header record

	t := &Table{
		order:       make(map[string]int),
		typ:         make(map[string]string),
		separator:   make(map[string]string),
		description: make(map[string]string),
		values:      make(map[string][]string),
	}
	for _, rec := range records {
		if len(rec) < 4 {
			return nil, errors.New(errors.CodeParamFileMalformed, "attribute record too short in: "+path)
		}
		name := rec[0]
		t.order[name] = len(t.names)
		t.names = append(t.names, name)
		t.typ[name] = strings.ToUpper(rec[1])
		t.separator[name] = rec[2]
		t.description[name] = rec[3]
		t.values[name] = rec[4:]
		if len(rec[4:]) > t.numRows {
			t.numRows = len(rec[4:])
		}
	}
	return t, nil
}

// isAbsent reports whether a raw cell represents Python's None/Null/empty
// sentinel, per the parameter-file format.
func isAbsent(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "NONE", "NULL":
		return true
	}
	return false
}

func (t *Table) raw(name string, row int) (string, bool) {
	vals, ok := t.values[name]
	if !ok || row < 0 || row >= len(vals) {
		return "", false
	}
	return vals[row], true
}

// String returns the scalar string value of attribute name at row, or ""
// and false if absent or out of range.
func (t *Table) String(name string, row int) (string, bool) {
	raw, ok := t.raw(name, row)
	if !ok || isAbsent(raw) {
		return "", false
	}
	return raw, true
}

// Int returns the scalar integer value of attribute name at row.
func (t *Table) Int(name string, row int) (int, bool) {
	raw, ok := t.raw(name, row)
	if !ok || isAbsent(raw) {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}

// Float returns the scalar float value of attribute name at row.
func (t *Table) Float(name string, row int) (float64, bool) {
	raw, ok := t.raw(name, row)
	if !ok || isAbsent(raw) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Bool returns the scalar boolean value of attribute name at row. Per the
// parameter-file format, "y" and "true" (case-insensitive) are true;
// anything else is false.
func (t *Table) Bool(name string, row int) (bool, bool) {
	raw, ok := t.raw(name, row)
	if !ok || isAbsent(raw) {
		return false, false
	}
	upper := strings.ToUpper(strings.TrimSpace(raw))
	return upper == "Y" || upper == "TRUE", true
}

// listSeparator reports the split separator for a list-typed attribute, or
// "" if the attribute is scalar (empty separator column).
func (t *Table) listSeparator(name string) string {
	return t.separator[name]
}

func splitList(raw, sep string) []string {
	if sep == "" {
		return []string{raw}
	}
	return strings.Split(raw, sep)
}

// StringList returns a list-typed attribute's values at row, split on its
// declared separator.
func (t *Table) StringList(name string, row int) ([]string, bool) {
	raw, ok := t.raw(name, row)
	if !ok || isAbsent(raw) {
		return nil, false
	}
	parts := splitList(raw, t.listSeparator(name))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if !isAbsent(p) {
			out = append(out, p)
		}
	}
	return out, true
}

// IntList returns a list-typed attribute's values at row as integers.
func (t *Table) IntList(name string, row int) ([]int, error) {
	raws, ok := t.StringList(name, row)
	if !ok {
		return nil, nil
	}
	out := make([]int, 0, len(raws))
	for _, raw := range raws {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeParamFileMalformed, "non-integer entry in list attribute "+name)
		}
		out = append(out, v)
	}
	return out, nil
}

// IntSet returns a list-typed attribute's values at row as a membership set.
func (t *Table) IntSet(name string, row int) (map[int]bool, error) {
	vals, err := t.IntList(name, row)
	if err != nil {
		return nil, err
	}
	set := make(map[int]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set, nil
}

// Dict returns a dict-typed attribute's value at row: colon-separated
// key:value pairs over the list separator, values parsed as float64.
func (t *Table) Dict(name string, row int) (map[string]float64, error) {
	raws, ok := t.StringList(name, row)
	if !ok {
		return nil, nil
	}
	out := make(map[string]float64, len(raws))
	for _, kv := range raws {
		parts := strings.SplitN(kv, ":", 2)
		if len(parts) != 2 {
			return nil, errors.New(errors.CodeParamFileMalformed, "malformed dict entry in attribute "+name+": "+kv)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeParamFileMalformed, "non-float dict value in attribute "+name)
		}
		out[strings.TrimSpace(parts[0])] = v
	}
	return out, nil
}
