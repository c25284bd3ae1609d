// Package jesstemplate parses Tess template files: one truncated
// ATOM/HETATM-like record per line plus its trailing alternates block
// (spec.md §6), into internal/template.TessTemplate values.
package jesstemplate

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/iriziotis/jess/internal/molecule"
	"github.com/iriziotis/jess/internal/template"
)

// Fixed-width columns shared with internal/molecule's ATOM record, up to
// the truncation point at col 54 (colOcc there). The template record
// repurposes the following 6-column field — which would carry occupancy on
// a full atom record — to carry the per-atom distance weight, then starts
// the alternates block.
const (
	colSerial     = 6
	colName       = 11
	colAltLoc     = 16
	colResName    = 17
	colChain1     = 20
	colChain2     = 21
	colResSeq     = 22
	colICode      = 26
	colX          = 30
	colY          = 38
	colZ          = 46
	colDistWeight = 54
	colAlternates = 60
	minRecordWidth = colDistWeight
)

// Parse reads a sequence of template records from r and returns the
// resulting TessTemplate, named name. A record that fails to parse is
// rejected individually; parsing of the remaining records continues
// (spec.md §7's local parse failure).
func Parse(r io.Reader, name string) (*template.TessTemplate, error) {
	var atoms []template.TessAtom
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256), 4096)

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 4 {
			continue
		}
		if line[:4] != "ATOM" && !(len(line) >= 6 && line[:6] == "HETATM") {
			continue
		}
		atom, err := parseRecord(line)
		if err != nil {
			continue // local parse failure: skip the record, keep going
		}
		atoms = append(atoms, *atom)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read template")
	}
	if len(atoms) == 0 {
		return nil, errors.New("template has no atom records")
	}
	return template.NewTessTemplate(name, atoms), nil
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func parseRecord(line string) (*template.TessAtom, error) {
	if len(line) < minRecordWidth {
		return nil, errors.Errorf("template record too short: %d columns", len(line))
	}
	line = pad(line, colAlternates)

	a := &template.TessAtom{}

	code, err := strconv.Atoi(strings.TrimSpace(line[colSerial:colName]))
	if err != nil {
		return nil, errors.Wrap(err, "code")
	}
	a.Code = code

	// As in internal/molecule's parseAtomLine, the name field is 5 columns
	// wide but the canonical normalized form is 4 characters — normalize
	// the raw substring directly, without TrimSpace, so the same-position
	// and element-of-name predicates (tessatom.go) see a real 4-char
	// underscore-padded name rather than a trimmed, space-free one.
	primaryName := molecule.NormalizeField(line[colName : colName+4])
	primaryRes := molecule.NormalizeField(strings.TrimSpace(line[colResName:colChain1]))

	if c1 := strings.TrimSpace(line[colChain1:colChain2]); c1 != "" {
		a.ChainID1 = c1[0]
	} else {
		a.ChainID1 = ' '
	}
	if c2 := strings.TrimSpace(line[colChain2:colResSeq]); c2 != "" {
		a.ChainID2 = c2[0]
	} else {
		a.ChainID2 = '0'
	}

	resSeq, err := strconv.Atoi(strings.TrimSpace(line[colResSeq:colICode]))
	if err != nil {
		return nil, errors.Wrap(err, "resSeq")
	}
	a.ResSeq = resSeq

	x, err := strconv.ParseFloat(strings.TrimSpace(line[colX:colY]), 64)
	if err != nil {
		return nil, errors.Wrap(err, "x")
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(line[colY:colZ]), 64)
	if err != nil {
		return nil, errors.Wrap(err, "y")
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(line[colZ:colDistWeight]), 64)
	if err != nil {
		return nil, errors.Wrap(err, "z")
	}
	a.Position = [3]float64{x, y, z}

	if w, err := strconv.ParseFloat(strings.TrimSpace(line[colDistWeight:colAlternates]), 64); err == nil {
		a.DistWeight = w
	}

	altNames, altRes, err := parseAlternates(line[colAlternates:])
	if err != nil {
		return nil, err
	}
	a.Names = append([]string{primaryName}, altNames...)
	a.ResNames = append([]string{primaryRes}, altRes...)

	return a, nil
}

// parseAlternates reads the trailing alternates block: bare single-letter
// residue codes and parenthesised 4-character atom names, in any order.
func parseAlternates(rest string) (names, resNames []string, err error) {
	i := 0
	for i < len(rest) {
		c := rest[i]
		switch {
		case c == ' ':
			i++
		case c == '(':
			close := strings.IndexByte(rest[i:], ')')
			if close < 0 {
				return nil, nil, errors.New("unbalanced parenthesis in alternates")
			}
			name := strings.TrimSpace(rest[i+1 : i+close])
			if len(name) > 4 {
				return nil, nil, errors.Errorf("alternate atom name %q exceeds 4 characters", name)
			}
			names = append(names, molecule.NormalizeField(pad(name, 4)))
			i += close + 1
		default:
			resName, ok := template.ExpandResidueCode(c)
			if !ok {
				return nil, nil, errors.Errorf("unknown single-letter residue code %q", string(c))
			}
			resNames = append(resNames, resName)
			i++
		}
	}
	return names, resNames, nil
}
