package molecule

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Molecule is a parsed PDB entry: an ordered sequence of atoms plus an
// optional 4-character identifier. A Molecule is never empty — an input
// stream that yields no atoms produces no Molecule (see Read).
type Molecule struct {
	ID    string // 4-character PDB identifier, if a HEADER line supplied one
	Atoms []*Atom
}

// ReadOptions controls Read's tolerance for multi-model files.
type ReadOptions struct {
	// IgnoreEndMDL, when true, keeps reading past the first ENDMDL record
	// instead of stopping there.
	IgnoreEndMDL bool
}

// column offsets for the fixed-width ATOM/HETATM record, per spec.md §6.
const (
	colSerial    = 6
	colName      = 11
	colAltLoc    = 16
	colResName   = 17
	colChain1    = 20
	colChain2    = 21
	colResSeq    = 22
	colICode     = 26
	colX         = 30
	colY         = 38
	colZ         = 46
	colOcc       = 54
	colTempFact  = 60
	colSegID     = 66
	colElement   = 70
	colCharge    = 72
	minLineWidth = 66
)

// Read parses a stream of PDB ATOM/HETATM/HEADER records into a Molecule.
//
// Malformed ATOM/HETATM lines are rejected individually and parsing
// continues (spec.md §7's "parse failure" kind is local, not fatal to the
// run). Reading stops at the first ENDMDL unless opts.IgnoreEndMDL is set.
// An input that yields zero atoms returns (nil, nil): an empty parse is not
// an error, it simply produces no Molecule.
func Read(r io.Reader, opts ReadOptions) (*Molecule, error) {
	mol := &Molecule{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256), 4096)

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 4 {
			continue
		}
		switch {
		case line[:4] == "ATOM" || (len(line) >= 6 && line[:6] == "HETATM"):
			atom, err := parseAtomLine(line)
			if err != nil {
				continue // local parse failure: skip the record, keep going
			}
			mol.Atoms = append(mol.Atoms, atom)
		case line[:4] == "HEAD" && len(line) >= 66:
			id := strings.TrimSpace(line[62:66])
			if id != "" {
				mol.ID = id
			}
		case (len(line) >= 6 && line[:6] == "ENDMDL") && !opts.IgnoreEndMDL:
			if err := scanner.Err(); err != nil {
				return nil, errors.Wrap(err, "read molecule")
			}
			if len(mol.Atoms) == 0 {
				return nil, nil
			}
			return mol, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read molecule")
	}
	if len(mol.Atoms) == 0 {
		return nil, nil
	}
	return mol, nil
}

func pad(line string, width int) string {
	if len(line) >= width {
		return line
	}
	return line + strings.Repeat(" ", width-len(line))
}

func parseAtomLine(line string) (*Atom, error) {
	if len(line) < minLineWidth {
		return nil, errors.Errorf("atom record too short: %d columns", len(line))
	}
	line = pad(line, colCharge+2)

	a := &Atom{}

	serial, err := strconv.Atoi(strings.TrimSpace(line[colSerial:colName]))
	if err != nil {
		return nil, errors.Wrap(err, "serial")
	}
	a.Serial = serial

	// The name field is 5 columns wide (colName..colAltLoc) but the
	// canonical normalized form is always 4 characters: WriteAtom pads
	// a.Name to width 5 before denormalizing, so the 5th column is always
	// blank. Normalize the raw 4-character substring directly — no
	// TrimSpace — so internal blanks become underscores rather than
	// vanishing (spec.md §3's "name (4 chars, spaces→underscores)").
	a.Name = NormalizeField(line[colName : colName+4])
	if al := strings.TrimSpace(line[colAltLoc:colResName]); al != "" {
		a.AltLoc = al[0]
	}
	a.ResName = NormalizeField(strings.TrimSpace(line[colResName:colChain1]))

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
	a.ICode = strings.TrimSpace(line[colICode:colX])

	x, err := strconv.ParseFloat(strings.TrimSpace(line[colX:colY]), 64)
	if err != nil {
		return nil, errors.Wrap(err, "x")
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(line[colY:colZ]), 64)
	if err != nil {
		return nil, errors.Wrap(err, "y")
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(line[colZ:colOcc]), 64)
	if err != nil {
		return nil, errors.Wrap(err, "z")
	}
	a.X, a.Y, a.Z = x, y, z

	if len(line) >= colTempFact+6 {
		if occ, err := strconv.ParseFloat(strings.TrimSpace(line[colOcc:colTempFact]), 64); err == nil {
			a.Occupancy = occ
		}
		if t, err := strconv.ParseFloat(strings.TrimSpace(line[colTempFact:colSegID]), 64); err == nil {
			a.TempFactor = t
		}
	}
	if len(line) >= colElement {
		a.SegID = strings.TrimSpace(line[colSegID:colElement])
	}
	if len(line) >= colCharge {
		a.Element = strings.TrimSpace(line[colElement:colCharge])
	}
	if len(line) >= colCharge+2 {
		chg := strings.TrimSpace(line[colCharge : colCharge+2])
		if chg != "" {
			// charges are written like "2+"/"1-"; sign trails the digit
			sign := 1
			digits := chg
			if strings.HasSuffix(chg, "-") {
				sign = -1
				digits = strings.TrimSuffix(chg, "-")
			} else {
				digits = strings.TrimSuffix(chg, "+")
			}
			if n, err := strconv.Atoi(digits); err == nil {
				a.Charge = sign * n
			}
		}
	}

	return a, nil
}

// WriteAtom writes a single ATOM record in the fixed-width format of
// spec.md §6, converting normalized underscores back to spaces.
func WriteAtom(w io.Writer, a *Atom) error {
	record := "ATOM  "
	altLoc := " "
	if a.AltLoc != 0 {
		altLoc = string(a.AltLoc)
	}
	iCode := pad(a.ICode, 4)
	_, err := io.WriteString(w, sprintfAtom(record, a, altLoc, iCode))
	return err
}

func sprintfAtom(record string, a *Atom, altLoc, iCode string) string {
	name := DenormalizeField(pad(a.Name, 5))
	resName := DenormalizeField(pad(a.ResName, 3))
	c1 := string(a.ChainID1)
	c2 := string(a.ChainID2)
	return fmt.Sprintf("%s%5d%s%s%s%s%s%4d%s%8.3f%8.3f%8.3f%6.2f%6.2f\n",
		record, a.Serial, name, altLoc, resName, c1, c2, a.ResSeq, iCode,
		a.X, a.Y, a.Z, a.Occupancy, a.TempFactor)
}

// Write emits a molecule as a sequence of ATOM records terminated by ENDMDL.
// Records carry the columns up to tempFactor only; segID, element, charge
// and the molecule ID (no HEADER line) are not written, so Read recovers
// everything else of a single-model molecule.
func Write(w io.Writer, mol *Molecule) error {
	for _, a := range mol.Atoms {
		if err := WriteAtom(w, a); err != nil {
			return errors.Wrap(err, "write molecule")
		}
	}
	_, err := io.WriteString(w, "ENDMDL\n")
	return errors.Wrap(err, "write molecule")
}
