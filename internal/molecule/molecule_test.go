package molecule

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAtomLine renders one ATOM record through the writer so fixtures stay
// in lockstep with the column layout parseAtomLine expects.
func buildAtomLine(t *testing.T, a *Atom) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteAtom(&buf, a))
	return strings.TrimRight(buf.String(), "\n")
}

func headerLine(id string) string {
	prefix := "HEADER    HYDROLASE"
	return prefix + strings.Repeat(" ", 62-len(prefix)) + id
}

func TestReadParsesBackboneAtomsAndStopsAtEndMDL(t *testing.T) {
	a1 := &Atom{Serial: 1, Name: "_N__", ResName: "ALA", ChainID1: 'A', ChainID2: '0', ResSeq: 1, X: 11.104, Y: 6.134, Z: -6.504}
	a2 := &Atom{Serial: 2, Name: "_CA_", ResName: "ALA", ChainID1: 'A', ChainID2: '0', ResSeq: 1, X: 11.5, Y: 7.5, Z: -6.0}
	a3 := &Atom{Serial: 3, Name: "_C__", ResName: "ALA", ChainID1: 'A', ChainID2: '0', ResSeq: 1, X: 13.0, Y: 7.5, Z: -6.2}
	a4 := &Atom{Serial: 4, Name: "_N__", ResName: "GLY", ChainID1: 'B', ChainID2: '0', ResSeq: 2}

	input := headerLine("1ABC") + "\n" +
		buildAtomLine(t, a1) + "\n" +
		buildAtomLine(t, a2) + "\n" +
		buildAtomLine(t, a3) + "\n" +
		"ENDMDL\n" +
		buildAtomLine(t, a4) + "\n"

	mol, err := Read(strings.NewReader(input), ReadOptions{})
	require.NoError(t, err)
	require.NotNil(t, mol)

	assert.Equal(t, "1ABC", mol.ID)
	require.Len(t, mol.Atoms, 3)

	got := mol.Atoms[0]
	assert.Equal(t, 1, got.Serial)
	assert.Equal(t, "_N__", got.Name)
	assert.Equal(t, "ALA", got.ResName)
	assert.Equal(t, byte('A'), got.ChainID1)
	assert.Equal(t, byte('0'), got.ChainID2)
	assert.Equal(t, 1, got.ResSeq)
	assert.InDelta(t, 11.104, got.X, 1e-6)
	assert.InDelta(t, 6.134, got.Y, 1e-6)
	assert.InDelta(t, -6.504, got.Z, 1e-6)

	full, err := Read(strings.NewReader(input), ReadOptions{IgnoreEndMDL: true})
	require.NoError(t, err)
	require.NotNil(t, full)
	assert.Len(t, full.Atoms, 4)
}

func TestReadEmptyInputYieldsNoMolecule(t *testing.T) {
	mol, err := Read(strings.NewReader("REMARK nothing here\n"), ReadOptions{})
	require.NoError(t, err)
	assert.Nil(t, mol)
}

func TestReadSkipsMalformedRecordsButKeepsGoing(t *testing.T) {
	good := &Atom{Serial: 2, Name: "_CA_", ResName: "ALA", ChainID1: 'A', ChainID2: '0', ResSeq: 1, X: 11.5, Y: 7.5, Z: -6.0}
	input := "ATOM      1  N   ALA A   1      bad.xxx   6.134  -6.504  1.00  0.00\n" +
		buildAtomLine(t, good) + "\n"

	mol, err := Read(strings.NewReader(input), ReadOptions{})
	require.NoError(t, err)
	require.NotNil(t, mol)
	assert.Len(t, mol.Atoms, 1)
	assert.Equal(t, 2, mol.Atoms[0].Serial)
}

func TestAtomLineRoundTrips(t *testing.T) {
	atom := &Atom{
		Serial: 7, Name: "_CB_", AltLoc: 'A', ResName: "PHE",
		ChainID1: 'X', ChainID2: '1', ResSeq: 42, ICode: "",
		X: 1.125, Y: -2.5, Z: 3.75, Occupancy: 0.8, TempFactor: 15.2,
	}
	line := buildAtomLine(t, atom)

	roundTripped, err := parseAtomLine(line)
	require.NoError(t, err)
	assert.Equal(t, atom.Serial, roundTripped.Serial)
	assert.Equal(t, atom.Name, roundTripped.Name)
	assert.Equal(t, atom.ResName, roundTripped.ResName)
	assert.Equal(t, atom.ChainID1, roundTripped.ChainID1)
	assert.Equal(t, atom.ChainID2, roundTripped.ChainID2)
	assert.Equal(t, atom.ResSeq, roundTripped.ResSeq)
	assert.InDelta(t, atom.X, roundTripped.X, 1e-6)
	assert.InDelta(t, atom.Y, roundTripped.Y, 1e-6)
	assert.InDelta(t, atom.Z, roundTripped.Z, 1e-6)
	assert.InDelta(t, atom.Occupancy, roundTripped.Occupancy, 1e-6)
	assert.InDelta(t, atom.TempFactor, roundTripped.TempFactor, 1e-6)
}

func TestWriteThenReadRoundTripsMolecule(t *testing.T) {
	mol := &Molecule{
		Atoms: []*Atom{
			{Serial: 1, Name: "_N__", ResName: "ALA", ChainID1: 'A', ChainID2: '0', ResSeq: 1, X: 1, Y: 2, Z: 3},
			{Serial: 2, Name: "_CA_", ResName: "ALA", ChainID1: 'A', ChainID2: '0', ResSeq: 1, X: 4, Y: 5, Z: 6},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, mol))

	got, err := Read(&buf, ReadOptions{})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Atoms, 2)
}

func TestIsMainChainCarbonHydrogen(t *testing.T) {
	assert.True(t, IsMainChain("_CA_"))
	assert.True(t, IsMainChain("_N__"))
	assert.True(t, IsMainChain("_O__"))
	assert.False(t, IsMainChain("_CB_"))

	assert.True(t, IsCarbon("_CB_"))
	assert.False(t, IsCarbon("_N__"))

	assert.True(t, IsHydrogen("_HB1"))
	assert.False(t, IsHydrogen("_CA_"))
}
