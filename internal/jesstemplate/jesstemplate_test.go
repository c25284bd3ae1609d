package jesstemplate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iriziotis/jess/internal/molecule"
)

// buildRecord assembles a template record line with the exact column
// widths parseRecord expects, so fixtures can't silently drift out of
// alignment with the parser.
func buildRecord(code int, name, altLoc, resName string, chain1, chain2 byte, resSeq int, iCode string, x, y, z, distWeight float64, alternates string) string {
	line := fmt.Sprintf("ATOM  %5d%-5s%1s%-3s%c%c%4d%-4s%8.3f%8.3f%8.3f%6.2f",
		code, name, altLoc, resName, chain1, chain2, resSeq, iCode, x, y, z, distWeight)
	return line + alternates
}

func TestParseSingleRecordWithNoAlternates(t *testing.T) {
	line := buildRecord(0, "CA", " ", "HIS", 'A', '0', 10, "", 1, 2, 3, 0.5, "")
	tpl, err := Parse(strings.NewReader(line+"\n"), "t1")
	require.NoError(t, err)
	require.Equal(t, 1, tpl.Count())
	assert.Equal(t, [3]float64{1, 2, 3}, tpl.Position(0))
	assert.InDelta(t, 0.5, tpl.DistWeight(0), 1e-9)
}

func TestParseAlternatesAddAtomNamesAndResidues(t *testing.T) {
	line := buildRecord(0, "CB", " ", "HIS", 'A', '0', 10, "", 0, 0, 0, 0, "(_OG_)D(_OG1)")
	tpl, err := Parse(strings.NewReader(line+"\n"), "t")
	require.NoError(t, err)
	require.Equal(t, 1, tpl.Count())

	// Candidate matches only via the parenthesised atom-name alternate and
	// the single-letter ('D' -> ASP) residue alternate, not the primaries.
	candidate := &molecule.Atom{Name: "_OG_", ResName: "ASP"}
	assert.True(t, tpl.Match(0, candidate))

	notMatching := &molecule.Atom{Name: "_OG_", ResName: "GLU"}
	assert.False(t, tpl.Match(0, notMatching))
}

func TestParseRejectsUnbalancedParenthesis(t *testing.T) {
	line := buildRecord(0, "CA", " ", "HIS", 'A', '0', 10, "", 0, 0, 0, 0, "(_OG_")
	_, err := Parse(strings.NewReader(line+"\n"), "t")
	assert.Error(t, err)
}

func TestParseRejectsOverlongAtomName(t *testing.T) {
	line := buildRecord(0, "CA", " ", "HIS", 'A', '0', 10, "", 0, 0, 0, 0, "(_OGXY_)")
	_, err := Parse(strings.NewReader(line+"\n"), "t")
	assert.Error(t, err)
}

func TestParseRejectsUnknownResidueCode(t *testing.T) {
	line := buildRecord(0, "CA", " ", "HIS", 'A', '0', 10, "", 0, 0, 0, 0, "Z")
	_, err := Parse(strings.NewReader(line+"\n"), "t")
	assert.Error(t, err)
}

func TestParseSkipsOnlyTheMalformedRecord(t *testing.T) {
	good1 := buildRecord(0, "CA", " ", "HIS", 'A', '0', 10, "", 0, 0, 0, 0, "")
	bad := "ATOM  not-a-valid-record-at-all"
	good2 := buildRecord(0, "CB", " ", "HIS", 'A', '0', 10, "", 1, 1, 1, 0, "")
	tpl, err := Parse(strings.NewReader(good1+"\n"+bad+"\n"+good2+"\n"), "t")
	require.NoError(t, err)
	assert.Equal(t, 2, tpl.Count())
}

func TestParseWithNoRecordsFails(t *testing.T) {
	_, err := Parse(strings.NewReader(""), "empty")
	assert.Error(t, err)
}
