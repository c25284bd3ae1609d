package template

// singleLetterResidues is the fixed 21-entry single-letter -> three-letter
// amino acid code table used to expand alternates in template records
// (spec.md §6): the 20 standard residues plus 'X' for an unspecified
// residue.
var singleLetterResidues = map[byte]string{
	'A': "ALA", 'R': "ARG", 'N': "ASN", 'D': "ASP", 'C': "CYS",
	'Q': "GLN", 'E': "GLU", 'G': "GLY", 'H': "HIS", 'I': "ILE",
	'L': "LEU", 'K': "LYS", 'M': "MET", 'F': "PHE", 'P': "PRO",
	'S': "SER", 'T': "THR", 'W': "TRP", 'Y': "TYR", 'V': "VAL",
	'X': "UNK",
}

// ExpandResidueCode maps a single-letter residue code to its three-letter
// form, reporting ok=false for an unrecognized code.
func ExpandResidueCode(c byte) (string, bool) {
	name, ok := singleLetterResidues[c]
	return name, ok
}
