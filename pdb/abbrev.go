package pdb

import "github.com/TuftsBCB/seq"

// aminoMap translates three-letter amino acid names to their single letter
// representation. The tail of the table holds ambiguity codes and the two
// rare genetically encoded residues.
var aminoMap = map[string]seq.Residue{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',

	"ASX": 'B', // ASP or ASN
	"GLX": 'Z', // GLU or GLN
	"XLE": 'J', // LEU or ILE
	"SEC": 'U', // selenocysteine
	"PYL": 'O', // pyrrolysine
}

// AminoAbbrev returns the one-letter abbreviation for a three-letter residue
// name, or 'X' when the name is not in the table.
func AminoAbbrev(threeAbbrev string) seq.Residue {
	if v, ok := aminoMap[threeAbbrev]; ok {
		return v
	}
	return 'X'
}
