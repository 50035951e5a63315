// extract-ligand pulls every residue with a given name out of a complex and
// writes it to its own PDB file, stripped of common metal and halogen atoms.
package main

import (
	"flag"
	"strings"

	"github.com/lyulab/benchmarking-af3/cmd/util"
	"github.com/lyulab/benchmarking-af3/pdb"
)

var (
	flagInput   = ""
	flagResname = ""
	flagOutput  = ""
)

// Metals and halogens commonly deposited alongside organic ligands.
var stripElements = map[string]bool{
	"ZN": true, "MG": true, "CA": true, "FE": true, "MN": true,
	"CO": true, "NI": true, "CU": true, "NA": true, "K": true,
	"PD": true, "CD": true, "HG": true, "I": true, "MO": true,
	"RU": true, "AG": true, "PT": true, "AU": true,
	"CL": true, "F": true, "BR": true,
}

func init() {
	flag.StringVar(&flagInput, "i", flagInput,
		"The input complex, in PDB or mmCIF format.")
	flag.StringVar(&flagResname, "r", flagResname,
		"The residue name of the ligand to extract.")
	flag.StringVar(&flagOutput, "o", flagOutput,
		"The output PDB file for the extracted ligand.")
	util.FlagParse("-i complex.pdb -r RES -o lig.pdb", "")
	util.AssertNArg(0)

	if flagInput == "" || flagResname == "" || flagOutput == "" {
		util.Usage()
	}
}

func main() {
	resname := strings.ToUpper(flagResname)
	entry, err := pdb.ReadFile(flagInput)
	util.Assert(err, "Could not read '%s'", flagInput)

	found := 0
	for _, residue := range entry.Residues() {
		if residue.Name3 != resname {
			continue
		}
		found++
		kept := residue.Atoms[:0]
		for _, atom := range residue.Atoms {
			if !stripElements[strings.ToUpper(atom.Element)] {
				kept = append(kept, atom)
			}
		}
		residue.Atoms = kept
	}
	if found == 0 {
		util.Fatalf("No residue named '%s' in '%s'.", resname, flagInput)
	}

	isLigand := func(r *pdb.Residue) bool { return r.Name3 == resname }
	util.Assert(pdb.WriteFile(flagOutput, entry, isLigand),
		"Could not write '%s'", flagOutput)
}
