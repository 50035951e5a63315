package pocket

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lyulab/benchmarking-af3/pdb"
)

// ErrMissingInput is wrapped by errors returned when a complex directory
// lacks one of its required coordinate files.
var ErrMissingInput = errors.New("missing input file")

// A Result is the per-complex record aggregated into the run summary.
type Result struct {
	Name          string
	RefPocketSize int
	AF3PocketSize int
	Difference    int
	Unmapped      int
}

// ProcessComplex runs the whole pocket mapping pipeline for one complex
// directory named "<pdbid>_<ligandid>": it concatenates ref_prot.pdb and
// ref_lig.pdb into ref_complex.pdb, locates the reference pocket and writes
// it to ref_pocket.pdb, loads the predicted model from
// "<pdbid>_<ligandid>_model.cif", writes a PDB rendering of it to
// af3_model.pdb, transfers the pocket onto the model, and writes
// af3_pocket.pdb and pocket_mapping_report.txt.
//
// Any error concerns this complex only; callers are expected to log it and
// move on to the next complex.
func ProcessComplex(
	dir, name string, cutoff float64, verbose bool) (*Result, error) {

	pdbid, ligraw, ok := strings.Cut(name, "_")
	if !ok {
		return nil, fmt.Errorf(
			"'%s' is not in <pdbid>_<ligandid> format", name)
	}
	// Ligand identifiers of the form "<code>_<copy>" collapse to the
	// three-letter residue code.
	ligand := ligraw
	if len(ligand) == 5 {
		ligand = ligand[:3]
	}
	ligand = strings.ToUpper(ligand)

	refProt := filepath.Join(dir, "ref_prot.pdb")
	refLig := filepath.Join(dir, "ref_lig.pdb")
	for _, fp := range []string{refProt, refLig} {
		if _, err := os.Stat(fp); err != nil {
			return nil, fmt.Errorf("%w: '%s'", ErrMissingInput, fp)
		}
	}

	combined := filepath.Join(dir, "ref_complex.pdb")
	if err := concatFiles(combined, refProt, refLig); err != nil {
		return nil, err
	}
	ref, err := pdb.ReadFile(combined)
	if err != nil {
		return nil, err
	}

	refPocket, refStats, err := Find(ref, ligand, cutoff)
	if err != nil {
		return nil, err
	}
	if verbose {
		log.Printf(
			"reference pocket: %d residues from chain(s) %v (%d ligand atoms)",
			refStats.PocketResidues, refStats.Chains, refStats.LigandAtoms)
	}
	out := filepath.Join(dir, "ref_pocket.pdb")
	if err := pdb.WriteFile(out, ref, refPocket.Contains); err != nil {
		return nil, err
	}

	modelPath := filepath.Join(dir,
		fmt.Sprintf("%s_%s_model.cif", pdbid, ligraw))
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: '%s'", ErrMissingInput, modelPath)
	}
	model, err := pdb.ReadFile(modelPath)
	if err != nil {
		return nil, err
	}
	out = filepath.Join(dir, "af3_model.pdb")
	if err := pdb.WriteFile(out, model, nil); err != nil {
		return nil, err
	}

	modelPocket, mstats := MapToModel(refPocket, ref, model, verbose)
	if len(modelPocket) == 0 {
		return nil, fmt.Errorf("could not map pocket onto model in '%s'", dir)
	}
	out = filepath.Join(dir, "af3_pocket.pdb")
	if err := pdb.WriteFile(out, model, modelPocket.Contains); err != nil {
		return nil, err
	}

	report, err := os.Create(filepath.Join(dir, "pocket_mapping_report.txt"))
	if err != nil {
		return nil, err
	}
	err = WriteReport(report, name,
		refStats.PocketResidues, len(modelPocket), mstats)
	if cerr := report.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Name:          name,
		RefPocketSize: refStats.PocketResidues,
		AF3PocketSize: len(modelPocket),
		Difference:    refStats.PocketResidues - len(modelPocket),
		Unmapped:      len(mstats.Unmapped),
	}, nil
}

// concatFiles writes the raw concatenation of the source files to dst.
func concatFiles(dst string, srcs ...string) error {
	w, err := os.Create(dst)
	if err != nil {
		return err
	}
	for _, src := range srcs {
		r, err := os.Open(src)
		if err != nil {
			w.Close()
			return err
		}
		_, err = io.Copy(w, r)
		r.Close()
		if err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
