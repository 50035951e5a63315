package pdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Write serializes every residue of the entry accepted by the filter to the
// writer in PDB format, preserving names, numbering and coordinates. A nil
// filter accepts every residue. Atom serial numbers are renumbered
// sequentially, so writing the same selection twice produces identical bytes.
func Write(w io.Writer, entry *Entry, accept func(*Residue) bool) error {
	bw := bufio.NewWriter(w)
	serial := 0
	for _, chain := range entry.Chains {
		wrote := false
		for _, residue := range chain.Residues {
			if accept != nil && !accept(residue) {
				continue
			}
			for _, atom := range residue.Atoms {
				serial++
				if err := writeAtom(bw, chain, residue, atom, serial); err != nil {
					return err
				}
				wrote = true
			}
		}
		if wrote {
			if _, err := fmt.Fprintln(bw, "TER"); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintln(bw, "END"); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteFile is like Write, but writes to the named file.
func WriteFile(fp string, entry *Entry, accept func(*Residue) bool) error {
	f, err := os.Create(fp)
	if err != nil {
		return err
	}
	if err := Write(f, entry, accept); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeAtom(
	w io.Writer, c *Chain, r *Residue, a *Atom, serial int) error {

	record := "ATOM"
	if r.Het {
		record = "HETATM"
	}
	icode := " "
	if r.InsertionCode != 0 {
		icode = string(r.InsertionCode)
	}
	_, err := fmt.Fprintf(w,
		"%-6s%5d %-4s %3s %1s%4d%1s   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
		record, serial, padAtomName(a.Name), r.Name3, chainChar(c.Ident),
		r.SequenceNum, icode, a.X, a.Y, a.Z, a.Occupancy, a.BFactor,
		a.Element)
	return err
}

// padAtomName follows the PDB convention that atom names shorter than four
// characters start in the second column of the name field.
func padAtomName(name string) string {
	if len(name) >= 4 {
		return name[:4]
	}
	return fmt.Sprintf(" %-3s", name)
}

// chainChar squeezes a chain identifier into the single column the PDB
// format allows. The placeholder ident for a blank chain writes back as a
// blank, and longer mmCIF identifiers keep their first character.
func chainChar(ident string) string {
	if len(ident) == 0 || ident == "_" {
		return " "
	}
	return ident[:1]
}
