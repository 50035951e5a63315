package pdb

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/BurntSushi/cif"
)

// ReadCIFFile reads a PDBx/mmCIF formatted structure from the named file.
//
// If the file name ends with ".gz", gzip decompression will be used.
func ReadCIFFile(fp string) (*Entry, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	var reader io.Reader = f
	if path.Ext(fp) == ".gz" {
		reader, err = gzip.NewReader(reader)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
	}
	entry, err := ReadCIF(reader)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", fp, err)
	}
	entry.Path = fp
	return entry, nil
}

// ReadCIF reads a PDBx/mmCIF formatted structure from the reader given.
// The file must contain exactly one data block; only the atom_site category
// is interpreted. As with the PDB parser, only the first model is kept.
func ReadCIF(r io.Reader) (*Entry, error) {
	cf, err := cif.Read(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(cf.Blocks) != 1 {
		return nil, fmt.Errorf(
			"%w: expected one data block but got %d", ErrParse, len(cf.Blocks))
	}
	for _, b := range cf.Blocks {
		return readCIFBlock(b)
	}
	panic("unreachable")
}

func readCIFBlock(b *cif.DataBlock) (*Entry, error) {
	entry := &Entry{Chains: make([]*Chain, 0, 2)}
	if id, ok := b.Items["entry.id"]; ok {
		entry.IdCode = strings.ToLower(id.String())
	}

	loop := asLoop(b, "atom_site.group_pdb", "atom_site.label_atom_id",
		"atom_site.label_comp_id", "atom_site.label_asym_id",
		"atom_site.label_seq_id", "atom_site.auth_asym_id",
		"atom_site.auth_seq_id", "atom_site.pdbx_pdb_ins_code",
		"atom_site.cartn_x", "atom_site.cartn_y", "atom_site.cartn_z",
		"atom_site.occupancy", "atom_site.b_iso_or_equiv",
		"atom_site.type_symbol", "atom_site.pdbx_pdb_model_num")
	groups, atoms := loop[0].Strings(), loop[1].Strings()
	comps := loop[2].Strings()
	xs, ys, zs := loop[8].Floats(), loop[9].Floats(), loop[10].Floats()
	if groups == nil || atoms == nil || comps == nil ||
		xs == nil || ys == nil || zs == nil {
		return nil, fmt.Errorf(
			"%w: the PDBx/mmCIF data has no atom_site records", ErrParse)
	}

	// Prefer the author-assigned chain identifiers and numbering so that
	// residues line up with what PDB renderings of the same structure use.
	chainids, seqids := loop[5].Strings(), loop[6].Ints()
	if chainids == nil {
		chainids = loop[3].Strings()
	}
	if seqids == nil {
		seqids = loop[4].Ints()
	}
	if chainids == nil || seqids == nil {
		return nil, fmt.Errorf(
			"%w: atom_site records carry no chain or sequence ids", ErrParse)
	}

	icodes := loop[7].Strings()
	occs, bfs := loop[11].Floats(), loop[12].Floats()
	elems := loop[13].Strings()
	modelids := loop[14].Ints()

	firstModel := 0
	for i := range groups {
		if modelids != nil {
			if i == 0 {
				firstModel = modelids[0]
			}
			if modelids[i] != firstModel {
				continue
			}
		}

		var icode byte
		if icodes != nil && len(icodes[i]) == 1 &&
			icodes[i] != "?" && icodes[i] != "." {
			icode = icodes[i][0]
		}

		chain := entry.getOrMakeChain(chainids[i])
		residue := chain.getOrMakeResidue(
			strings.ToUpper(comps[i]), seqids[i], icode,
			groups[i] == "HETATM")

		atom := &Atom{
			Residue: residue,
			Serial:  i + 1,
			Name:    atoms[i],
		}
		atom.X, atom.Y, atom.Z = xs[i], ys[i], zs[i]
		if occs != nil {
			atom.Occupancy = occs[i]
		}
		if bfs != nil {
			atom.BFactor = bfs[i]
		}
		if elems != nil {
			atom.Element = elems[i]
		}
		residue.Atoms = append(residue.Atoms, atom)
	}

	if len(entry.Chains) == 0 {
		return nil, fmt.Errorf(
			"%w: no atoms in the first model", ErrParse)
	}
	return entry, nil
}

// asLoop retrieves the Loop containing the data tag "key". If a loop does
// not exist, then one is created with a single row with columns corresponding
// to "key" and each of the tags in "others". If the tag in "key" or any
// tag in "others" does not exist, an empty string is used for its value.
//
// This abstracts over whether a category is represented as a loop or as
// plain items, which the CIF format permits for single-row categories.
func asLoop(b *cif.DataBlock, key string, others ...string) []cif.ValueLoop {
	tags := append([]string{key}, others...)
	asColumns := func(loop *cif.Loop) []cif.ValueLoop {
		vloop := make([]cif.ValueLoop, len(tags))
		for i, tag := range tags {
			vloop[i] = loop.Get(tag)
		}
		return vloop
	}

	if loop, ok := b.Loops[key]; ok {
		return asColumns(loop)
	}
	loop := &cif.Loop{
		Columns: make(map[string]int, len(tags)),
		Values:  make([]cif.ValueLoop, len(tags)),
	}
	for i, tag := range tags {
		loop.Columns[tag] = i
		switch v := value(b, tag).Raw().(type) {
		case string:
			loop.Values[i] = cif.AsValues([]string{v})
		case int:
			loop.Values[i] = cif.AsValues([]int{v})
		case float64:
			loop.Values[i] = cif.AsValues([]float64{v})
		default:
			panic(fmt.Sprintf("Unknown value type %T for %s.", v, tag))
		}
	}
	return asColumns(loop)
}

// value returns the data value tagged by "key". If it does not exist, then
// an empty string is returned (wrapped in a cif.Value).
func value(b *cif.DataBlock, key string) cif.Value {
	if v, ok := b.Items[key]; ok {
		return v
	}
	return cif.AsValue("")
}
