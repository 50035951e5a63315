package pocket

import (
	"errors"
	"log"
	"sort"

	"github.com/lyulab/benchmarking-af3/align"
	"github.com/lyulab/benchmarking-af3/pdb"
)

// ChainMapping records the outcome of transferring one reference chain's
// pocket residues onto the model.
type ChainMapping struct {
	ModelChain string // model chain the reference chain was aligned against
	Mapped     int
	Unmapped   []string // residue labels, e.g. "ALA12"
}

// MappingStats aggregates per-chain transfer outcomes. Mapped plus the
// length of Unmapped always equals RefPocketSize.
type MappingStats struct {
	RefPocketSize int
	Mapped        int
	Unmapped      []string
	Chains        map[string]*ChainMapping
}

// MapToModel translates each residue of a reference pocket into its
// counterpart on the model structure. Chains are processed independently:
// the reference chain is aligned globally against the model chain with the
// same identifier, or, when no such chain with a usable sequence exists,
// against the best-scoring of all model chains (ties broken by lexicographic
// chain identifier). Residues whose alignment column is a gap, out of range,
// or whose chain has no usable sequence are reported as unmapped, never as
// errors.
func MapToModel(
	refPocket Set, ref, model *pdb.Entry, verbose bool) (Set, MappingStats) {

	byChain := make(map[string][]*pdb.Residue, 2)
	for residue := range refPocket {
		ident := residue.Chain.Ident
		byChain[ident] = append(byChain[ident], residue)
	}
	idents := sortedChainIdents(byChain)

	if verbose && len(idents) > 1 {
		log.Printf("pocket spans %d chains: %v", len(idents), idents)
	}

	modelPocket := make(Set, len(refPocket))
	stats := MappingStats{
		RefPocketSize: len(refPocket),
		Chains:        make(map[string]*ChainMapping, len(idents)),
	}

	for _, ident := range idents {
		residues := byChain[ident]
		sort.Slice(residues, func(i, j int) bool {
			if residues[i].SequenceNum != residues[j].SequenceNum {
				return residues[i].SequenceNum < residues[j].SequenceNum
			}
			return residues[i].InsertionCode < residues[j].InsertionCode
		})

		cm := transferChain(ident, residues, ref, model, modelPocket, verbose)
		stats.Chains[ident] = cm
		stats.Mapped += cm.Mapped
		stats.Unmapped = append(stats.Unmapped, cm.Unmapped...)
	}
	return modelPocket, stats
}

// transferChain maps the pocket residues of a single reference chain,
// adding the model-side residues it finds to modelPocket.
func transferChain(
	ident string, residues []*pdb.Residue, ref, model *pdb.Entry,
	modelPocket Set, verbose bool) *ChainMapping {

	cm := &ChainMapping{ModelChain: ident}
	unmapAll := func() *ChainMapping {
		for _, residue := range residues {
			cm.Unmapped = append(cm.Unmapped, residue.Label())
		}
		return cm
	}

	refRec := ExtractSequence(ref, ident)
	modelRec := ExtractSequence(model, ident)
	if modelRec.Empty() {
		if verbose {
			log.Printf("chain %s not found in model, searching for best match",
				ident)
		}
		cm.ModelChain, modelRec = bestMatchingChain(refRec, model, verbose)
	}
	if refRec.Empty() || modelRec.Empty() {
		log.Printf("warning: could not build sequences for chain %s", ident)
		return unmapAll()
	}

	aln, err := align.Global(refRec.Seq.Residues, modelRec.Seq.Residues)
	if err != nil {
		log.Printf("warning: chain %s: %s", ident, err)
		return unmapAll()
	}
	if verbose {
		log.Printf("chain %s -> %s: score %.1f, identity %.1f%%",
			ident, cm.ModelChain, aln.Score,
			100*aln.Identity(refRec.Seq.Residues, modelRec.Seq.Residues))
	}

	refIndex := make(map[*pdb.Residue]int, len(refRec.Residues))
	for i, residue := range refRec.Residues {
		refIndex[residue] = i
	}
	indexMap := aln.IndexMap()

	for _, residue := range residues {
		ri, ok := refIndex[residue]
		if !ok {
			cm.Unmapped = append(cm.Unmapped, residue.Label())
			continue
		}
		mi, ok := indexMap[ri]
		if !ok || mi < 0 || mi >= len(modelRec.Residues) {
			cm.Unmapped = append(cm.Unmapped, residue.Label())
			continue
		}
		modelPocket[modelRec.Residues[mi]] = true
		cm.Mapped++
	}
	return cm
}

// bestMatchingChain aligns the reference sequence against every chain of
// the model and returns the identifier and record of the highest scoring
// one. Chains are tried in lexicographic identifier order, and only a
// strictly greater score displaces the incumbent, so ties resolve to the
// lexicographically first chain.
func bestMatchingChain(
	refRec Record, model *pdb.Entry, verbose bool) (string, Record) {

	idents := make([]string, 0, len(model.Chains))
	for _, chain := range model.Chains {
		idents = append(idents, chain.Ident)
	}
	sort.Strings(idents)

	var bestIdent string
	var bestRec Record
	bestScore := 0.0
	found := false
	for _, ident := range idents {
		rec := ExtractSequence(model, ident)
		if rec.Empty() || refRec.Empty() {
			continue
		}
		aln, err := align.Global(refRec.Seq.Residues, rec.Seq.Residues)
		if err != nil {
			if !errors.Is(err, align.ErrNoAlignment) {
				log.Printf("warning: scoring chain %s: %s", ident, err)
			}
			continue
		}
		if !found || aln.Score > bestScore {
			found = true
			bestScore = aln.Score
			bestIdent = ident
			bestRec = rec
		}
	}
	if found && verbose {
		log.Printf("best match: chain %s (score %.1f)", bestIdent, bestScore)
	}
	return bestIdent, bestRec
}

func sortedChainIdents(m map[string][]*pdb.Residue) []string {
	idents := make([]string, 0, len(m))
	for ident := range m {
		idents = append(idents, ident)
	}
	sort.Strings(idents)
	return idents
}
