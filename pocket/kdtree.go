package pocket

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/lyulab/benchmarking-af3/pdb"
)

// site adapts a single atom position to the kdtree.Comparable interface,
// carrying a pointer back to the atom it stands for.
type site struct {
	pos  kdtree.Point
	atom *pdb.Atom
}

func (s site) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(site)
	return s.pos[d] - q.pos[d]
}

func (s site) Dims() int { return 3 }

func (s site) Distance(c kdtree.Comparable) float64 {
	q := c.(site)
	return s.pos.Distance(q.pos)
}

type sites []site

func (s sites) Index(i int) kdtree.Comparable         { return s[i] }
func (s sites) Len() int                              { return len(s) }
func (s sites) Slice(start, end int) kdtree.Interface { return s[start:end] }
func (s sites) Pivot(d kdtree.Dim) int {
	return plane{Dim: d, sites: s}.Pivot()
}

type plane struct {
	kdtree.Dim
	sites
}

func (p plane) Less(i, j int) bool {
	return p.sites[i].pos[p.Dim] < p.sites[j].pos[p.Dim]
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.sites = p.sites[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.sites[i], p.sites[j] = p.sites[j], p.sites[i]
}

// neighbors answers fixed-radius queries over all atoms of a structure.
type neighbors struct {
	tree *kdtree.Tree
}

func newNeighbors(entry *pdb.Entry) *neighbors {
	all := make(sites, 0, 500)
	for _, chain := range entry.Chains {
		for _, residue := range chain.Residues {
			for _, atom := range residue.Atoms {
				all = append(all, site{
					pos:  kdtree.Point{atom.X, atom.Y, atom.Z},
					atom: atom,
				})
			}
		}
	}
	return &neighbors{tree: kdtree.New(all, false)}
}

// within returns every atom within radius of the given atom, the query atom
// itself included.
func (ns *neighbors) within(a *pdb.Atom, radius float64) []*pdb.Atom {
	// The tree's distances are squared Euclidean.
	keeper := kdtree.NewDistKeeper(radius * radius)
	ns.tree.NearestSet(keeper, site{pos: kdtree.Point{a.X, a.Y, a.Z}})

	found := make([]*pdb.Atom, 0, keeper.Len())
	for _, c := range keeper.Heap {
		if c.Comparable == nil {
			continue
		}
		found = append(found, c.Comparable.(site).atom)
	}
	return found
}
