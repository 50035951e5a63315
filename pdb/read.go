package pdb

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
)

// ErrParse is wrapped by every error returned for a structure file that
// could not be read or interpreted.
var ErrParse = errors.New("malformed structure file")

// ReadFile reads a structure from the named file, picking the parser by file
// extension: '.cif' and '.mmcif' use the PDBx/mmCIF parser, everything else
// uses the PDB parser. A trailing '.gz' extension is stripped before the
// check and enables gzip decompression.
func ReadFile(fp string) (*Entry, error) {
	name := fp
	if path.Ext(name) == ".gz" {
		name = name[:len(name)-len(".gz")]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".cif", ".mmcif":
		return ReadCIFFile(fp)
	}
	return ReadPDB(fp)
}

// ReadPDB reads a PDB formatted structure from the named file.
//
// If the file name ends with ".gz", gzip decompression will be used.
func ReadPDB(fp string) (*Entry, error) {
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
	entry, err := Read(reader)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", fp, err)
	}
	entry.Path = fp
	return entry, nil
}

// Read reads a PDB formatted structure from the reader given. Only the first
// model of a multi-model file is kept, and only the blank and 'A' alternate
// locations of each atom are kept.
func Read(r io.Reader) (*Entry, error) {
	entry := &Entry{Chains: make([]*Chain, 0, 2)}
	parser := pdbParser{entry: entry, curModel: 1, firstModel: 1}

	breader := bufio.NewReaderSize(r, 1000)
	for {
		// We ignore 'isPrefix' here, since we never care about lines longer
		// than 1000 characters, which is the size of our buffer.
		line, _, err := breader.ReadLine()
		if err == io.EOF && len(line) == 0 {
			break
		} else if err != io.EOF && err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		parser.line = line
		if err := parser.parseLine(); err != nil {
			return nil, err
		}
	}

	// If we didn't pick up any atoms, this probably isn't a PDB file at all.
	if len(entry.Chains) == 0 {
		return nil, fmt.Errorf(
			"%w: no ATOM or HETATM records found", ErrParse)
	}
	return entry, nil
}

type pdbParser struct {
	entry      *Entry
	curModel   int
	firstModel int
	sawModel   bool
	line       []byte
}

func (p *pdbParser) parseLine() error {
	switch p.cols(1, 6) {
	case "HEADER":
		p.entry.IdCode = strings.ToLower(p.cols(63, 66))
	case "MODEL":
		num, err := p.atoi(11, 14)
		if err != nil {
			return fmt.Errorf("%w: bad MODEL record: %v", ErrParse, err)
		}
		p.curModel = num
		if !p.sawModel {
			p.firstModel = num
			p.sawModel = true
		}
	case "ATOM":
		return p.parseAtom(false)
	case "HETATM":
		return p.parseAtom(true)
	}
	return nil
}

func (p *pdbParser) parseAtom(het bool) error {
	if p.curModel != p.firstModel {
		return nil
	}

	// Skip alternate locations other than the first.
	if alt := p.at(17); alt != ' ' && alt != 0 && alt != 'A' {
		return nil
	}

	seqNum, err := p.atoi(23, 26)
	if err != nil {
		return fmt.Errorf("%w: bad residue sequence number: %v", ErrParse, err)
	}
	x, err := p.atof(31, 38)
	if err != nil {
		return fmt.Errorf("%w: bad x coordinate: %v", ErrParse, err)
	}
	y, err := p.atof(39, 46)
	if err != nil {
		return fmt.Errorf("%w: bad y coordinate: %v", ErrParse, err)
	}
	z, err := p.atof(47, 54)
	if err != nil {
		return fmt.Errorf("%w: bad z coordinate: %v", ErrParse, err)
	}

	icode := p.at(27)
	if icode == ' ' {
		icode = 0
	}
	chain := p.entry.getOrMakeChain(p.cols(22, 22))
	residue := chain.getOrMakeResidue(
		strings.ToUpper(p.cols(18, 20)), seqNum, icode, het)

	atom := &Atom{
		Residue: residue,
		Name:    p.cols(13, 16),
		Element: p.cols(77, 78),
	}
	atom.X, atom.Y, atom.Z = x, y, z
	if serial, err := p.atoi(7, 11); err == nil {
		atom.Serial = serial
	}
	if occ, err := p.atof(55, 60); err == nil {
		atom.Occupancy = occ
	}
	if bf, err := p.atof(61, 66); err == nil {
		atom.BFactor = bf
	}
	residue.Atoms = append(residue.Atoms, atom)
	return nil
}

func (p pdbParser) atoi(start, end int) (int, error) {
	return strconv.Atoi(p.cols(start, end))
}

func (p pdbParser) atof(start, end int) (float64, error) {
	return strconv.ParseFloat(p.cols(start, end), 64)
}

// cols returns the trimmed contents of the 1-indexed inclusive column range,
// or the empty string when the range falls off the line.
func (p pdbParser) cols(start, end int) string {
	rs, re := start-1, end
	if rs >= len(p.line) || rs < 0 {
		return ""
	}
	if re > len(p.line) {
		re = len(p.line)
	}
	if re < rs {
		return ""
	}
	return string(bytes.TrimSpace(p.line[rs:re]))
}

func (p pdbParser) at(column int) byte {
	i := column - 1
	if i < 0 || i >= len(p.line) {
		return 0
	}
	return p.line[i]
}
