// Package enrich scrapes docking enrichment statistics (AUC and logAUC)
// out of a tree of receptor screening directories and tabulates them.
package enrich

import (
	"bufio"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// A receptor directory is recognized by the presence of a split.csv file.
// Its parent directory names the scoring metric.
const markerFile = "split.csv"

// numPat matches a floating point literal, optionally in scientific
// notation.
const numPat = `[-+]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][-+]?[0-9]+)?`

var (
	rocHeaderPat = regexp.MustCompile(
		`(?is)\bAUC\b[^0-9\-+]*(` + numPat + `).*?\blogAUC\b[^0-9\-+]*(` +
			numPat + `)`)
	aucFallbackPats = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bAUC\b[^0-9\-+]*(` + numPat + `)`),
		regexp.MustCompile(`(?i)\bROC\b[^0-9\-+]*(` + numPat + `)`),
	}
	logAucFallbackPats = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\blogAUC\b[^0-9\-+]*(` + numPat + `)`),
		regexp.MustCompile(`(?i)\blog\s*AUC\b[^0-9\-+]*(` + numPat + `)`),
	}
)

// fallbackFiles are tried in order when roc_own.txt yields nothing.
var fallbackFiles = []string{
	"enrich.out", "enrich.log", "enrich.txt",
	"roc.txt", "plots.out", "summary.txt",
}

// A Row is one receptor/metric observation in the long-form summary. Nil
// AUC values serialize as empty cells.
type Row struct {
	Metric     string   `csv:"metric"`
	RecpName   string   `csv:"recp_name"`
	AUC        *float64 `csv:"auc"`
	LogAUC     *float64 `csv:"log_auc"`
	NumLigands int      `csv:"n_ligands"`
	NumDecoys  int      `csv:"n_decoys"`
	SourceFile string   `csv:"source_file"`
	RecpPath   string   `csv:"recp_path"`
}

// Collect walks the tree rooted at root and returns one Row per receptor
// directory found, in the order the walk visits them. Unreadable receptor
// files degrade to empty or zero fields, and unreadable subtrees below the
// root are skipped with a warning; only the root itself failing is an error.
func Collect(root string) ([]Row, error) {
	var rows []Row
	err := filepath.WalkDir(root,
		func(fp string, d fs.DirEntry, err error) error {
			if err != nil {
				if fp == root {
					return err
				}
				log.Printf("warning: skipping '%s': %s", fp, err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || d.Name() != markerFile {
				return nil
			}
			recpDir := filepath.Dir(fp)
			rows = append(rows, collectRow(recpDir))
			return nil
		})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func collectRow(recpDir string) Row {
	row := Row{
		Metric:     filepath.Base(filepath.Dir(recpDir)),
		RecpName:   filepath.Base(recpDir),
		NumLigands: countLines(filepath.Join(recpDir, "ligands.name")),
		NumDecoys:  countLines(filepath.Join(recpDir, "decoys.name")),
		RecpPath:   recpDir,
	}

	auc, logAuc := parseRocOwnHeader(filepath.Join(recpDir, "roc_own.txt"))
	if auc != nil || logAuc != nil {
		row.AUC, row.LogAUC, row.SourceFile = auc, logAuc, "roc_own.txt"
		return row
	}
	for _, fname := range fallbackFiles {
		bs, err := os.ReadFile(filepath.Join(recpDir, fname))
		if err != nil {
			continue
		}
		auc, logAuc = parseFallback(string(bs))
		if auc != nil || logAuc != nil {
			row.AUC, row.LogAUC, row.SourceFile = auc, logAuc, fname
			return row
		}
	}
	return row
}

// parseRocOwnHeader pulls AUC and logAUC out of the first five lines of a
// roc_own.txt file, where the plotting tool writes its header.
func parseRocOwnHeader(fp string) (auc, logAuc *float64) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for len(lines) < 5 && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	m := rocHeaderPat.FindStringSubmatch(strings.Join(lines, "\n"))
	if m == nil {
		return nil, nil
	}
	return parseNum(m[1]), parseNum(m[2])
}

func parseFallback(text string) (auc, logAuc *float64) {
	for _, pat := range aucFallbackPats {
		if m := pat.FindStringSubmatch(text); m != nil {
			if auc = parseNum(m[1]); auc != nil {
				break
			}
		}
	}
	for _, pat := range logAucFallbackPats {
		if m := pat.FindStringSubmatch(text); m != nil {
			if logAuc = parseNum(m[1]); logAuc != nil {
				break
			}
		}
	}
	return auc, logAuc
}

func parseNum(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func countLines(fp string) int {
	f, err := os.Open(fp)
	if err != nil {
		return 0
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	for scanner.Scan() {
		n++
	}
	return n
}
