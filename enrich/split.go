package enrich

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const runningSumSuffix = "_running_sum.csv"

// requiredColumns must be present in every running-sum file.
var requiredColumns = []string{"recp_name", "compound_id", "is_active"}

// SplitRunningSums finds every "<metric>_running_sum.csv" directly under
// inputDir and splits it, streaming row by row, into the receptor directory
// layout Collect consumes:
//
//	<outDir>/<metric>/<recp_name>/split.csv
//	<outDir>/<metric>/<recp_name>/ligands.name  (compound ids, is_active 1)
//	<outDir>/<metric>/<recp_name>/decoys.name   (compound ids, is_active 0)
//
// Output files are appended to, with the split.csv header written only when
// the file starts out empty, so repeated runs over new inputs accumulate.
// A file that cannot be split is logged and skipped; compound ids repeat at
// most once per input file in the name lists.
func SplitRunningSums(inputDir, outDir string) error {
	matches, err := filepath.Glob(
		filepath.Join(inputDir, "*"+runningSumSuffix))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		log.Printf("warning: no *%s files under '%s'",
			runningSumSuffix, inputDir)
		return nil
	}
	sort.Strings(matches)

	for _, fp := range matches {
		if err := splitRunningSum(fp, outDir); err != nil {
			log.Printf("warning: could not split '%s': %s", fp, err)
		}
	}
	return nil
}

func splitRunningSum(fp, outDir string) error {
	metric := strings.TrimSuffix(filepath.Base(fp), runningSumSuffix)

	f, err := os.Open(fp)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("could not read header: %v", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return fmt.Errorf("missing required column '%s'", name)
		}
	}

	outs := make(map[string]*receptorOut)
	defer func() {
		for _, out := range outs {
			out.close()
		}
	}()

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}

		recp := record[col["recp_name"]]
		if recp == "" {
			continue
		}
		out := outs[recp]
		if out == nil {
			out, err = newReceptorOut(filepath.Join(outDir, metric, recp), header)
			if err != nil {
				return err
			}
			outs[recp] = out
		}
		if err := out.split.Write(record); err != nil {
			return err
		}

		id := record[col["compound_id"]]
		if id == "" {
			continue
		}
		switch active, err := strconv.ParseFloat(
			record[col["is_active"]], 64); {
		case err != nil:
		case active == 1:
			out.addName(out.ligands, out.seenLigand, id)
		case active == 0:
			out.addName(out.decoys, out.seenDecoy, id)
		}
	}

	for recp, out := range outs {
		if err := out.close(); err != nil {
			return fmt.Errorf("receptor '%s': %v", recp, err)
		}
		delete(outs, recp)
	}
	return nil
}

// receptorOut holds the three open output files of one receptor directory.
type receptorOut struct {
	split                 *csv.Writer
	splitFile             *os.File
	ligands, decoys       *os.File
	seenLigand, seenDecoy map[string]bool
	err                   error
}

func newReceptorOut(dir string, header []string) (*receptorOut, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}
	appendTo := func(name string) (*os.File, error) {
		return os.OpenFile(filepath.Join(dir, name),
			os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
	}

	splitFile, err := appendTo("split.csv")
	if err != nil {
		return nil, err
	}
	out := &receptorOut{
		split:      csv.NewWriter(splitFile),
		splitFile:  splitFile,
		seenLigand: make(map[string]bool),
		seenDecoy:  make(map[string]bool),
	}
	if info, err := splitFile.Stat(); err == nil && info.Size() == 0 {
		if err := out.split.Write(header); err != nil {
			splitFile.Close()
			return nil, err
		}
	}
	if out.ligands, err = appendTo("ligands.name"); err != nil {
		out.close()
		return nil, err
	}
	if out.decoys, err = appendTo("decoys.name"); err != nil {
		out.close()
		return nil, err
	}
	return out, nil
}

func (out *receptorOut) addName(f *os.File, seen map[string]bool, id string) {
	if seen[id] {
		return
	}
	seen[id] = true
	if _, err := fmt.Fprintln(f, id); err != nil && out.err == nil {
		out.err = err
	}
}

func (out *receptorOut) close() error {
	out.split.Flush()
	err := out.split.Error()
	for _, f := range []*os.File{out.splitFile, out.ligands, out.decoys} {
		if f == nil {
			continue
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}
	if err == nil {
		err = out.err
	}
	return err
}
