// Package svmlight loads ranking datasets in the SVMlight / svm_rank file
// format:
//
//	<target> qid:<id> <feature>:<value> ... # optional comment
//
// Lines sharing a qid form one query group; a positive target marks the
// sample as relevant. Feature indices are 1-based in the file and shifted
// to 0-based vector indices. Files are read through a hackpadfs.FS so the
// same loader works over the OS filesystem, an in-memory one, or anything
// else that can open a file.
package svmlight

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/hack-pad/hackpadfs"
	"github.com/kittclouds/ranksvm/pkg/linalg"
	"github.com/kittclouds/ranksvm/pkg/ranking"
)

type row struct {
	qid      string
	relevant bool
	indices  []int
	values   []float64
}

// Load reads path from fs and returns the parsed training set. Query
// groups appear in first-seen order, so repeated loads of the same file
// train identically.
func Load(fs hackpadfs.FS, path string) (ranking.TrainingSet, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("svmlight: %w", err)
	}
	defer f.Close()

	var rows []row
	maxIdx := -1

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		r, err := parseRow(fields)
		if err != nil {
			return nil, fmt.Errorf("svmlight: line %d: %w", lineno, err)
		}
		for _, idx := range r.indices {
			if idx > maxIdx {
				maxIdx = idx
			}
		}
		rows = append(rows, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("svmlight: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("svmlight: %s: no samples", path)
	}

	dim := maxIdx + 1
	groups := make(map[string]int)
	var set ranking.TrainingSet
	for i, r := range rows {
		s, err := linalg.NewSparse(dim, r.indices, r.values)
		if err != nil {
			return nil, fmt.Errorf("svmlight: sample %d: %w", i+1, err)
		}
		gi, ok := groups[r.qid]
		if !ok {
			gi = len(set)
			groups[r.qid] = gi
			set = append(set, ranking.Pair{})
		}
		if r.relevant {
			set[gi].Relevant = append(set[gi].Relevant, s)
		} else {
			set[gi].Nonrelevant = append(set[gi].Nonrelevant, s)
		}
	}
	return set, nil
}

func parseRow(fields []string) (row, error) {
	target, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return row{}, fmt.Errorf("bad target %q", fields[0])
	}
	r := row{relevant: target > 0}

	rest := fields[1:]
	if len(rest) == 0 || !strings.HasPrefix(rest[0], "qid:") {
		return row{}, fmt.Errorf("missing qid")
	}
	r.qid = strings.TrimPrefix(rest[0], "qid:")
	if r.qid == "" {
		return row{}, fmt.Errorf("empty qid")
	}

	for _, f := range rest[1:] {
		colon := strings.IndexByte(f, ':')
		if colon <= 0 {
			return row{}, fmt.Errorf("bad feature %q", f)
		}
		idx, err := strconv.Atoi(f[:colon])
		if err != nil || idx < 1 {
			return row{}, fmt.Errorf("bad feature index %q", f)
		}
		val, err := strconv.ParseFloat(f[colon+1:], 64)
		if err != nil {
			return row{}, fmt.Errorf("bad feature value %q", f)
		}
		r.indices = append(r.indices, idx-1)
		r.values = append(r.values, val)
	}
	return r, nil
}
