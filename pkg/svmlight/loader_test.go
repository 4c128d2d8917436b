package svmlight

import (
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/kittclouds/ranksvm/pkg/ranking"
)

func writeFile(t *testing.T, content string) hackpadfs.FS {
	t.Helper()
	fs, err := mem.NewFS()
	if err != nil {
		t.Fatal(err)
	}
	if err := hackpadfs.WriteFullFile(fs, "train.dat", []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestLoadGroupsByQID(t *testing.T) {
	fs := writeFile(t, `
# toy ranking data
1 qid:1 1:1.0 3:0.5
0 qid:1 2:1.0  # non-relevant
1 qid:2 1:0.2
0 qid:2 3:0.7
0 qid:1 1:0.1 2:0.3
`)
	set, err := Load(fs, "train.dat")
	if err != nil {
		t.Fatal(err)
	}

	if len(set) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(set))
	}
	// qid:1 seen first, stays first.
	if len(set[0].Relevant) != 1 || len(set[0].Nonrelevant) != 2 {
		t.Errorf("group 0: %d relevant, %d non-relevant; want 1, 2",
			len(set[0].Relevant), len(set[0].Nonrelevant))
	}
	if len(set[1].Relevant) != 1 || len(set[1].Nonrelevant) != 1 {
		t.Errorf("group 1: %d relevant, %d non-relevant; want 1, 1",
			len(set[1].Relevant), len(set[1].Nonrelevant))
	}

	if !ranking.IsRankingProblem(set) {
		t.Error("loaded set should be a valid ranking problem")
	}

	// Max index 3 in the file -> dim 3, 1-based shifted down.
	dim, err := ranking.Dim(set)
	if err != nil {
		t.Fatal(err)
	}
	if dim != 3 {
		t.Errorf("dim = %d, want 3", dim)
	}
	w := []float64{1, 0, 0}
	if got := set[0].Relevant[0].Dot(w); got != 1.0 {
		t.Errorf("feature 1 of first sample = %v, want 1.0", got)
	}
}

func TestLoadDeterministicOrder(t *testing.T) {
	content := "1 qid:b 1:1\n0 qid:b 1:0\n1 qid:a 1:1\n0 qid:a 1:0\n"
	a, err := Load(writeFile(t, content), "train.dat")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Load(writeFile(t, content), "train.dat")
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("expected 2 groups in both loads")
	}
	for i := range a {
		if len(a[i].Relevant) != len(b[i].Relevant) {
			t.Errorf("group %d differs between loads", i)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name, content string
	}{
		{"bad target", "x qid:1 1:1\n"},
		{"missing qid", "1 1:1\n"},
		{"bad feature", "1 qid:1 foo\n"},
		{"zero index", "1 qid:1 0:1\n"},
		{"bad value", "1 qid:1 1:abc\n"},
		{"empty file", "# nothing\n"},
		{"decreasing indices", "1 qid:1 3:1 2:1\n"},
	}
	for _, c := range cases {
		if _, err := Load(writeFile(t, c.content), "train.dat"); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs, err := mem.NewFS()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Load(fs, "nope.dat"); err == nil {
		t.Error("expected error for missing file")
	}
}
