package matching

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/nadernamini/rna-seq-read-algn/index"
	"github.com/nadernamini/rna-seq-read-algn/sequence"
)

func buildIndex(t *testing.T, seq []byte) *index.Index {
	t.Helper()
	text, err := sequence.Terminate(seq)
	if err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	x, err := index.New(text)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return x
}

func randomGenome(r *rand.Rand, n int) []byte {
	alpha := sequence.Alphabet()
	seq := make([]byte, n)
	for i := range seq {
		seq[i] = alpha[r.Intn(len(alpha))]
	}
	return seq
}

func TestMatchKnownOccurrences(t *testing.T) {
	x := buildIndex(t, []byte("ACGTACGTACGT"))

	iv, matched := Match(x, []byte("ACGTACGT"))
	if matched != 8 {
		t.Fatalf("matched = %d, want 8", matched)
	}
	if iv.Size() != 2 {
		t.Fatalf("interval size = %d, want 2", iv.Size())
	}
	positions := Positions(x, iv, 0)
	if !reflect.DeepEqual(positions, []int{0, 4}) {
		t.Fatalf("positions = %v, want [0 4]", positions)
	}
}

func TestMatchAbsentQuery(t *testing.T) {
	x := buildIndex(t, []byte("ACGTACGTACGT"))
	for _, q := range []string{"AA", "ACGG", "TTT", "GTACA"} {
		if _, matched := Match(x, []byte(q)); matched >= len(q) {
			t.Errorf("Match(%q): matched = %d, want < %d", q, matched, len(q))
		}
	}
}

func TestMatchFullTextSuffixes(t *testing.T) {
	genome := randomGenome(rand.New(rand.NewSource(11)), 500)
	x := buildIndex(t, genome)
	for _, start := range []int{0, 17, 250, 488} {
		q := genome[start : start+12]
		iv, matched := Match(x, q)
		if matched != len(q) {
			t.Fatalf("substring at %d: matched = %d, want %d", start, matched, len(q))
		}
		found := false
		for _, p := range Positions(x, iv, 0) {
			if p == start {
				found = true
			}
		}
		if !found {
			t.Fatalf("substring at %d: interval does not contain its origin", start)
		}
	}
}

func TestFindSeedsExactRead(t *testing.T) {
	genome := randomGenome(rand.New(rand.NewSource(3)), 2000)
	x := buildIndex(t, genome)
	read := genome[100:150]

	seeds := FindSeeds(x, read, 3, 3)
	if len(seeds) != 1 {
		t.Fatalf("got %d seeds, want 1", len(seeds))
	}
	s := seeds[0]
	if s.ReadStart != 0 || s.Length != len(read) || s.Mismatches != 0 {
		t.Fatalf("seed = {start %d, len %d, mm %d}, want {0, %d, 0}",
			s.ReadStart, s.Length, s.Mismatches, len(read))
	}
	found := false
	for _, p := range s.Positions {
		if p == 100 {
			found = true
		}
	}
	if !found {
		t.Fatalf("seed positions %v do not contain 100", s.Positions)
	}
}

func TestFindSeedsRecoversSubstitution(t *testing.T) {
	genome := randomGenome(rand.New(rand.NewSource(5)), 2000)
	x := buildIndex(t, genome)

	read := append([]byte(nil), genome[400:450]...)
	orig := read[25]
	for _, c := range sequence.Alphabet() {
		if c != orig {
			read[25] = c
			break
		}
	}

	seeds := FindSeeds(x, read, 3, 3)
	if len(seeds) == 0 {
		t.Fatal("no seeds for a read with a single substitution")
	}
	s := seeds[0]
	if s.ReadStart != 0 || s.Length != len(read) {
		t.Fatalf("seed covers [%d, %d), want the whole read", s.ReadStart, s.ReadStart+s.Length)
	}
	if s.Mismatches != 1 {
		t.Fatalf("seed consumed %d mismatches, want 1", s.Mismatches)
	}
	found := false
	for _, p := range s.Positions {
		if p == 400 {
			found = true
		}
	}
	if !found {
		t.Fatalf("seed positions %v do not contain 400", s.Positions)
	}
}

func TestFindSeedsBudgetNeverExceeded(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	genome := randomGenome(r, 5000)
	x := buildIndex(t, genome)
	alpha := sequence.Alphabet()

	for trial := 0; trial < 50; trial++ {
		start := r.Intn(len(genome) - 50)
		read := append([]byte(nil), genome[start:start+50]...)
		for k := 0; k < 1+r.Intn(4); k++ {
			read[r.Intn(len(read))] = alpha[r.Intn(len(alpha))]
		}
		budget := r.Intn(4)
		total := 0
		for _, s := range FindSeeds(x, read, 4, budget) {
			if s.Mismatches > budget {
				t.Fatalf("seed consumed %d mismatches with budget %d", s.Mismatches, budget)
			}
			if s.Length <= 0 || len(s.Positions) == 0 {
				t.Fatalf("degenerate seed %+v", s)
			}
			total += s.Mismatches
		}
		if total > budget {
			t.Fatalf("seeds consumed %d mismatches in total with budget %d", total, budget)
		}
	}
}

func TestFindSeedsZeroCount(t *testing.T) {
	x := buildIndex(t, []byte("ACGTACGTACGT"))
	if seeds := FindSeeds(x, []byte("ACGT"), 0, 3); len(seeds) != 0 {
		t.Fatalf("seed count 0 yielded %d seeds", len(seeds))
	}
}

func TestFindSeedsShortRead(t *testing.T) {
	x := buildIndex(t, []byte("ACGTACGTACGT"))
	seeds := FindSeeds(x, []byte("CG"), 3, 3)
	if len(seeds) != 1 {
		t.Fatalf("got %d seeds for a trivial read, want 1", len(seeds))
	}
	if seeds[0].Length != 2 || seeds[0].Mismatches != 0 {
		t.Fatalf("trivial seed = %+v", seeds[0])
	}
}
