package transcriptome

import (
	"math/rand"
	"testing"

	"github.com/nadernamini/rna-seq-read-algn/common"
	"github.com/nadernamini/rna-seq-read-algn/sequence"
)

func randomGenome(r *rand.Rand, n int) []byte {
	alpha := sequence.Alphabet()
	seq := make([]byte, n)
	for i := range seq {
		seq[i] = alpha[r.Intn(len(alpha))]
	}
	return seq
}

func twoExonGene(t *testing.T, genome []byte) []common.Gene {
	t.Helper()
	return []common.Gene{{
		ID: "gene1",
		Isoforms: []common.Isoform{{
			ID: "iso1",
			Exons: []common.Exon{
				{ID: "e1", Start: 10, End: 30},
				{ID: "e2", Start: 130, End: 150},
			},
		}},
	}}
}

func TestBuildSplicesExons(t *testing.T) {
	genome := randomGenome(rand.New(rand.NewSource(21)), 200)
	tr, err := Build(twoExonGene(t, genome), genome)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tr.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(tr.Entries))
	}
	genes := twoExonGene(t, genome)
	e := tr.Entries[0]
	if want := genes[0].Isoforms[0].SplicedLen(); len(e.Seq) != want || want != 40 {
		t.Fatalf("spliced length %d, want %d", len(e.Seq), want)
	}
	if string(e.Seq[:20]) != string(genome[10:30]) || string(e.Seq[20:]) != string(genome[130:150]) {
		t.Fatal("spliced sequence is not the exon concatenation")
	}
}

func TestBuildRejectsInvalidExon(t *testing.T) {
	genome := randomGenome(rand.New(rand.NewSource(22)), 50)
	genes := []common.Gene{{
		ID: "g",
		Isoforms: []common.Isoform{{
			ID:    "i",
			Exons: []common.Exon{{ID: "e", Start: 40, End: 80}},
		}},
	}}
	if _, err := Build(genes, genome); err == nil {
		t.Fatal("Build accepted an exon beyond the genome end")
	}
}

func TestAlignVerbatimRead(t *testing.T) {
	r := rand.New(rand.NewSource(23))
	genome := randomGenome(r, 200)
	tr, err := Build(twoExonGene(t, genome), genome)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	spliced := tr.Entries[0].Seq
	for _, offset := range []int{0, 7, 19, 25} {
		read := spliced[offset : offset+15]
		res, ok := tr.Align(read)
		if !ok {
			t.Fatalf("offset %d: no match for a verbatim read", offset)
		}
		if res.Mismatches != 0 {
			t.Fatalf("offset %d: %d mismatches, want 0", offset, res.Mismatches)
		}
		if res.Pieces.ReadSpan() != len(read) {
			t.Fatalf("offset %d: piece lengths sum to %d, want %d",
				offset, res.Pieces.ReadSpan(), len(read))
		}
		if !res.Pieces.Consistent() {
			t.Fatalf("offset %d: inconsistent pieces %v", offset, res.Pieces)
		}
	}
}

func TestAlignSpansJunction(t *testing.T) {
	genome := randomGenome(rand.New(rand.NewSource(24)), 200)
	tr, err := Build(twoExonGene(t, genome), genome)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Spliced offsets [12, 32) straddle the exon junction at offset 20.
	read := tr.Entries[0].Seq[12:32]
	res, ok := tr.Align(read)
	if !ok {
		t.Fatal("no match for a junction-spanning read")
	}
	if len(res.Pieces) != 2 {
		t.Fatalf("got %d pieces, want 2: %v", len(res.Pieces), res.Pieces)
	}
	first, second := res.Pieces[0], res.Pieces[1]
	if first.Length+second.Length != len(read) {
		t.Fatalf("piece lengths %d+%d, want sum %d", first.Length, second.Length, len(read))
	}
	if second.RefStart != 130 {
		t.Fatalf("second piece starts at %d, want the exon-2 start 130", second.RefStart)
	}
	if first.RefStart != 22 || first.Length != 8 {
		t.Fatalf("first piece = %+v, want {0 22 8}", first)
	}
}

func TestAlignNoMatch(t *testing.T) {
	genome := randomGenome(rand.New(rand.NewSource(25)), 200)
	tr, err := Build(twoExonGene(t, genome), genome)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Complementing every base guarantees a mismatch at every offset of a
	// 20-base window, far beyond the ceiling.
	read := make([]byte, 20)
	for i, b := range tr.Entries[0].Seq[:20] {
		switch b {
		case 'A':
			read[i] = 'C'
		case 'C':
			read[i] = 'A'
		case 'G':
			read[i] = 'T'
		case 'T':
			read[i] = 'G'
		}
	}
	if _, ok := tr.Align(read); ok {
		t.Fatal("Align matched a read it should have rejected")
	}
}

func TestAlignTieBreakDeterministic(t *testing.T) {
	genome := randomGenome(rand.New(rand.NewSource(26)), 100)
	// Two isoforms with identical spliced sequences, the later-listed one
	// having the lexicographically smaller identifier.
	genes := []common.Gene{{
		ID: "gene1",
		Isoforms: []common.Isoform{
			{ID: "isoB", Exons: []common.Exon{{ID: "e", Start: 20, End: 60}}},
			{ID: "isoA", Exons: []common.Exon{{ID: "e", Start: 20, End: 60}}},
		},
	}}
	tr, err := Build(genes, genome)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res, ok := tr.Align(genome[25:55])
	if !ok {
		t.Fatal("no match")
	}
	if res.IsoformID != "isoA" {
		t.Fatalf("tie broken toward %s, want isoA", res.IsoformID)
	}
}
