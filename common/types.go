package common

// Exon is a half-open [Start, End) interval in genome coordinates.
type Exon struct {
	ID    string
	Start int
	End   int
}

// Len returns the number of bases covered by the exon.
func (e Exon) Len() int {
	return e.End - e.Start
}

// Isoform is an ordered list of exons in transcription order. Exon
// coordinates need not be genomically sorted, but each must satisfy
// End > Start.
type Isoform struct {
	ID    string
	Exons []Exon
}

// SplicedLen returns the length of the isoform's spliced mRNA sequence.
func (iso Isoform) SplicedLen() int {
	total := 0
	for _, e := range iso.Exons {
		total += e.Len()
	}
	return total
}

// Gene groups the isoforms annotated for one locus.
type Gene struct {
	ID       string
	Isoforms []Isoform
}

// Seed is a candidate near-exact match of a run of read bases against the
// indexed text. Positions is the materialized suffix-array interval (genome
// start positions of the run), Suffix the possibly mutated query tail that
// produced the match.
type Seed struct {
	Positions  []int
	ReadStart  int
	Length     int
	Mismatches int
	Suffix     []byte
}

// AlignmentPiece maps read bases [ReadStart, ReadStart+Length) onto genome
// bases [RefStart, RefStart+Length).
type AlignmentPiece struct {
	ReadStart int
	RefStart  int
	Length    int
}

// Alignment is an ordered sequence of pieces sorted by ReadStart. For
// consecutive pieces i, i+1 the invariant
// ReadStart[i+1] >= ReadStart[i]+Length[i] must hold.
type Alignment []AlignmentPiece

// ReadSpan returns the total number of read bases covered by the alignment.
func (a Alignment) ReadSpan() int {
	total := 0
	for _, p := range a {
		total += p.Length
	}
	return total
}

// Consistent reports whether the pieces are sorted by ReadStart and
// non-overlapping on the read.
func (a Alignment) Consistent() bool {
	for i := 1; i < len(a); i++ {
		if a[i].ReadStart < a[i-1].ReadStart+a[i-1].Length {
			return false
		}
	}
	return true
}

// Placement pins one seed occurrence to concrete read and genome
// coordinates. Score is the chaining weight of including the placement.
type Placement struct {
	ReadStart  int
	RefStart   int
	Length     int
	Mismatches int
	Score      float64
}

// Edge for the chaining graph.
type Edge struct {
	To     int
	Weight float64
}
