package config

// Splice junction bounds. A genomic gap between two consecutive alignment
// pieces must be zero (contiguous) or fall inside [MinIntronSize,
// MaxIntronSize] to count as a plausible intron.
const (
	MinIntronSize = 20
	MaxIntronSize = 10000
)

// Seed search parameters.
const (
	DefaultSeedCount      = 3
	DefaultMismatchBudget = 3
	SeedBeamWidth         = 8
	MaxSeedOccurrences    = 128
)

// Transcriptome scan parameters.
const (
	MaxReadMismatch = 3
)

// Chaining parameters.
const (
	MismatchPenalty = 2.0
)

// Batch alignment parameters.
const (
	DefaultWorkers = 8
)

// Suffix array construction. Texts at or below NaiveBuildMaxLen may use the
// parallel comparison-sort builder; longer texts should use induced sorting.
const (
	NaiveBuildMaxLen = 1 << 16
)
