// Package numerator provides domain contracts for document auto-numbering.
package numerator

// Strategy selects how numbers are allocated.
type Strategy int

const (
	// StrategyStrict takes every number with UPDATE ... RETURNING.
	// Gap-free but serializes on the counter row.
	StrategyStrict Strategy = iota

	// StrategyCached reserves a range in memory and hands numbers out
	// locally. Faster under load; a restart abandons the unused tail of
	// the range, so numbers may have gaps. Fine for orders.
	StrategyCached
)

// Options tune a single generation call.
type Options struct {
	Strategy Strategy
	// RangeSize is how many numbers a cached reservation takes at once.
	// Zero means 50.
	RangeSize int64
}

// DefaultOptions returns the strict strategy.
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Config describes one number sequence, e.g. ORD-2026-00042.
type Config struct {
	// Prefix identifies the sequence ("ORD" for orders, "BR" for brand codes).
	Prefix string

	// IncludeYear puts the period year between prefix and counter.
	IncludeYear bool

	// PadWidth is the minimum counter width (default 5).
	PadWidth int

	// ResetPeriod: "year", "month", "never".
	ResetPeriod string
}

// DefaultConfig returns a yearly-reset sequence with the given prefix.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}
