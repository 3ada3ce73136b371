package orf

import (
	"fmt"

	"orfmark/core/seq"
)

// Settings controls one search. Zero MaxLength and MaxResults mean unset;
// the zero Region means the whole sequence.
type Settings struct {
	Strand    seq.StrandSelection
	MinLength int
	MaxLength int

	RequireInitCodon bool
	// RequireStopCodon drops ORFs that run off the end of the region
	// ("must terminate within region").
	RequireStopCodon bool
	AllowAltInit     bool
	AllowOverlaps    bool
	IncludeStop      bool

	MaxResults int
	Region     seq.Region
}

// DefaultSettings searches both strands for initiator-led ORFs of at least
// 100 nt, stop codon included.
func DefaultSettings() Settings {
	return Settings{
		Strand:           seq.SelectBoth,
		MinLength:        100,
		RequireInitCodon: true,
		IncludeStop:      true,
	}
}

// Validate checks the settings that do not depend on the sequence.
func (s Settings) Validate() error {
	if s.MinLength <= 0 {
		return &ConfigError{Field: "min-length", Reason: fmt.Sprintf("must be greater than zero (got %d)", s.MinLength)}
	}
	if s.MaxLength < 0 {
		return &ConfigError{Field: "max-length", Reason: fmt.Sprintf("cannot be negative (got %d)", s.MaxLength)}
	}
	if s.MaxLength > 0 && s.MaxLength < s.MinLength {
		return &ConfigError{Field: "max-length", Reason: fmt.Sprintf("%d is smaller than min-length %d", s.MaxLength, s.MinLength)}
	}
	if len(s.Strand.Strands()) == 0 {
		return &ConfigError{Field: "strand", Reason: "empty strand selection"}
	}
	if s.MaxResults < 0 {
		return &ConfigError{Field: "max-results", Reason: fmt.Sprintf("cannot be negative (got %d)", s.MaxResults)}
	}
	return nil
}
