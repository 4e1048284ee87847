// Package midispec maps MIDI bank and program numbers to instrument names
// for the General MIDI, Roland GS/SC and Yamaha XG conventions.
package midispec

import "strings"

// Mask is a set of MIDI specifications
type Mask uint8

// Specification bits
const (
	GM1 Mask = 1 << iota
	GM2
	GS
	SC
	XG

	MaskAny = GM1 | GM2 | GS | SC | XG
)

var maskNames = []struct {
	bit  Mask
	name string
}{
	{GM1, "GM1"},
	{GM2, "GM2"},
	{GS, "GS"},
	{SC, "SC"},
	{XG, "XG"},
}

// String lists the bits of m joined by "|"
func (m Mask) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, n := range maskNames {
		if m&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Intersects reports whether m and other share a bit
func (m Mask) Intersects(other Mask) bool {
	return m&other != 0
}

// ProgramID addresses a program the way a MIDI channel selects it.
// For drums, Program is the key and BankLSB the kit program.
type ProgramID struct {
	Drum    bool
	BankMSB uint8
	BankLSB uint8
	Program uint8
}

// Program is a catalog entry
type Program struct {
	Spec    Mask
	Drum    bool
	BankMSB uint8
	BankLSB uint8
	Program uint8
	Name    string
}

// ID returns the identity of the entry
func (p Program) ID() ProgramID {
	return ProgramID{Drum: p.Drum, BankMSB: p.BankMSB, BankLSB: p.BankLSB, Program: p.Program}
}

// Bank is a catalog bank; Spec tells which specification defines it
type Bank struct {
	Spec    Mask
	Drum    bool
	BankMSB uint8
	BankLSB uint8
	Name    string
}

// LookupExact returns the first entry matching every field of id whose
// specification intersects mask
func LookupExact(id ProgramID, mask Mask) (Program, bool) {
	for _, p := range catalog.programs {
		if p.Spec.Intersects(mask) && p.ID() == id {
			return p, true
		}
	}
	return Program{}, false
}

// LookupBank returns the first bank addressed by id whose specification
// intersects mask
func LookupBank(id ProgramID, mask Mask) (Bank, bool) {
	for _, b := range catalog.banks {
		if b.Spec.Intersects(mask) && b.Drum == id.Drum && b.BankMSB == id.BankMSB && b.BankLSB == id.BankLSB {
			return b, true
		}
	}
	return Bank{}, false
}

// LookupFallback finds a substitute for an identity with no exact entry.
// The bank is relaxed step by step: same MSB, the GS sub-capital
// (MSB rounded down to a multiple of 8), the capital tone, then any bank.
// Within a step the first registered entry wins.
func LookupFallback(id ProgramID, mask Mask) (Program, bool) {
	candidates := []struct{ msb, lsb uint8 }{
		{id.BankMSB, 0},
		{id.BankMSB &^ 7, 0},
		{0, 0},
	}
	for _, c := range candidates {
		try := ProgramID{Drum: id.Drum, BankMSB: c.msb, BankLSB: c.lsb, Program: id.Program}
		if p, ok := LookupExact(try, mask); ok {
			return p, true
		}
	}
	for _, p := range catalog.programs {
		if p.Spec.Intersects(mask) && p.Drum == id.Drum && p.Program == id.Program {
			return p, true
		}
	}
	return Program{}, false
}

// Programs returns every registered entry in registration order
func Programs() []Program {
	out := make([]Program, len(catalog.programs))
	copy(out, catalog.programs)
	return out
}

// Banks returns every registered bank in registration order
func Banks() []Bank {
	out := make([]Bank, len(catalog.banks))
	copy(out, catalog.banks)
	return out
}
