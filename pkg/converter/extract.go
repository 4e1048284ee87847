package converter

import (
	"path/filepath"
	"strings"

	"github.com/james-see/bank2preset/pkg/midispec"
	"github.com/james-see/bank2preset/pkg/wopl"
)

// ExtractAll lists the non-blank instruments of a bank file: melodic
// banks before percussion banks, banks in file order, slots ascending
func ExtractAll(file *wopl.File, sourceName string) []Ins {
	out := make([]Ins, 0, wopl.ProgramsCount*(len(file.Melodic)+len(file.Percussion)))
	out = appendBanks(out, file, file.Melodic, false, sourceName)
	out = appendBanks(out, file, file.Percussion, true, sourceName)
	return out
}

func appendBanks(out []Ins, file *wopl.File, banks []wopl.Bank, drum bool, sourceName string) []Ins {
	for b := range banks {
		bank := &banks[b]
		for p := range bank.Instruments {
			if bank.Instruments[p].IsBlank() {
				continue
			}
			out = append(out, Ins{
				File:     file,
				Bank:     bank,
				Program:  uint8(p),
				Drum:     drum,
				Filename: sourceName,
			})
		}
	}
	return out
}

// SourceName is the label a bank file is known by: its base name without
// a lowercase .wopl extension
func SourceName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".wopl")
}

// IdentifySpec guesses the MIDI dialect of a batch by counting the banks
// that only GS/SC or only XG define. A tie resolves to plain General MIDI.
func IdentifySpec(list []Ins) midispec.Mask {
	var numGS, numXG int
	for _, ins := range list {
		bank, ok := midispec.LookupBank(ins.ID(), midispec.MaskAny)
		if !ok {
			continue
		}
		switch bank.Spec {
		case midispec.GS, midispec.SC:
			numGS++
		case midispec.XG:
			numXG++
		}
	}

	spec := midispec.GM1 | midispec.GM2
	switch {
	case numGS > numXG:
		spec |= midispec.GS | midispec.SC
	case numXG > numGS:
		spec |= midispec.XG
	}
	return spec
}
