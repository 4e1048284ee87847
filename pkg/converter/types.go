// Package converter turns WOPL instrument banks into MiniOPL3 presets
package converter

import (
	"github.com/james-see/bank2preset/pkg/midispec"
	"github.com/james-see/bank2preset/pkg/params"
	"github.com/james-see/bank2preset/pkg/wopl"
)

// Ins references one non-blank instrument slot of a parsed bank file.
// It borrows from the parse tree, which must outlive it.
type Ins struct {
	File     *wopl.File
	Bank     *wopl.Bank
	Program  uint8 // slot number; the key for percussion banks
	Drum     bool
	Filename string // provenance, used as the preset bank label
}

// Instrument returns the record the reference points to
func (i Ins) Instrument() *wopl.Instrument {
	return &i.Bank.Instruments[i.Program]
}

// ID returns the MIDI program identity that addresses the slot
func (i Ins) ID() midispec.ProgramID {
	return midispec.ProgramID{
		Drum:    i.Drum,
		BankMSB: i.Bank.MSB,
		BankLSB: i.Bank.LSB,
		Program: i.Program,
	}
}

// Operator is the decoded form of one FM operator
type Operator struct {
	Attack  int  `json:"attack" yaml:"attack"`
	Decay   int  `json:"decay" yaml:"decay"`
	Sustain int  `json:"sustain" yaml:"sustain"`
	Release int  `json:"release" yaml:"release"`
	Wave    int  `json:"wave" yaml:"wave"`
	Fmul    int  `json:"fmul" yaml:"fmul"`
	Level   int  `json:"level" yaml:"level"`
	KSL     int  `json:"ksl" yaml:"ksl"`
	Vib     bool `json:"vib" yaml:"vib"`
	Am      bool `json:"am" yaml:"am"`
	Eg      bool `json:"eg" yaml:"eg"`
	KSR     bool `json:"ksr" yaml:"ksr"`
}

// Result is one converted instrument
type Result struct {
	Index  int
	Ins    Ins
	Name   string
	Values params.Vector
}

// NamedBank is a parsed bank file with the name it was loaded under
type NamedBank struct {
	Name string
	File *wopl.File
}

// Summary is the serializable form of a Result
type Summary struct {
	Index     int        `json:"index" yaml:"index"`
	File      string     `json:"file" yaml:"file"`
	Bank      string     `json:"bank" yaml:"bank"`
	BankMSB   uint8      `json:"bank_msb" yaml:"bank_msb"`
	BankLSB   uint8      `json:"bank_lsb" yaml:"bank_lsb"`
	Program   uint8      `json:"program" yaml:"program"`
	Drum      bool       `json:"drum" yaml:"drum"`
	Name      string     `json:"name" yaml:"name"`
	Algorithm string     `json:"algorithm" yaml:"algorithm"`
	Operators []Operator `json:"operators" yaml:"operators"`
	Packed    Packed     `json:"packed" yaml:"packed"`
	Values    []int      `json:"values" yaml:"values,flow"`
}

// Packed is the register image the synthesizer loads for a vector.
// Operators are in record order, five bytes each.
type Packed struct {
	Flags     uint8     `json:"flags" yaml:"flags"`
	FbConn1   uint8     `json:"fb_conn1" yaml:"fb_conn1"`
	FbConn2   uint8     `json:"fb_conn2" yaml:"fb_conn2"`
	Operators [][]uint8 `json:"operators" yaml:"operators,flow"`
}

// Pack re-encodes v the way the synthesizer does
func Pack(v *params.Vector) Packed {
	ins := Encode(v)
	p := Packed{
		Flags:     uint8(ins.Flags),
		FbConn1:   ins.FbConn1,
		FbConn2:   ins.FbConn2,
		Operators: make([][]uint8, len(ins.Operators)),
	}
	for i, op := range ins.Operators {
		p.Operators[i] = []uint8{op.AVEKF, op.KSLLevel, op.AttackDecay, op.SustainRelease, op.Waveform}
	}
	return p
}

// Summarize describes a result with its decoded voice operators
func Summarize(r Result) Summary {
	alg, _ := params.MustLookup(params.Algorithm).Label(r.Values.Get(params.Algorithm))
	id := r.Ins.ID()
	ops := make([]Operator, params.Operators)
	for voice := range ops {
		ops[voice] = VoiceOperator(&r.Values, voice)
	}
	return Summary{
		Index:     r.Index,
		File:      r.Ins.Filename,
		Bank:      r.Ins.Bank.Name,
		BankMSB:   id.BankMSB,
		BankLSB:   id.BankLSB,
		Program:   id.Program,
		Drum:      id.Drum,
		Name:      r.Name,
		Algorithm: alg,
		Operators: ops,
		Packed:    Pack(&r.Values),
		Values:    r.Values.Values(),
	}
}
