// Package params defines the parameter set of the MiniOPL3 synthesizer.
//
// Indices and symbols are persisted by hosts and preset files, so the order
// below must never change.
package params

import (
	"errors"
	"fmt"
)

// ID is the index of a parameter in the schema
type ID int

// Global and voice parameters
const (
	NumChips ID = iota
	DeepVibrato
	DeepTremolo
	VolumeModel
	Algorithm
	Feedback1
	Feedback2
	Transpose1
	Transpose2
	FineTune2
	VelOffset

	// Op1Attack is the first per-operator parameter; see Op.
	Op1Attack
)

// OpField selects one of the per-operator parameters
type OpField int

// Per-operator fields, in schema order
const (
	Attack OpField = iota
	Decay
	Sustain
	Release
	Wave
	Fmul
	Level
	KSL
	Vib
	Am
	Eg
	KSR

	opFieldCount
)

// Operators is the number of operators of a voice
const Operators = 4

// OpStride is the distance between the same field of two operators
const OpStride = int(opFieldCount)

// Count is the total number of parameters
const Count = int(Op1Attack) + Operators*OpStride

// ErrOutOfRange is returned for an index outside [0, Count)
var ErrOutOfRange = errors.New("parameter index out of range")

// Op returns the parameter ID of field f of operator op (0-based)
func Op(op int, f OpField) ID {
	return Op1Attack + ID(op*OpStride) + ID(f)
}

// EnumValue is one label of a closed enumeration
type EnumValue struct {
	Value int    `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Parameter describes one synthesizer parameter
type Parameter struct {
	ID          ID          `json:"index" yaml:"index"`
	Name        string      `json:"name" yaml:"name"`
	Symbol      string      `json:"symbol" yaml:"symbol"`
	Default     int         `json:"default" yaml:"default"`
	Min         int         `json:"min" yaml:"min"`
	Max         int         `json:"max" yaml:"max"`
	Boolean     bool        `json:"boolean,omitempty" yaml:"boolean,omitempty"`
	Automatable bool        `json:"automatable" yaml:"automatable"`
	Enum        []EnumValue `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// Clamp limits v to the range of the parameter
func (p Parameter) Clamp(v int) int {
	if v < p.Min {
		return p.Min
	}
	if v > p.Max {
		return p.Max
	}
	return v
}

// Label returns the enumeration label of v, if any
func (p Parameter) Label(v int) (string, bool) {
	for _, e := range p.Enum {
		if e.Value == v {
			return e.Label, true
		}
	}
	return "", false
}

var (
	volumeModels = []EnumValue{
		{0, "Generic"},
		{1, "Creative CMF"},
		{2, "Doom DMX"},
		{3, "Apogee Sound System"},
		{4, "Windows 9x"},
	}

	algorithms = []EnumValue{
		{0, "2op [1 + 2]"},
		{1, "2op [1 mod 2]"},
		{2, "4op [1 mod 2 mod 3 mod 4]"},
		{3, "4op [1 + [2 mod 3 mod 4]]"},
		{4, "4op [1 mod 2] + [3 mod 4]"},
		{5, "4op [1 + [2 mod 3] + 4]"},
		{6, "2x2op [1 + 2] + [3 + 4]"},
		{7, "2x2op [1 mod 2] + [3 + 4]"},
		{8, "2x2op [1 + 2] + [3 mod 4]"},
		{9, "2x2op [1 mod 2] + [3 mod 4]"},
	}

	waveforms = []EnumValue{
		{0, "Sine"},
		{1, "Half sine"},
		{2, "Absolute sine"},
		{3, "Pulse sine"},
		{4, "Alternating sine"},
		{5, "Camel sine"},
		{6, "Square"},
		{7, "Logarithmic sawtooth"},
	}
)

var schema = buildSchema()

func buildSchema() [Count]Parameter {
	var s [Count]Parameter

	set := func(id ID, name, symbol string, def, min, max int) *Parameter {
		s[id] = Parameter{ID: id, Name: name, Symbol: symbol, Default: def, Min: min, Max: max, Automatable: true}
		return &s[id]
	}
	flag := func(id ID, name, symbol string) {
		set(id, name, symbol, 0, 0, 1).Boolean = true
	}

	// the chip count is not automatable, changing it resets the player
	set(NumChips, "Number of chips", "numchips", 2, 1, 8).Automatable = false
	flag(DeepVibrato, "Deep vibrato", "deepvibrato")
	flag(DeepTremolo, "Deep tremolo", "deeptremolo")
	set(VolumeModel, "Volume model", "volmodel", 0, 0, 4).Enum = volumeModels
	set(Algorithm, "Algorithm", "algorithm", 0, 0, 9).Enum = algorithms
	set(Feedback1, "Feedback 1-2", "feedback1", 0, 0, 7)
	set(Feedback2, "Feedback 3-4 (4op, 2x2op)", "feedback2", 0, 0, 7)
	set(Transpose1, "Transpose 1-2", "transpose1", 0, -127, 128)
	set(Transpose2, "Transpose 3-4 (2x2op)", "transpose2", 0, -127, 128)
	set(FineTune2, "Fine tune 3-4 (2x2op)", "finetune2", 0, -127, 128)
	set(VelOffset, "Velocity offset", "veloffset", 0, -127, 128)

	for op := 0; op < Operators; op++ {
		n := op + 1
		name := func(what string) string { return fmt.Sprintf("Operator %d %s", n, what) }
		sym := func(what string) string { return fmt.Sprintf("op%d%s", n, what) }

		set(Op(op, Attack), name("attack"), sym("attack"), 0, 0, 15)
		set(Op(op, Decay), name("decay"), sym("decay"), 0, 0, 15)
		set(Op(op, Sustain), name("sustain"), sym("sustain"), 0, 0, 15)
		set(Op(op, Release), name("release"), sym("release"), 0, 0, 15)
		set(Op(op, Wave), name("waveform"), sym("wave"), 0, 0, 7).Enum = waveforms
		set(Op(op, Fmul), name("frequency multipler"), sym("fmul"), 0, 0, 15)
		set(Op(op, Level), name("level"), sym("level"), 0, 0, 63)
		set(Op(op, KSL), name("key scale level"), sym("ksl"), 0, 0, 3)
		flag(Op(op, Vib), name("vibrato"), sym("vib"))
		flag(Op(op, Am), name("tremolo"), sym("am"))
		flag(Op(op, Eg), name("sustained"), sym("eg"))
		flag(Op(op, KSR), name("key-scaled"), sym("ksr"))
	}

	return s
}

// Lookup returns the parameter at index
func Lookup(index int) (Parameter, error) {
	if index < 0 || index >= Count {
		return Parameter{}, fmt.Errorf("%w: %d (count %d)", ErrOutOfRange, index, Count)
	}
	return schema[index], nil
}

// MustLookup is Lookup for indices known to be valid
func MustLookup(id ID) Parameter {
	p, err := Lookup(int(id))
	if err != nil {
		panic(err)
	}
	return p
}

// All returns the whole schema in index order
func All() []Parameter {
	out := make([]Parameter, Count)
	copy(out, schema[:])
	return out
}

// BySymbol finds a parameter by its persisted symbol
func BySymbol(symbol string) (Parameter, bool) {
	for _, p := range schema {
		if p.Symbol == symbol {
			return p, true
		}
	}
	return Parameter{}, false
}
