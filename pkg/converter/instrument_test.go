package converter

import (
	"fmt"
	"testing"

	"github.com/james-see/bank2preset/pkg/midispec"
	"github.com/james-see/bank2preset/pkg/params"
	"github.com/james-see/bank2preset/pkg/wopl"
)

func TestDeriveAlgorithm(t *testing.T) {
	tests := []struct {
		conn1, conn2 uint8
		flags        wopl.InstrumentFlags
		want         int
	}{
		{0, 0, wopl.Ins2Op, 0},
		{1, 0, wopl.Ins2Op, 1},
		{0, 1, wopl.Ins2Op, 0},
		{1, 1, wopl.Ins2Op, 1},
		// pseudo 4op means nothing without the 4op flag
		{1, 1, wopl.InsPseudo4Op, 1},
		{0, 0, wopl.Ins4Op, 2},
		{1, 0, wopl.Ins4Op, 3},
		{0, 1, wopl.Ins4Op, 4},
		{1, 1, wopl.Ins4Op, 5},
		{0, 0, wopl.Ins4Op | wopl.InsPseudo4Op, 6},
		{1, 0, wopl.Ins4Op | wopl.InsPseudo4Op, 7},
		{0, 1, wopl.Ins4Op | wopl.InsPseudo4Op, 8},
		{1, 1, wopl.Ins4Op | wopl.InsPseudo4Op, 9},
		// feedback bits are ignored
		{0x0F, 0x0E, wopl.Ins4Op, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d_%d", tt.conn1, tt.conn2, tt.flags), func(t *testing.T) {
			if got := DeriveAlgorithm(tt.conn1, tt.conn2, tt.flags); got != tt.want {
				t.Errorf("DeriveAlgorithm(%d, %d, %#x) = %d, want %d", tt.conn1, tt.conn2, tt.flags, got, tt.want)
			}
		})
	}
}

func TestSplitAlgorithmInverse(t *testing.T) {
	for alg := 0; alg < 10; alg++ {
		conn1, conn2, flags := splitAlgorithm(alg)
		if got := DeriveAlgorithm(conn1, conn2, flags); got != alg {
			t.Errorf("DeriveAlgorithm(splitAlgorithm(%d)) = %d", alg, got)
		}
	}
}

func TestOperatorRoundTrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		op := wopl.Operator{
			AVEKF:          uint8(b),
			KSLLevel:       uint8(b),
			AttackDecay:    uint8(b),
			SustainRelease: uint8(b),
			Waveform:       uint8(b & 7),
		}
		if got := EncodeOperator(DecodeOperator(op)); got != op {
			t.Fatalf("EncodeOperator(DecodeOperator(%+v)) = %+v", op, got)
		}
	}
}

func TestDecodeOperatorInversion(t *testing.T) {
	tests := []struct {
		name        string
		kslLevel    uint8
		susRel      uint8
		wantLevel   int
		wantKSL     int
		wantSustain int
		wantRelease int
	}{
		{"loudest", 0x00, 0x00, 63, 0, 15, 0},
		{"silent", 0x3F, 0xF0, 0, 0, 0, 0},
		{"ksl kept apart", 0xC0, 0x0F, 63, 3, 15, 15},
		{"mid", 0x40 | 43, 0x88, 20, 1, 7, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeOperator(wopl.Operator{KSLLevel: tt.kslLevel, SustainRelease: tt.susRel})
			if got.Level != tt.wantLevel || got.KSL != tt.wantKSL {
				t.Errorf("level/ksl = %d/%d, want %d/%d", got.Level, got.KSL, tt.wantLevel, tt.wantKSL)
			}
			if got.Sustain != tt.wantSustain || got.Release != tt.wantRelease {
				t.Errorf("sustain/release = %d/%d, want %d/%d", got.Sustain, got.Release, tt.wantSustain, tt.wantRelease)
			}
		})
	}
}

func TestDecodeOperatorFlags(t *testing.T) {
	got := DecodeOperator(wopl.Operator{AVEKF: 0xA7, Waveform: 0xFD})
	want := Operator{Fmul: 7, Am: true, Eg: true, Wave: 5, Level: 63, Sustain: 15}
	if got != want {
		t.Errorf("DecodeOperator() = %+v, want %+v", got, want)
	}
}

func TestExtractAll(t *testing.T) {
	f := fixtureFile()
	list := ExtractAll(f, "fixture")
	if len(list) != 1 {
		t.Fatalf("ExtractAll() returned %d instruments, want 1", len(list))
	}
	ins := list[0]
	if ins.Program != 0 || ins.Drum || ins.Bank != &f.Melodic[0] || ins.File != f || ins.Filename != "fixture" {
		t.Errorf("ExtractAll()[0] = %+v", ins)
	}
}

func TestExtractAllOrder(t *testing.T) {
	f := &wopl.File{
		Melodic:    []wopl.Bank{wopl.NewBlankBank("m0", 0, 0), wopl.NewBlankBank("m1", 0, 1)},
		Percussion: []wopl.Bank{wopl.NewBlankBank("p0", 0, 0)},
	}
	f.Percussion[0].Instruments[36].Flags = wopl.Ins2Op
	f.Melodic[1].Instruments[3].Flags = wopl.Ins2Op
	f.Melodic[0].Instruments[127].Flags = wopl.Ins4Op
	f.Melodic[0].Instruments[5].Flags = wopl.Ins2Op

	want := []struct {
		bank    string
		program uint8
		drum    bool
	}{
		{"m0", 5, false},
		{"m0", 127, false},
		{"m1", 3, false},
		{"p0", 36, true},
	}

	list := ExtractAll(f, "order")
	if len(list) != len(want) {
		t.Fatalf("ExtractAll() returned %d instruments, want %d", len(list), len(want))
	}
	for i, w := range want {
		got := list[i]
		if got.Bank.Name != w.bank || got.Program != w.program || got.Drum != w.drum {
			t.Errorf("ExtractAll()[%d] = %s/%d/%v, want %s/%d/%v", i, got.Bank.Name, got.Program, got.Drum, w.bank, w.program, w.drum)
		}
	}
}

func insAt(msb, lsb, program uint8, drum bool) Ins {
	b := wopl.NewBlankBank("", msb, lsb)
	b.Instruments[program].Flags = wopl.Ins2Op
	return Ins{File: &wopl.File{}, Bank: &b, Program: program, Drum: drum}
}

func repeatIns(ins Ins, n int) []Ins {
	out := make([]Ins, n)
	for i := range out {
		out[i] = ins
	}
	return out
}

func TestIdentifySpec(t *testing.T) {
	gm := insAt(0, 0, 0, false)
	gs := insAt(8, 0, 24, false)
	sc := insAt(8, 2, 1, false)
	xg := insAt(0, 1, 0, false)
	xgKit := insAt(127, 0, 36, true)
	unknown := insAt(90, 90, 0, false)

	base := midispec.GM1 | midispec.GM2

	tests := []struct {
		name string
		list []Ins
		want midispec.Mask
	}{
		{"empty", nil, base},
		{"pure gm", []Ins{gm, gm, unknown}, base},
		{"gs majority", []Ins{gs, gs, xg}, base | midispec.GS | midispec.SC},
		{"sc counts as gs", []Ins{sc, xg, sc}, base | midispec.GS | midispec.SC},
		{"xg majority", []Ins{xg, xgKit, gs}, base | midispec.XG},
		{"tie", []Ins{gs, xg, gm}, base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IdentifySpec(tt.list); got != tt.want {
				t.Errorf("IdentifySpec() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdentifySpecMonotonic(t *testing.T) {
	gs := insAt(8, 0, 24, false)
	xg := insAt(0, 1, 0, false)

	for numXG := 0; numXG < 4; numXG++ {
		list := repeatIns(xg, numXG)
		prev := IdentifySpec(list)
		for numGS := 1; numGS < 8; numGS++ {
			list = append(list, gs)
			got := IdentifySpec(list)
			if got&midispec.XG != 0 && prev&midispec.XG == 0 {
				t.Errorf("adding GS instrument %d to %d XG flipped to %v", numGS, numXG, got)
			}
			if prev&midispec.GS != 0 && got&midispec.GS == 0 {
				t.Errorf("adding GS instrument %d to %d XG lost GS: %v", numGS, numXG, got)
			}
			if numGS == numXG && got != midispec.GM1|midispec.GM2 {
				t.Errorf("tie at %d = %v, want GM1|GM2", numGS, got)
			}
			prev = got
		}
	}
}

func TestResolveName(t *testing.T) {
	named := insAt(0, 0, 0, false)
	named.Instrument().Name = "Bright Pad \t "
	nbsp := insAt(0, 0, 1, false)
	nbsp.Instrument().Name = "Piano\u00a0\r\n"

	tests := []struct {
		name string
		ins  Ins
		spec midispec.Mask
		want string
	}{
		{"stored name trimmed", named, midispec.GM1 | midispec.GM2, "Bright Pad"},
		{"no-break space kept", nbsp, midispec.GM1 | midispec.GM2, "Piano\u00a0"},
		{"gm program 0", insAt(0, 0, 0, false), midispec.GM1 | midispec.GM2, "Acoustic Grand Piano"},
		{"gm drum", insAt(0, 0, 38, true), midispec.GM1 | midispec.GM2, "Acoustic Snare"},
		{"exact ignores spec", insAt(8, 0, 24, false), midispec.GM1 | midispec.GM2, "Ukulele"},
		{"fallback to capital", insAt(0, 99, 40, false), midispec.GM1 | midispec.GM2, "Violin"},
		{"fallback xg kit", insAt(127, 5, 13, true), midispec.GM1 | midispec.GM2 | midispec.XG, "Surdo Mute"},
		{"nothing found", insAt(0, 0, 5, true), midispec.GM1 | midispec.GM2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveName(tt.ins, tt.spec); got != tt.want {
				t.Errorf("ResolveName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertFixture(t *testing.T) {
	f := fixtureFile()
	r := Convert(ExtractAll(f, "fixture")[0], midispec.GM1|midispec.GM2)

	if r.Name != "Fixture" {
		t.Errorf("Name = %q, want %q", r.Name, "Fixture")
	}

	checks := []struct {
		id   params.ID
		want int
	}{
		{params.NumChips, 2},
		{params.Algorithm, 1},
		{params.Feedback1, 3},
		{params.Feedback2, 0},
		{params.Op(0, params.Attack), 5},
		{params.Op(0, params.Decay), 6},
		{params.Op(0, params.Sustain), 7},
		{params.Op(0, params.Release), 8},
		{params.Op(0, params.Level), 20},
		{params.Op(0, params.Wave), 2},
		{params.Op(0, params.Fmul), 1},
		// voice 2 comes from the zeroed first record operator
		{params.Op(1, params.Level), 63},
		{params.Op(1, params.Sustain), 15},
		{params.Op(1, params.Attack), 0},
	}

	for _, c := range checks {
		p := params.MustLookup(c.id)
		if got := r.Values.Get(c.id); got != c.want {
			t.Errorf("%s = %d, want %d", p.Symbol, got, c.want)
		}
	}

	if err := r.Values.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConvertGlobals(t *testing.T) {
	f := fixtureFile()
	f.Flags = wopl.FlagDeepVibrato
	f.VolumeModel = wopl.VolumeApogee
	ins := &f.Melodic[0].Instruments[0]
	ins.NoteOffset1 = -12
	ins.NoteOffset2 = 300
	ins.SecondVoiceDetune = -3
	ins.VelocityOffset = 10

	r := Convert(ExtractAll(f, "globals")[0], midispec.GM1)

	checks := []struct {
		id   params.ID
		want int
	}{
		{params.DeepVibrato, 1},
		{params.DeepTremolo, 0},
		{params.VolumeModel, 3},
		{params.Transpose1, -12},
		{params.Transpose2, 128}, // clamped
		{params.FineTune2, -3},
		{params.VelOffset, 10},
	}
	for _, c := range checks {
		if got := r.Values.Get(c.id); got != c.want {
			t.Errorf("%s = %d, want %d", params.MustLookup(c.id).Symbol, got, c.want)
		}
	}

	f.VolumeModel = 9
	r = Convert(ExtractAll(f, "globals")[0], midispec.GM1)
	if got := r.Values.Get(params.VolumeModel); got != 4 {
		t.Errorf("volmodel = %d, want 4 (clamped)", got)
	}
}

func TestConvertOperatorRemap(t *testing.T) {
	f := blankFile()
	ins := &f.Melodic[0].Instruments[0]
	ins.Flags = wopl.Ins4Op
	for i := range ins.Operators {
		// record operator i carries multiplier i+1
		ins.Operators[i].AVEKF = uint8(i + 1)
	}

	r := Convert(ExtractAll(f, "remap")[0], midispec.GM1)

	want := [4]int{2, 1, 4, 3}
	for voice, fmul := range want {
		if got := r.Values.Get(params.Op(voice, params.Fmul)); got != fmul {
			t.Errorf("voice %d fmul = %d, want %d", voice+1, got, fmul)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	f := blankFile()
	f.Flags = wopl.FlagDeepTremolo
	f.VolumeModel = wopl.VolumeWin9x
	rec := wopl.Instrument{
		NoteOffset1:       -24,
		NoteOffset2:       12,
		VelocityOffset:    -7,
		SecondVoiceDetune: 5,
		Flags:             wopl.Ins4Op | wopl.InsPseudo4Op,
		FbConn1:           5<<1 | 1,
		FbConn2:           2<<1 | 0,
		Operators: [4]wopl.Operator{
			{AVEKF: 0x21, KSLLevel: 0x8F, AttackDecay: 0xF2, SustainRelease: 0x35, Waveform: 1},
			{AVEKF: 0xE1, KSLLevel: 0x00, AttackDecay: 0x56, SustainRelease: 0x88, Waveform: 2},
			{AVEKF: 0x01, KSLLevel: 0x3F, AttackDecay: 0x11, SustainRelease: 0x22, Waveform: 7},
			{AVEKF: 0x10, KSLLevel: 0x40, AttackDecay: 0x99, SustainRelease: 0xFF, Waveform: 0},
		},
	}
	f.Melodic[0].Instruments[0] = rec

	r := Convert(ExtractAll(f, "encode")[0], midispec.GM1)
	got := Encode(&r.Values)

	if got != rec {
		t.Errorf("Encode() = %+v, want %+v", got, rec)
	}

	flags, vm := EncodeGlobals(&r.Values)
	if flags != f.Flags || vm != f.VolumeModel {
		t.Errorf("EncodeGlobals() = %#x/%d, want %#x/%d", flags, vm, f.Flags, f.VolumeModel)
	}
}
