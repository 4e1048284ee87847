package converter

import (
	"strings"

	"github.com/james-see/bank2preset/pkg/midispec"
	"github.com/james-see/bank2preset/pkg/params"
	"github.com/james-see/bank2preset/pkg/wopl"
)

// voiceOperators maps synthesizer voice slots 1-4 to record operators.
// The record stores carrier before modulator in each pair.
var voiceOperators = [params.Operators]int{1, 0, 3, 2}

// DeriveAlgorithm computes the algorithm parameter from the connection
// bits and the voice topology flags
func DeriveAlgorithm(fbConn1, fbConn2 uint8, flags wopl.InstrumentFlags) int {
	alg := int(fbConn1 & 1)
	if flags&wopl.Ins4Op == 0 {
		return alg
	}
	alg |= int(fbConn2&1) << 1
	alg += 2
	if flags&wopl.InsPseudo4Op != 0 {
		alg += 4
	}
	return alg
}

// splitAlgorithm is the inverse of DeriveAlgorithm
func splitAlgorithm(alg int) (conn1, conn2 uint8, flags wopl.InstrumentFlags) {
	if alg < 2 {
		return uint8(alg & 1), 0, wopl.Ins2Op
	}
	alg4 := alg - 2
	flags = wopl.Ins4Op
	if alg4 >= 4 {
		flags |= wopl.InsPseudo4Op
	}
	return uint8(alg4 & 1), uint8(alg4>>1) & 1, flags
}

// DecodeOperator unpacks the register image of an operator. Level and
// sustain are stored inverted.
func DecodeOperator(op wopl.Operator) Operator {
	return Operator{
		Attack:  int(op.AttackDecay >> 4),
		Decay:   int(op.AttackDecay & 15),
		Sustain: 15 - int(op.SustainRelease>>4),
		Release: int(op.SustainRelease & 15),
		Wave:    int(op.Waveform & 7),
		Fmul:    int(op.AVEKF & 15),
		Level:   63 - int(op.KSLLevel&63),
		KSL:     int(op.KSLLevel >> 6),
		Vib:     op.AVEKF>>6&1 != 0,
		Am:      op.AVEKF>>7&1 != 0,
		Eg:      op.AVEKF>>5&1 != 0,
		KSR:     op.AVEKF>>4&1 != 0,
	}
}

// EncodeOperator packs a decoded operator back into register form
func EncodeOperator(o Operator) wopl.Operator {
	return wopl.Operator{
		AVEKF:          bit(o.Am)<<7 | bit(o.Vib)<<6 | bit(o.Eg)<<5 | bit(o.KSR)<<4 | uint8(o.Fmul&15),
		KSLLevel:       uint8(o.KSL&3)<<6 | uint8(63-(o.Level&63)),
		AttackDecay:    uint8(o.Attack&15)<<4 | uint8(o.Decay&15),
		SustainRelease: uint8(15-(o.Sustain&15))<<4 | uint8(o.Release&15),
		Waveform:       uint8(o.Wave & 7),
	}
}

func bit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Convert maps one instrument onto the synthesizer's parameter vector.
// spec is the dialect resolved for the whole batch; it only affects the
// name given to instruments stored without one.
func Convert(ins Ins, spec midispec.Mask) Result {
	rec := ins.Instrument()
	v := params.Defaults()

	v.Set(params.Algorithm, DeriveAlgorithm(rec.FbConn1, rec.FbConn2, rec.Flags))
	v.Set(params.Feedback1, int(rec.FbConn1>>1))
	v.Set(params.Feedback2, int(rec.FbConn2>>1))
	v.Set(params.Transpose1, int(rec.NoteOffset1))
	v.Set(params.Transpose2, int(rec.NoteOffset2))
	v.Set(params.FineTune2, int(rec.SecondVoiceDetune))
	v.Set(params.VelOffset, int(rec.VelocityOffset))

	for voice, recOp := range voiceOperators {
		setOperator(&v, voice, DecodeOperator(rec.Operators[recOp]))
	}

	v.SetBool(params.DeepVibrato, ins.File.Flags&wopl.FlagDeepVibrato != 0)
	v.SetBool(params.DeepTremolo, ins.File.Flags&wopl.FlagDeepTremolo != 0)
	v.Set(params.VolumeModel, int(ins.File.VolumeModel))

	return Result{Ins: ins, Name: ResolveName(ins, spec), Values: v}
}

func setOperator(v *params.Vector, voice int, o Operator) {
	v.Set(params.Op(voice, params.Attack), o.Attack)
	v.Set(params.Op(voice, params.Decay), o.Decay)
	v.Set(params.Op(voice, params.Sustain), o.Sustain)
	v.Set(params.Op(voice, params.Release), o.Release)
	v.Set(params.Op(voice, params.Wave), o.Wave)
	v.Set(params.Op(voice, params.Fmul), o.Fmul)
	v.Set(params.Op(voice, params.Level), o.Level)
	v.Set(params.Op(voice, params.KSL), o.KSL)
	v.SetBool(params.Op(voice, params.Vib), o.Vib)
	v.SetBool(params.Op(voice, params.Am), o.Am)
	v.SetBool(params.Op(voice, params.Eg), o.Eg)
	v.SetBool(params.Op(voice, params.KSR), o.KSR)
}

// VoiceOperator reads the decoded operator of a voice slot (0-based) out
// of a vector
func VoiceOperator(v *params.Vector, voice int) Operator {
	get := func(f params.OpField) int { return v.Get(params.Op(voice, f)) }
	return Operator{
		Attack:  get(params.Attack),
		Decay:   get(params.Decay),
		Sustain: get(params.Sustain),
		Release: get(params.Release),
		Wave:    get(params.Wave),
		Fmul:    get(params.Fmul),
		Level:   get(params.Level),
		KSL:     get(params.KSL),
		Vib:     get(params.Vib) != 0,
		Am:      get(params.Am) != 0,
		Eg:      get(params.Eg) != 0,
		KSR:     get(params.KSR) != 0,
	}
}

// asciiSpace is the C locale white space set; decoded characters such as
// U+00A0 are part of the name
const asciiSpace = " \t\n\v\f\r"

// ResolveName returns the stored name without trailing space. Unnamed
// instruments take the catalog name of their MIDI identity: an exact
// match in any dialect, else the closest entry of spec.
func ResolveName(ins Ins, spec midispec.Mask) string {
	name := strings.TrimRight(ins.Instrument().Name, asciiSpace)
	if name != "" {
		return name
	}

	id := ins.ID()
	if p, ok := midispec.LookupExact(id, midispec.MaskAny); ok {
		return p.Name
	}
	if p, ok := midispec.LookupFallback(id, spec); ok {
		return p.Name
	}
	return ""
}

// Encode packs a vector the way the synthesizer loads it into the chip:
// the algorithm is split back into connection bits and voice flags.
func Encode(v *params.Vector) wopl.Instrument {
	conn1, conn2, flags := splitAlgorithm(v.Get(params.Algorithm))

	ins := wopl.Instrument{
		NoteOffset1:       int16(v.Get(params.Transpose1)),
		NoteOffset2:       int16(v.Get(params.Transpose2)),
		VelocityOffset:    clampInt8(v.Get(params.VelOffset)),
		SecondVoiceDetune: clampInt8(v.Get(params.FineTune2)),
		Flags:             flags,
		FbConn1:           uint8(v.Get(params.Feedback1)&7)<<1 | conn1,
		FbConn2:           uint8(v.Get(params.Feedback2)&7)<<1 | conn2,
	}
	for voice, recOp := range voiceOperators {
		ins.Operators[recOp] = EncodeOperator(VoiceOperator(v, voice))
	}
	return ins
}

// EncodeGlobals returns the bank-wide fields held by a vector
func EncodeGlobals(v *params.Vector) (wopl.OPLFlags, wopl.VolumeModel) {
	var flags wopl.OPLFlags
	if v.Get(params.DeepVibrato) != 0 {
		flags |= wopl.FlagDeepVibrato
	}
	if v.Get(params.DeepTremolo) != 0 {
		flags |= wopl.FlagDeepTremolo
	}
	return flags, wopl.VolumeModel(v.Get(params.VolumeModel))
}

func clampInt8(v int) int8 {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return int8(v)
}
