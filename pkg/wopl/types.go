// Package wopl reads and writes WOPL instrument bank files (OPL2/OPL3 FM
// banks used by libADLMIDI and OPL3 Bank Editor)
package wopl

// Format constants
const (
	Magic         = "WOPL3-BANK\x00"
	LatestVersion = 3
	MaxFileSize   = 32 * 1024 * 1024

	headerSize    = 19
	bankMetaSize  = 34
	nameSize      = 32
	insSizeV2     = 62
	insSizeV3     = 66
	operatorSize  = 5
	ProgramsCount = 128
)

// OPLFlags are the bank-wide chip flags
type OPLFlags uint8

// OPL flag bits
const (
	FlagDeepTremolo OPLFlags = 0x01
	FlagDeepVibrato OPLFlags = 0x02
)

// VolumeModel selects the volume scaling model of a bank
type VolumeModel uint8

// Volume models
const (
	VolumeGeneric VolumeModel = iota
	VolumeNative
	VolumeDMX
	VolumeApogee
	VolumeWin9x
)

// InstrumentFlags describe the voice topology of an instrument
type InstrumentFlags uint8

// Instrument flag bits
const (
	Ins2Op         InstrumentFlags = 0x00
	Ins4Op         InstrumentFlags = 0x01
	InsPseudo4Op   InstrumentFlags = 0x02
	InsIsBlank     InstrumentFlags = 0x04
	RhythmModeMask InstrumentFlags = 0x38
)

// Operator is the packed register image of one FM operator
type Operator struct {
	AVEKF          uint8 // AM, vibrato, EG type, KSR, frequency multiplier
	KSLLevel       uint8 // key scale level, total level (inverted)
	AttackDecay    uint8
	SustainRelease uint8 // sustain level (inverted), release
	Waveform       uint8
}

// Instrument is one program of a bank
type Instrument struct {
	Name              string
	NoteOffset1       int16
	NoteOffset2       int16
	VelocityOffset    int8
	SecondVoiceDetune int8
	PercussionKey     uint8
	Flags             InstrumentFlags
	FbConn1           uint8
	FbConn2           uint8
	// Operators in file order: carrier 1, modulator 1, carrier 2, modulator 2
	Operators  [4]Operator
	DelayOnMs  uint16
	DelayOffMs uint16
}

// IsBlank reports whether the slot holds no instrument
func (i *Instrument) IsBlank() bool {
	return i.Flags&InsIsBlank != 0
}

// Bank is a set of 128 programs addressed by a MIDI bank number
type Bank struct {
	Name        string
	MSB         uint8
	LSB         uint8
	Instruments [ProgramsCount]Instrument
}

// File is a parsed WOPL bank file
type File struct {
	Version     uint16
	Flags       OPLFlags
	VolumeModel VolumeModel
	Melodic     []Bank
	Percussion  []Bank
}

// NewBlankBank returns a bank whose slots are all blank
func NewBlankBank(name string, msb, lsb uint8) Bank {
	b := Bank{Name: name, MSB: msb, LSB: lsb}
	for i := range b.Instruments {
		b.Instruments[i].Flags = InsIsBlank
	}
	return b
}
