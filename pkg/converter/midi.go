package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Channels used for auditioning, 0-based
const (
	MelodicChannel uint8 = 0
	DrumChannel    uint8 = 9

	auditionKey      uint8 = 60
	auditionVelocity uint8 = 100

	ccBankSelectMSB uint8 = 0
	ccBankSelectLSB uint8 = 32
)

// Cue is one auditioned instrument: the messages that select it and the
// note that plays it
type Cue struct {
	Name    string
	Channel uint8
	BankMSB uint8
	BankLSB uint8
	Program uint8
	Key     uint8
}

// CueFor returns the cue of a converted instrument. Drum kits are selected
// by program change on the drum channel and play their own key.
// Bank numbers are masked to the 7 bits a data byte can carry.
func CueFor(r Result) Cue {
	id := r.Ins.ID()
	msb, lsb, program := id.BankMSB&0x7F, id.BankLSB&0x7F, id.Program&0x7F
	if id.Drum {
		return Cue{Name: r.Name, Channel: DrumChannel, BankMSB: msb, Program: lsb, Key: program}
	}
	return Cue{Name: r.Name, Channel: MelodicChannel, BankMSB: msb, BankLSB: lsb, Program: program, Key: auditionKey}
}

// Auditioner renders converted instruments as a Standard MIDI File that
// plays each one in turn on any GM/GS/XG player
type Auditioner struct {
	ticksPerQuarter uint16
	tempo           float64
}

// NewAuditioner creates an auditioner at 120 BPM
func NewAuditioner() *Auditioner {
	return &Auditioner{
		ticksPerQuarter: 480,
		tempo:           120.0,
	}
}

// Audition renders results with the default auditioner
func Audition(results []Result) ([]byte, error) {
	return NewAuditioner().Generate(results)
}

// Generate creates MIDI data playing one quarter note per instrument
func (a *Auditioner) Generate(results []Result) ([]byte, error) {
	if len(results) == 0 {
		return nil, errors.New("nothing to audition")
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(a.ticksPerQuarter)

	var track smf.Track

	microsecondsPerBeat := uint32(60000000.0 / a.tempo)
	track.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}))
	track.Add(0, smf.Message([]byte{0xFF, 0x58, 0x04, 0x04, 0x02, 0x18, 0x08}))

	quarter := uint32(a.ticksPerQuarter)
	for _, r := range results {
		cue := CueFor(r)
		track.Add(0, marker(cue.Name))
		track.Add(0, midi.ControlChange(cue.Channel, ccBankSelectMSB, cue.BankMSB))
		track.Add(0, midi.ControlChange(cue.Channel, ccBankSelectLSB, cue.BankLSB))
		track.Add(0, midi.ProgramChange(cue.Channel, cue.Program))
		track.Add(0, midi.NoteOn(cue.Channel, cue.Key, auditionVelocity))
		track.Add(quarter, midi.NoteOff(cue.Channel, cue.Key))
	}

	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes the audition of results to filename
func (a *Auditioner) WriteFile(results []Result, filename string) error {
	data, err := a.Generate(results)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// marker builds a marker meta event; names are short enough for a
// one-byte length
func marker(text string) smf.Message {
	if len(text) > 127 {
		text = text[:127]
	}
	return smf.Message(append([]byte{0xFF, 0x06, byte(len(text))}, text...))
}

// ParseAudition reads the cues back out of an audition file
func ParseAudition(data []byte) ([]Cue, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	var cues []Cue
	var cur Cue
	for _, track := range s.Tracks {
		for _, ev := range track {
			msg := ev.Message
			if len(msg) >= 3 && msg[0] == 0xFF && msg[1] == 0x06 {
				cur = Cue{Name: string(msg[3:])}
				continue
			}
			if len(msg) < 2 {
				continue
			}
			status, ch := msg[0]&0xF0, msg[0]&0x0F
			switch {
			case status == 0xB0 && len(msg) >= 3 && msg[1] == ccBankSelectMSB:
				cur.BankMSB = msg[2]
			case status == 0xB0 && len(msg) >= 3 && msg[1] == ccBankSelectLSB:
				cur.BankLSB = msg[2]
			case status == 0xC0:
				cur.Program = msg[1]
			case status == 0x90 && len(msg) >= 3 && msg[2] > 0:
				cur.Channel = ch
				cur.Key = msg[1]
				cues = append(cues, cur)
			}
		}
	}
	return cues, nil
}
