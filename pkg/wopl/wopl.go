package wopl

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// Parse errors
var (
	ErrBadMagic      = errors.New("not a WOPL bank file")
	ErrNewerVersion  = errors.New("unsupported WOPL version")
	ErrUnexpectedEnd = errors.New("unexpected end of WOPL data")
	ErrTooLarge      = errors.New("WOPL file too large")
)

// LoadFile reads and parses the bank at path
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer fh.Close()

	info, err := fh.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if info.Size() > MaxFileSize {
		return nil, errors.Wrapf(ErrTooLarge, "%s is %d bytes", path, info.Size())
	}

	data, err := io.ReadAll(io.LimitReader(fh, MaxFileSize+1))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return f, nil
}

// Parse decodes a WOPL bank from memory
func Parse(data []byte) (*File, error) {
	if len(data) > MaxFileSize {
		return nil, errors.Wrapf(ErrTooLarge, "%d bytes", len(data))
	}
	if len(data) < headerSize {
		return nil, errors.Wrapf(ErrUnexpectedEnd, "header needs %d bytes, got %d", headerSize, len(data))
	}
	if string(data[:len(Magic)]) != Magic {
		return nil, errors.WithStack(ErrBadMagic)
	}

	f := &File{
		Version:     binary.LittleEndian.Uint16(data[11:13]),
		Flags:       OPLFlags(data[17]),
		VolumeModel: VolumeModel(data[18]),
	}
	if f.Version > LatestVersion {
		return nil, errors.Wrapf(ErrNewerVersion, "version %d", f.Version)
	}

	countMelodic := int(binary.BigEndian.Uint16(data[13:15]))
	countPercussion := int(binary.BigEndian.Uint16(data[15:17]))
	f.Melodic = make([]Bank, countMelodic)
	f.Percussion = make([]Bank, countPercussion)

	banks := make([]*Bank, 0, countMelodic+countPercussion)
	for i := range f.Melodic {
		banks = append(banks, &f.Melodic[i])
	}
	for i := range f.Percussion {
		banks = append(banks, &f.Percussion[i])
	}

	cursor := headerSize

	if f.Version >= 2 {
		need := cursor + bankMetaSize*len(banks)
		if len(data) < need {
			return nil, errors.Wrapf(ErrUnexpectedEnd, "bank metadata at 0x%X", cursor)
		}
		for _, b := range banks {
			meta := data[cursor : cursor+bankMetaSize]
			b.Name = decodeName(meta[:nameSize])
			b.LSB = meta[nameSize]
			b.MSB = meta[nameSize+1]
			cursor += bankMetaSize
		}
	}

	insSize := insSizeV2
	if f.Version >= 3 {
		insSize = insSizeV3
	}

	for _, b := range banks {
		for p := range b.Instruments {
			if len(data) < cursor+insSize {
				return nil, errors.Wrapf(ErrUnexpectedEnd, "instrument %d at 0x%X", p, cursor)
			}
			readInstrument(&b.Instruments[p], data[cursor:cursor+insSize], f.Version)
			cursor += insSize
		}
	}

	return f, nil
}

func readInstrument(ins *Instrument, rec []byte, version uint16) {
	ins.Name = decodeName(rec[:nameSize])
	ins.NoteOffset1 = int16(binary.BigEndian.Uint16(rec[32:34]))
	ins.NoteOffset2 = int16(binary.BigEndian.Uint16(rec[34:36]))
	ins.VelocityOffset = int8(rec[36])
	ins.SecondVoiceDetune = int8(rec[37])
	ins.PercussionKey = rec[38]
	ins.Flags = InstrumentFlags(rec[39])
	ins.FbConn1 = rec[40]
	ins.FbConn2 = rec[41]

	for o := range ins.Operators {
		raw := rec[42+o*operatorSize : 42+(o+1)*operatorSize]
		ins.Operators[o] = Operator{
			AVEKF:          raw[0],
			KSLLevel:       raw[1],
			AttackDecay:    raw[2],
			SustainRelease: raw[3],
			Waveform:       raw[4],
		}
	}

	if version >= 3 {
		ins.DelayOnMs = binary.BigEndian.Uint16(rec[62:64])
		ins.DelayOffMs = binary.BigEndian.Uint16(rec[64:66])
	}
}

// decodeName cuts a fixed-size name at its NUL and makes it valid UTF-8.
// Legacy banks store names in a Windows code page.
func decodeName(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(bytes.ToValidUTF8(raw, []byte("?")))
	}
	return string(s)
}

// Marshal encodes f in the latest WOPL version
func Marshal(f *File) ([]byte, error) {
	if len(f.Melodic) > 0xFFFF || len(f.Percussion) > 0xFFFF {
		return nil, errors.Errorf("too many banks: %d melodic, %d percussion", len(f.Melodic), len(f.Percussion))
	}

	var buf bytes.Buffer
	buf.WriteString(Magic)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(LatestVersion))
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(f.Melodic)))
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(f.Percussion)))
	buf.WriteByte(byte(f.Flags))
	buf.WriteByte(byte(f.VolumeModel))

	all := make([]*Bank, 0, len(f.Melodic)+len(f.Percussion))
	for i := range f.Melodic {
		all = append(all, &f.Melodic[i])
	}
	for i := range f.Percussion {
		all = append(all, &f.Percussion[i])
	}

	for _, b := range all {
		name, err := encodeName(b.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "bank %q", b.Name)
		}
		buf.Write(name)
		buf.WriteByte(b.LSB)
		buf.WriteByte(b.MSB)
	}

	for _, b := range all {
		for p := range b.Instruments {
			if err := writeInstrument(&buf, &b.Instruments[p]); err != nil {
				return nil, errors.Wrapf(err, "bank %q program %d", b.Name, p)
			}
		}
	}

	return buf.Bytes(), nil
}

func writeInstrument(buf *bytes.Buffer, ins *Instrument) error {
	name, err := encodeName(ins.Name)
	if err != nil {
		return err
	}
	buf.Write(name)
	_ = binary.Write(buf, binary.BigEndian, ins.NoteOffset1)
	_ = binary.Write(buf, binary.BigEndian, ins.NoteOffset2)
	buf.WriteByte(byte(ins.VelocityOffset))
	buf.WriteByte(byte(ins.SecondVoiceDetune))
	buf.WriteByte(ins.PercussionKey)
	buf.WriteByte(byte(ins.Flags))
	buf.WriteByte(ins.FbConn1)
	buf.WriteByte(ins.FbConn2)
	for _, op := range ins.Operators {
		buf.Write([]byte{op.AVEKF, op.KSLLevel, op.AttackDecay, op.SustainRelease, op.Waveform})
	}
	_ = binary.Write(buf, binary.BigEndian, ins.DelayOnMs)
	_ = binary.Write(buf, binary.BigEndian, ins.DelayOffMs)
	return nil
}

func encodeName(name string) ([]byte, error) {
	out := make([]byte, nameSize)
	if len(name) >= nameSize {
		return nil, errors.Errorf("name %q longer than %d bytes", name, nameSize-1)
	}
	copy(out, name)
	return out, nil
}
