package midispec

import "fmt"

type table struct {
	programs []Program
	banks    []Bank
}

// catalog is built once and never mutated. Registration order is the
// tie-break for every lookup: GM1, GM2, GS, SC, then XG.
var catalog = buildCatalog()

type keyName struct {
	key  uint8
	name string
}

type variation struct {
	msb, lsb, program uint8
	name              string
}

var gmMelodic = [128]string{
	"Acoustic Grand Piano", "Bright Acoustic Piano", "Electric Grand Piano", "Honky-tonk Piano",
	"Electric Piano 1", "Electric Piano 2", "Harpsichord", "Clavinet",
	"Celesta", "Glockenspiel", "Music Box", "Vibraphone",
	"Marimba", "Xylophone", "Tubular Bells", "Dulcimer",
	"Drawbar Organ", "Percussive Organ", "Rock Organ", "Church Organ",
	"Reed Organ", "Accordion", "Harmonica", "Tango Accordion",
	"Acoustic Guitar (nylon)", "Acoustic Guitar (steel)", "Electric Guitar (jazz)", "Electric Guitar (clean)",
	"Electric Guitar (muted)", "Overdriven Guitar", "Distortion Guitar", "Guitar Harmonics",
	"Acoustic Bass", "Electric Bass (finger)", "Electric Bass (pick)", "Fretless Bass",
	"Slap Bass 1", "Slap Bass 2", "Synth Bass 1", "Synth Bass 2",
	"Violin", "Viola", "Cello", "Contrabass",
	"Tremolo Strings", "Pizzicato Strings", "Orchestral Harp", "Timpani",
	"String Ensemble 1", "String Ensemble 2", "Synth Strings 1", "Synth Strings 2",
	"Choir Aahs", "Voice Oohs", "Synth Choir", "Orchestra Hit",
	"Trumpet", "Trombone", "Tuba", "Muted Trumpet",
	"French Horn", "Brass Section", "Synth Brass 1", "Synth Brass 2",
	"Soprano Sax", "Alto Sax", "Tenor Sax", "Baritone Sax",
	"Oboe", "English Horn", "Bassoon", "Clarinet",
	"Piccolo", "Flute", "Recorder", "Pan Flute",
	"Blown Bottle", "Shakuhachi", "Whistle", "Ocarina",
	"Lead 1 (square)", "Lead 2 (sawtooth)", "Lead 3 (calliope)", "Lead 4 (chiff)",
	"Lead 5 (charang)", "Lead 6 (voice)", "Lead 7 (fifths)", "Lead 8 (bass + lead)",
	"Pad 1 (new age)", "Pad 2 (warm)", "Pad 3 (polysynth)", "Pad 4 (choir)",
	"Pad 5 (bowed)", "Pad 6 (metallic)", "Pad 7 (halo)", "Pad 8 (sweep)",
	"FX 1 (rain)", "FX 2 (soundtrack)", "FX 3 (crystal)", "FX 4 (atmosphere)",
	"FX 5 (brightness)", "FX 6 (goblins)", "FX 7 (echoes)", "FX 8 (sci-fi)",
	"Sitar", "Banjo", "Shamisen", "Koto",
	"Kalimba", "Bagpipe", "Fiddle", "Shanai",
	"Tinkle Bell", "Agogo", "Steel Drums", "Woodblock",
	"Taiko Drum", "Melodic Tom", "Synth Drum", "Reverse Cymbal",
	"Guitar Fret Noise", "Breath Noise", "Seashore", "Bird Tweet",
	"Telephone Ring", "Helicopter", "Applause", "Gunshot",
}

var gmPercussion = []keyName{
	{35, "Acoustic Bass Drum"}, {36, "Bass Drum 1"}, {37, "Side Stick"}, {38, "Acoustic Snare"},
	{39, "Hand Clap"}, {40, "Electric Snare"}, {41, "Low Floor Tom"}, {42, "Closed Hi-Hat"},
	{43, "High Floor Tom"}, {44, "Pedal Hi-Hat"}, {45, "Low Tom"}, {46, "Open Hi-Hat"},
	{47, "Low-Mid Tom"}, {48, "Hi-Mid Tom"}, {49, "Crash Cymbal 1"}, {50, "High Tom"},
	{51, "Ride Cymbal 1"}, {52, "Chinese Cymbal"}, {53, "Ride Bell"}, {54, "Tambourine"},
	{55, "Splash Cymbal"}, {56, "Cowbell"}, {57, "Crash Cymbal 2"}, {58, "Vibraslap"},
	{59, "Ride Cymbal 2"}, {60, "Hi Bongo"}, {61, "Low Bongo"}, {62, "Mute Hi Conga"},
	{63, "Open Hi Conga"}, {64, "Low Conga"}, {65, "High Timbale"}, {66, "Low Timbale"},
	{67, "High Agogo"}, {68, "Low Agogo"}, {69, "Cabasa"}, {70, "Maracas"},
	{71, "Short Whistle"}, {72, "Long Whistle"}, {73, "Short Guiro"}, {74, "Long Guiro"},
	{75, "Claves"}, {76, "Hi Wood Block"}, {77, "Low Wood Block"}, {78, "Mute Cuica"},
	{79, "Open Cuica"}, {80, "Mute Triangle"}, {81, "Open Triangle"},
}

// keys added by GM2 and the GS standard set
var gm2ExtraPercussion = []keyName{
	{27, "High Q"}, {28, "Slap"}, {29, "Scratch Push"}, {30, "Scratch Pull"},
	{31, "Sticks"}, {32, "Square Click"}, {33, "Metronome Click"}, {34, "Metronome Bell"},
	{82, "Shaker"}, {83, "Jingle Bell"}, {84, "Belltree"}, {85, "Castanets"},
	{86, "Mute Surdo"}, {87, "Open Surdo"},
}

var gm2Variations = []variation{
	{121, 1, 0, "Wide Acoustic Grand"}, {121, 2, 0, "Dark Acoustic Grand"},
	{121, 1, 1, "Wide Bright Acoustic"}, {121, 1, 2, "Wide Electric Grand"},
	{121, 1, 3, "Wide Honky-tonk"},
	{121, 1, 4, "Detuned Electric Piano 1"}, {121, 2, 4, "Electric Piano 1 Variation"},
	{121, 3, 4, "60's Electric Piano"},
	{121, 1, 5, "Detuned Electric Piano 2"}, {121, 2, 5, "Electric Piano 2 Variation"},
	{121, 3, 5, "Legend Electric Piano"}, {121, 4, 5, "Phase Electric Piano"},
	{121, 1, 6, "Coupled Harpsichord"}, {121, 2, 6, "Wide Harpsichord"},
	{121, 3, 6, "Open Harpsichord"}, {121, 1, 7, "Pulse Clavinet"},
	{121, 1, 11, "Wet Vibraphone"}, {121, 1, 12, "Wide Marimba"},
	{121, 1, 14, "Church Bell"}, {121, 2, 14, "Carillon"},
	{121, 1, 24, "Ukulele"}, {121, 2, 24, "Open Nylon Guitar"}, {121, 3, 24, "Nylon Guitar 2"},
	{121, 1, 25, "12-Strings Guitar"}, {121, 2, 25, "Mandolin"}, {121, 3, 25, "Steel + Body"},
	{121, 1, 122, "Rain"}, {121, 2, 122, "Thunder"}, {121, 3, 122, "Wind"},
	{121, 4, 122, "Stream"}, {121, 5, 122, "Bubble"},
	{121, 1, 125, "Car-Engine"}, {121, 2, 125, "Car-Stop"},
	{121, 1, 127, "Machine Gun"}, {121, 2, 127, "Lasergun"}, {121, 3, 127, "Explosion"},
}

// SC-55 variation tones, addressed by MSB with LSB 0
var gsVariations = []variation{
	{8, 0, 4, "Detuned EP 1"}, {8, 0, 5, "Detuned EP 2"}, {8, 0, 6, "Coupled Hps."},
	{8, 0, 14, "Church Bell"}, {8, 0, 16, "Detuned Or.1"}, {8, 0, 17, "Detuned Or.2"},
	{8, 0, 19, "Church Org.2"}, {8, 0, 21, "Accordion It"},
	{8, 0, 24, "Ukulele"}, {8, 0, 25, "12-str.Gt"}, {16, 0, 25, "Mandolin"},
	{8, 0, 26, "Hawaiian Gt."}, {8, 0, 27, "Chorus Gt."}, {8, 0, 28, "Funk Gt."},
	{8, 0, 30, "Feedback Gt."}, {8, 0, 31, "Gt. Feedback"},
	{8, 0, 38, "Synth Bass 3"}, {8, 0, 39, "Synth Bass 4"},
	{8, 0, 48, "Orchestra"}, {8, 0, 50, "Syn.Strings3"},
	{8, 0, 61, "Brass 2"}, {8, 0, 62, "Synth Brass3"}, {8, 0, 63, "Synth Brass4"},
	{1, 0, 80, "Square"}, {8, 0, 80, "Sine Wave"}, {1, 0, 81, "Saw"}, {8, 0, 81, "Doctor Solo"},
	{1, 0, 98, "Syn Mallet"}, {1, 0, 102, "Echo Bell"}, {2, 0, 102, "Echo Pan"},
	{8, 0, 104, "Sitar 2"}, {8, 0, 107, "Taisho Koto"},
	{8, 0, 115, "Castanets"}, {8, 0, 116, "Concert BD"}, {8, 0, 117, "Melo. Tom 2"}, {8, 0, 118, "808 Tom"},
	{1, 0, 120, "Gt.Cut Noise"}, {2, 0, 120, "String Slap"},
	{1, 0, 122, "Rain"}, {2, 0, 122, "Thunder"}, {3, 0, 122, "Wind"}, {4, 0, 122, "Stream"}, {5, 0, 122, "Bubble"},
	{1, 0, 123, "Dog"}, {2, 0, 123, "Horse-Gallop"}, {3, 0, 123, "Bird 2"},
	{1, 0, 124, "Telephone 2"}, {2, 0, 124, "DoorCreaking"}, {3, 0, 124, "Door"},
	{4, 0, 124, "Scratch"}, {5, 0, 124, "Windchime"},
	{1, 0, 125, "Car-Engine"}, {2, 0, 125, "Car-Stop"}, {3, 0, 125, "Car-Pass"}, {4, 0, 125, "Car-Crash"},
	{5, 0, 125, "Siren"}, {6, 0, 125, "Train"}, {7, 0, 125, "Jetplane"}, {8, 0, 125, "Starship"},
	{9, 0, 125, "Burst Noise"},
	{1, 0, 126, "Laughing"}, {2, 0, 126, "Screaming"}, {3, 0, 126, "Punch"},
	{4, 0, 126, "Heart Beat"}, {5, 0, 126, "Footsteps"},
	{1, 0, 127, "Machine Gun"}, {2, 0, 127, "Lasergun"}, {3, 0, 127, "Explosion"},
	{127, 0, 0, "Acou Piano 1"}, {127, 0, 1, "Acou Piano 2"}, {127, 0, 2, "Acou Piano 3"},
	{127, 0, 3, "Elec Piano 1"},
}

var gsDrumKits = []struct {
	kit  uint8
	name string
}{
	{8, "Room"}, {16, "Power"}, {24, "Electronic"}, {25, "TR-808"},
	{32, "Jazz"}, {40, "Brush"}, {48, "Orchestra"}, {56, "SFX"}, {127, "CM-64/32L"},
}

// kit-specific names of the GS drum sets, keyed by (kit, key)
var gsDrumKeys = []variation{
	{0, 8, 41, "Room Low Tom 2"}, {0, 8, 43, "Room Low Tom 1"}, {0, 8, 45, "Room Mid Tom 2"},
	{0, 8, 47, "Room Mid Tom 1"}, {0, 8, 48, "Room Hi Tom 2"}, {0, 8, 50, "Room Hi Tom 1"},
	{0, 16, 36, "MONDO Kick"}, {0, 16, 38, "Gated SD"},
	{0, 24, 36, "Elec BD"}, {0, 24, 38, "Elec SD"}, {0, 24, 40, "Gated SD"}, {0, 24, 52, "Reverse Cymbal"},
	{0, 25, 36, "808 Bass Drum"}, {0, 25, 37, "808 Rim Shot"}, {0, 25, 38, "808 Snare Drum"},
	{0, 25, 42, "808 CHH"}, {0, 25, 46, "808 OHH"}, {0, 25, 49, "808 Cymbal"}, {0, 25, 56, "808 Cowbell"},
	{0, 32, 36, "Jazz BD 2"}, {0, 40, 38, "Brush Tap"}, {0, 40, 39, "Brush Slap"}, {0, 40, 40, "Brush Swirl"},
	{0, 48, 38, "Concert SD"}, {0, 48, 39, "Castanets"}, {0, 48, 41, "Timpani F"}, {0, 48, 42, "Timpani F#"},
	{0, 56, 39, "High Q"}, {0, 56, 40, "Slap"}, {0, 56, 41, "Scratch Push"}, {0, 56, 42, "Scratch Pull"},
}

// tones only found on the SC-88 map
var scVariations = []variation{
	{16, 2, 0, "Piano 1d"}, {8, 2, 1, "Piano 2w"}, {8, 2, 2, "Piano 3w"},
}

var xgVariations = []variation{
	{0, 1, 0, "GrndPnoK"}, {0, 18, 0, "MelloGrP"}, {0, 40, 0, "PianoStr"}, {0, 41, 0, "Dream"},
	{0, 1, 1, "BritPnoK"}, {0, 1, 2, "ElGrPnoK"}, {0, 32, 2, "Det.CP80"}, {0, 40, 2, "LayerCP1"},
	{0, 41, 2, "LayerCP2"}, {0, 1, 3, "HnkyTnkK"},
	{0, 1, 4, "El.Pno1K"}, {0, 18, 4, "MelloEP1"}, {0, 32, 4, "Chor.EP1"}, {0, 40, 4, "HardEl.P"},
	{0, 45, 4, "VX El.P1"}, {0, 64, 4, "60sEl.P"},
	{0, 1, 5, "El.Pno2K"}, {0, 32, 5, "Chor.EP2"}, {0, 33, 5, "DX Hard"}, {0, 34, 5, "DXLegend"},
	{0, 40, 5, "DX Phase"}, {0, 41, 5, "DX+Analg"}, {0, 42, 5, "DXKotoEP"}, {0, 45, 5, "VX El.P2"},
	{0, 1, 6, "Harpsi.K"}, {0, 25, 6, "Harpsi.2"}, {0, 35, 6, "Harpsi.3"},
	{0, 1, 7, "Clavi. K"}, {0, 27, 7, "ClaviWah"}, {0, 64, 7, "PulseClv"}, {0, 65, 7, "PierceCl"},
}

var xgSFX = []keyName{
	{0, "CuttngNz"}, {1, "CttngNz2"}, {3, "Str Slap"}, {16, "Fl.KClik"},
	{32, "Rain"}, {33, "Thunder"}, {34, "Wind"}, {35, "Stream"}, {36, "Bubble"}, {37, "Feed"},
	{48, "Dog"}, {49, "Horse"}, {50, "Bird 2"}, {54, "Ghost"}, {55, "Maou"},
	{64, "Tel.Dial"}, {65, "DoorSqek"}, {66, "Door Slam"}, {67, "Scratch"}, {68, "Scratch 2"},
	{69, "WindChm"}, {70, "Telphon2"},
	{80, "CarEngin"}, {81, "Car Stop"}, {82, "Car Pass"}, {83, "CarCrash"}, {84, "Siren"},
	{85, "Train"}, {86, "Jetplane"}, {87, "Starship"}, {88, "Burst"}, {89, "Coaster"}, {90, "SbMarine"},
	{96, "Laughing"}, {97, "Scream"}, {98, "Punch"}, {99, "Heart"}, {100, "FootStep"},
	{112, "MchinGun"}, {113, "LaserGun"}, {114, "Xplosion"}, {115, "FireWork"},
}

var xgDrumKits = []struct {
	msb, kit uint8
	name     string
}{
	{127, 0, "Standard Kit"}, {127, 1, "Standard2 Kit"}, {127, 8, "Room Kit"},
	{127, 16, "Rock Kit"}, {127, 24, "Electro Kit"}, {127, 25, "Analog Kit"},
	{127, 32, "Jazz Kit"}, {127, 40, "Brush Kit"}, {127, 48, "Classic Kit"},
	{126, 0, "SFX Kit 1"}, {126, 1, "SFX Kit 2"},
}

var xgStandardKitKeys = []keyName{
	{13, "Surdo Mute"}, {14, "Surdo Open"}, {15, "Hi Q"}, {16, "Whip Slap"},
	{17, "Scratch H"}, {18, "Scratch L"}, {19, "Finger Snap"}, {20, "Click Noise"},
	{21, "Metronome Click"}, {22, "Metronome Bell"}, {23, "Seq Click L"}, {24, "Seq Click H"},
	{25, "Brush Tap"}, {26, "Brush Swirl L"}, {27, "Brush Slap"}, {28, "Brush Swirl H"},
	{29, "Snare Roll"}, {30, "Castanet"}, {31, "Snare L"}, {32, "Sticks"},
	{33, "Bass Drum L"}, {34, "Open Rim Shot"},
	{82, "Shaker"}, {83, "Jingle Bell"}, {84, "Bell Tree"},
}

var xgSFXKitKeys = []keyName{
	{36, "Cutting Noise"}, {37, "Cutting Noise 2"}, {39, "String Slap"}, {52, "Flute Key Click"},
	{68, "Shower"}, {69, "Thunder"}, {70, "Wind"}, {71, "Stream"}, {72, "Bubble"}, {73, "Feed"},
	{84, "Dog"}, {85, "Horse Gallop"}, {86, "Bird 2"}, {90, "Ghost"}, {91, "Maou"},
}

// MSB 0 LSBs used by XG voice variations
var xgBankLSBs = []uint8{
	1, 3, 6, 8, 12, 14, 16, 17, 18, 19, 20, 24, 25, 26, 27, 28,
	32, 33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 45,
	64, 65, 66, 67, 68, 69, 70, 71, 72, 96, 97, 98, 99, 100, 101,
	112, 113, 114, 115, 116, 117, 118, 120, 127,
}

var scMaps = []struct {
	lsb  uint8
	name string
}{
	{1, "SC-55 Map"}, {2, "SC-88 Map"}, {3, "SC-88Pro Map"}, {4, "SC-8850 Map"},
}

func buildCatalog() table {
	var t table

	bank := func(spec Mask, drum bool, msb, lsb uint8, name string) {
		t.banks = append(t.banks, Bank{Spec: spec, Drum: drum, BankMSB: msb, BankLSB: lsb, Name: name})
	}
	program := func(spec Mask, drum bool, msb, lsb, pgm uint8, name string) {
		t.programs = append(t.programs, Program{Spec: spec, Drum: drum, BankMSB: msb, BankLSB: lsb, Program: pgm, Name: name})
	}

	// General MIDI level 1
	bank(GM1, false, 0, 0, "General MIDI")
	bank(GM1, true, 0, 0, "Standard")
	for pgm, name := range gmMelodic {
		program(GM1, false, 0, 0, uint8(pgm), name)
	}
	for _, k := range gmPercussion {
		program(GM1, true, 0, 0, k.key, k.name)
	}

	// General MIDI level 2
	bank(GM2, false, 121, 0, "GM2 Capital")
	for lsb := uint8(1); lsb <= 9; lsb++ {
		bank(GM2, false, 121, lsb, fmt.Sprintf("GM2 Variation %d", lsb))
	}
	for _, k := range gsDrumKitsWithStandard() {
		bank(GM2, true, 120, k.kit, k.name)
	}
	for pgm, name := range gmMelodic {
		program(GM2, false, 121, 0, uint8(pgm), name)
	}
	for _, v := range gm2Variations {
		program(GM2, false, v.msb, v.lsb, v.program, v.name)
	}
	for _, k := range gm2ExtraPercussion {
		program(GM2, true, 120, 0, k.key, k.name)
	}
	for _, k := range gmPercussion {
		program(GM2, true, 120, 0, k.key, k.name)
	}

	// Roland GS
	for msb := uint8(1); msb < 64; msb++ {
		bank(GS, false, msb, 0, fmt.Sprintf("GS Variation %d", msb))
	}
	bank(GS, false, 127, 0, "CM-64/32L (MT-32)")
	for _, k := range gsDrumKits {
		bank(GS, true, 0, k.kit, k.name)
	}
	for _, v := range gsVariations {
		program(GS, false, v.msb, v.lsb, v.program, v.name)
	}
	for _, v := range gsDrumKeys {
		program(GS, true, v.msb, v.lsb, v.program, v.name)
	}
	for _, k := range gm2ExtraPercussion {
		program(GS, true, 0, 0, k.key, k.name)
	}

	// Roland SC maps; MSB 0 LSB 1 and 3 belong to XG
	for _, m := range scMaps {
		if m.lsb != 1 && m.lsb != 3 {
			bank(SC, false, 0, m.lsb, m.name)
		}
		for msb := uint8(1); msb < 64; msb++ {
			bank(SC, false, msb, m.lsb, fmt.Sprintf("%s Variation %d", m.name, msb))
		}
	}
	for _, v := range gsVariations {
		if v.msb < 64 {
			program(SC, false, v.msb, 1, v.program, v.name)
		}
	}
	for _, v := range scVariations {
		program(SC, false, v.msb, v.lsb, v.program, v.name)
	}

	// Yamaha XG
	for _, lsb := range xgBankLSBs {
		bank(XG, false, 0, lsb, fmt.Sprintf("XG Variation %d", lsb))
	}
	bank(XG, false, 64, 0, "XG SFX")
	for _, k := range xgDrumKits {
		bank(XG, true, k.msb, k.kit, k.name)
	}
	for _, v := range xgVariations {
		program(XG, false, v.msb, v.lsb, v.program, v.name)
	}
	for _, k := range xgSFX {
		program(XG, false, 64, 0, k.key, k.name)
	}
	for _, k := range xgStandardKitKeys {
		program(XG, true, 127, 0, k.key, k.name)
	}
	for _, k := range gmPercussion {
		program(XG, true, 127, 0, k.key, k.name)
	}
	for _, k := range xgSFXKitKeys {
		program(XG, true, 126, 0, k.key, k.name)
	}

	return t
}

func gsDrumKitsWithStandard() []struct {
	kit  uint8
	name string
} {
	out := []struct {
		kit  uint8
		name string
	}{{0, "Standard"}}
	for _, k := range gsDrumKits {
		if k.kit != 127 {
			out = append(out, k)
		}
	}
	return out
}
