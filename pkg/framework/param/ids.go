package param

// ID identifies a synth parameter
type ID uint32

// Parameter IDs. The order is the registry order.
const (
	MasterEnabled ID = iota
	Osc1Freq
	Osc2Freq
	Osc1Wave
	Osc2Wave
	OscMix
	FilterType
	FilterCutoff
	FilterResonance
	FilterBypass
	Attack
	Decay
	Sustain
	Release
	LFORate
	LFODepth
	AlwaysOn

	// NumParams is the number of parameter IDs
	NumParams
)

var keys = [NumParams]string{
	MasterEnabled:   "MASTER_ENABLED",
	Osc1Freq:        "OSC1_FREQ",
	Osc2Freq:        "OSC2_FREQ",
	Osc1Wave:        "OSC1_WAVE",
	Osc2Wave:        "OSC2_WAVE",
	OscMix:          "OSC_MIX",
	FilterType:      "FILTER_TYPE",
	FilterCutoff:    "FILTER_CUTOFF",
	FilterResonance: "FILTER_RESONANCE",
	FilterBypass:    "FILTER_BYPASS",
	Attack:          "ATTACK",
	Decay:           "DECAY",
	Sustain:         "SUSTAIN",
	Release:         "RELEASE",
	LFORate:         "LFO_RATE",
	LFODepth:        "LFO_DEPTH",
	AlwaysOn:        "ALWAYS_ON",
}

// Key returns the stable string key used by patch files
func (id ID) Key() string {
	if id < NumParams {
		return keys[id]
	}
	return ""
}

func (id ID) String() string {
	if k := id.Key(); k != "" {
		return k
	}
	return "UNKNOWN"
}

// ParseKey maps a patch key to its ID
func ParseKey(key string) (ID, bool) {
	for id, k := range keys {
		if k == key {
			return ID(id), true
		}
	}
	return 0, false
}
