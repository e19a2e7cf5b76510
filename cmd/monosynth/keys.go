package main

import (
	"fmt"

	"github.com/justyntemme/monosynth/pkg/dsp/filter"
	"github.com/justyntemme/monosynth/pkg/framework/param"
	"github.com/justyntemme/monosynth/pkg/midi"
	"github.com/justyntemme/monosynth/pkg/synth"
)

const keyHelp = "n note on, m note off, h hold, o always on, e master, 1-4 osc1 wave, 5-8 osc2 wave, f filter, q quit"

// keyboard maps key presses to triggers and parameter changes.
type keyboard struct {
	proc    *synth.Processor
	holding bool
}

// press handles one key and returns a status line. quit is set for q,
// Ctrl-C and Ctrl-D.
func (k *keyboard) press(b byte) (status string, quit bool) {
	params := k.proc.GetParameters()

	switch b {
	case 'q', 'Q', 3, 4:
		return "bye", true
	case 'n':
		return k.trigger(midi.NoteOn(0)), false
	case 'm':
		return k.trigger(midi.NoteOff(0)), false
	case 'h':
		k.holding = !k.holding
		return k.trigger(midi.Hold(k.holding, 0)), false
	case 'o':
		return toggle(params.Get(param.AlwaysOn)), false
	case 'e':
		return toggle(params.Get(param.MasterEnabled)), false
	case '1', '2', '3', '4':
		return choose(params.Get(param.Osc1Wave), int(b-'1')), false
	case '5', '6', '7', '8':
		return choose(params.Get(param.Osc2Wave), int(b-'5')), false
	case 'f':
		p := params.Get(param.FilterType)
		return choose(p, (p.GetIndex()+1)%len(filter.ModeNames)), false
	case '?':
		return keyHelp, false
	default:
		return "", false
	}
}

func (k *keyboard) trigger(e midi.Event) string {
	if !k.proc.Trigger(e) {
		return fmt.Sprintf("%s dropped: queue full", e.Type)
	}
	if e.Type == midi.EventTypeHold {
		return fmt.Sprintf("hold %s", onOff(e.On))
	}
	return e.Type.String()
}

func toggle(p *param.Parameter) string {
	p.SetBool(!p.GetBool())
	return fmt.Sprintf("%s: %s", p.Name, onOff(p.GetBool()))
}

func choose(p *param.Parameter, index int) string {
	p.SetPlainValue(float64(index))
	return fmt.Sprintf("%s: %s", p.Name, p.FormatValue(p.GetValue()))
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
