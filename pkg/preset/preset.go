// Package preset loads synth patches written in Lua.
//
// A patch file sets a global table named patch keyed by parameter key, and
// may script an offline performance with notes and holds:
//
//	name = "bass drone"
//	patch = {
//	    OSC1_WAVE = "saw",
//	    OSC2_FREQ = 220,
//	    FILTER_CUTOFF = "800 Hz",
//	    ALWAYS_ON = false,
//	}
//	notes = {
//	    { on = 0.0, off = 0.5 },
//	    { on = 1.0 },
//	}
//	holds = {
//	    { at = 0.25, on = true },
//	}
//
// Numbers are plain parameter values, booleans drive toggles and strings go
// through the parameter's own parser, so "saw", "1.2 kHz" and "50%" all work.
package preset

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/justyntemme/monosynth/pkg/framework/param"
	"github.com/justyntemme/monosynth/pkg/midi"
)

var (
	// ErrUnknownKey is returned for patch entries that name no parameter.
	ErrUnknownKey = errors.New("preset: unknown parameter key")
	// ErrInvalidValue is returned for values a parameter cannot take.
	ErrInvalidValue = errors.New("preset: invalid value")
)

// Note is a scripted trigger in seconds. Off is negative for a note held to
// the end of the render.
type Note struct {
	On  float64
	Off float64
}

// HoldChange sets the hold latch at a point in seconds.
type HoldChange struct {
	At float64
	On bool
}

// Patch is a decoded preset file.
type Patch struct {
	Name   string
	Values map[param.ID]float64 // plain values
	Notes  []Note
	Holds  []HoldChange
}

// layout resolves string values against the synth parameter definitions.
var layout = param.NewSynthRegistry()

// Load reads and decodes a patch file.
func Load(ctx context.Context, path string) (*Patch, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	return LoadString(ctx, string(src), path)
}

// LoadString decodes patch source. name is used in error messages.
func LoadString(ctx context.Context, src, name string) (*Patch, error) {
	L, err := newState(ctx)
	if err != nil {
		return nil, err
	}
	defer L.Close()

	fn, err := L.LoadString(src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}

	p := &Patch{Values: make(map[param.ID]float64)}

	if v := L.GetGlobal("name"); v != lua.LNil {
		s, ok := v.(lua.LString)
		if !ok {
			return nil, fmt.Errorf("%s: name: %w: want string, got %s", name, ErrInvalidValue, v.Type())
		}
		p.Name = string(s)
	}

	if err := p.decodeValues(L.GetGlobal("patch")); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := p.decodeNotes(L.GetGlobal("notes")); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := p.decodeHolds(L.GetGlobal("holds")); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return p, nil
}

// newState opens a sandboxed interpreter with only the pure libraries.
func newState(ctx context.Context) (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	if ctx != nil {
		L.SetContext(ctx)
	}

	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			L.Close()
			return nil, fmt.Errorf("open lua %q library: %w", lib.name, err)
		}
	}
	return L, nil
}

func (p *Patch) decodeValues(v lua.LValue) error {
	if v == lua.LNil {
		return nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return fmt.Errorf("patch: %w: want table, got %s", ErrInvalidValue, v.Type())
	}

	type entry struct {
		key   string
		value lua.LValue
	}
	var entries []entry
	var keyErr error
	tbl.ForEach(func(k, v lua.LValue) {
		s, ok := k.(lua.LString)
		if !ok {
			if keyErr == nil {
				keyErr = fmt.Errorf("patch: %w: %s key %s", ErrUnknownKey, k.Type(), k.String())
			}
			return
		}
		entries = append(entries, entry{key: string(s), value: v})
	})
	if keyErr != nil {
		return keyErr
	}

	// Lua tables iterate in hash order
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	for _, e := range entries {
		id, ok := param.ParseKey(strings.ToUpper(e.key))
		if !ok {
			return fmt.Errorf("patch: %w: %s", ErrUnknownKey, e.key)
		}
		plain, err := plainValue(layout.Get(id), e.value)
		if err != nil {
			return fmt.Errorf("patch: %s: %w", e.key, err)
		}
		p.Values[id] = plain
	}
	return nil
}

func plainValue(prm *param.Parameter, v lua.LValue) (float64, error) {
	switch v := v.(type) {
	case lua.LNumber:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidValue, f)
		}
		return f, nil
	case lua.LBool:
		if v {
			return prm.Max, nil
		}
		return prm.Min, nil
	case lua.LString:
		normalized, err := prm.ParseValue(string(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidValue, string(v), err)
		}
		return prm.Denormalize(normalized), nil
	default:
		return 0, fmt.Errorf("%w: unsupported %s", ErrInvalidValue, v.Type())
	}
}

// array returns the entries of a Lua sequence, each of which must be a table.
func array(v lua.LValue, what string) ([]*lua.LTable, error) {
	if v == lua.LNil {
		return nil, nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%s: %w: want table, got %s", what, ErrInvalidValue, v.Type())
	}

	n := tbl.Len()
	out := make([]*lua.LTable, 0, n)
	for i := 1; i <= n; i++ {
		item, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: %w: want table", what, i, ErrInvalidValue)
		}
		out = append(out, item)
	}
	return out, nil
}

func seconds(tbl *lua.LTable, field string) (float64, bool, error) {
	v := tbl.RawGetString(field)
	if v == lua.LNil {
		return 0, false, nil
	}
	n, ok := v.(lua.LNumber)
	if !ok || float64(n) < 0 || math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
		return 0, true, fmt.Errorf("%s: %w: want seconds >= 0, got %s", field, ErrInvalidValue, v.String())
	}
	return float64(n), true, nil
}

func (p *Patch) decodeNotes(v lua.LValue) error {
	items, err := array(v, "notes")
	if err != nil {
		return err
	}

	for i, item := range items {
		on, ok, err := seconds(item, "on")
		if err != nil {
			return fmt.Errorf("notes[%d].%w", i+1, err)
		}
		if !ok {
			return fmt.Errorf("notes[%d]: %w: missing on", i+1, ErrInvalidValue)
		}

		off, ok, err := seconds(item, "off")
		if err != nil {
			return fmt.Errorf("notes[%d].%w", i+1, err)
		}
		if !ok {
			off = -1
		} else if off < on {
			return fmt.Errorf("notes[%d]: %w: off %g before on %g", i+1, ErrInvalidValue, off, on)
		}

		p.Notes = append(p.Notes, Note{On: on, Off: off})
	}
	return nil
}

func (p *Patch) decodeHolds(v lua.LValue) error {
	items, err := array(v, "holds")
	if err != nil {
		return err
	}

	for i, item := range items {
		at, ok, err := seconds(item, "at")
		if err != nil {
			return fmt.Errorf("holds[%d].%w", i+1, err)
		}
		if !ok {
			return fmt.Errorf("holds[%d]: %w: missing at", i+1, ErrInvalidValue)
		}

		on, isBool := item.RawGetString("on").(lua.LBool)
		if !isBool {
			return fmt.Errorf("holds[%d].on: %w: want boolean", i+1, ErrInvalidValue)
		}

		p.Holds = append(p.Holds, HoldChange{At: at, On: bool(on)})
	}
	return nil
}

// Apply writes the patch values into reg. Values outside a parameter's range
// are clamped by the parameter.
func (p *Patch) Apply(reg *param.Registry) error {
	ids := make([]param.ID, 0, len(p.Values))
	for id := range p.Values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		prm := reg.Get(id)
		if prm == nil {
			return fmt.Errorf("apply preset: %w: %s not registered", ErrUnknownKey, id)
		}
		prm.SetPlainValue(p.Values[id])
	}
	return nil
}

// Duration returns the time of the last scripted event in seconds.
func (p *Patch) Duration() float64 {
	end := 0.0
	for _, n := range p.Notes {
		end = max(end, n.On, n.Off)
	}
	for _, h := range p.Holds {
		end = max(end, h.At)
	}
	return end
}

// Sequence converts the scripted notes and holds to a sample timeline.
func (p *Patch) Sequence(sampleRate float64) *midi.Sequence {
	toSample := func(s float64) int64 {
		return int64(math.Round(s * sampleRate))
	}

	seq := midi.NewSequence()
	for _, n := range p.Notes {
		if n.Off < 0 {
			seq.Add(toSample(n.On), midi.NoteOn(0))
			continue
		}
		seq.AddNote(toSample(n.On), toSample(n.Off))
	}
	for _, h := range p.Holds {
		seq.Add(toSample(h.At), midi.Hold(h.On, 0))
	}
	return seq
}
