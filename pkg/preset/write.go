package preset

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/justyntemme/monosynth/pkg/framework/param"
)

// FromRegistry captures the current value of every registered parameter.
func FromRegistry(name string, reg *param.Registry) *Patch {
	p := &Patch{Name: name, Values: make(map[param.ID]float64)}
	for _, prm := range reg.All() {
		p.Values[prm.ID] = prm.GetPlainValue()
	}
	return p
}

// Write encodes the patch as Lua source that Load reads back.
func (p *Patch) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if p.Name != "" {
		fmt.Fprintf(bw, "name = %s\n\n", strconv.Quote(p.Name))
	}

	ids := make([]param.ID, 0, len(p.Values))
	for id := range p.Values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	bw.WriteString("patch = {\n")
	for _, id := range ids {
		fmt.Fprintf(bw, "    %s = %s,\n", id.Key(), luaValue(layout.Get(id), p.Values[id]))
	}
	bw.WriteString("}\n")

	if len(p.Notes) > 0 {
		bw.WriteString("\nnotes = {\n")
		for _, n := range p.Notes {
			if n.Off < 0 {
				fmt.Fprintf(bw, "    { on = %s },\n", number(n.On))
				continue
			}
			fmt.Fprintf(bw, "    { on = %s, off = %s },\n", number(n.On), number(n.Off))
		}
		bw.WriteString("}\n")
	}

	if len(p.Holds) > 0 {
		bw.WriteString("\nholds = {\n")
		for _, h := range p.Holds {
			fmt.Fprintf(bw, "    { at = %s, on = %t },\n", number(h.At), h.On)
		}
		bw.WriteString("}\n")
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write preset: %w", err)
	}
	return nil
}

func luaValue(prm *param.Parameter, plain float64) string {
	switch {
	case prm.Flags&param.IsList != 0:
		return strconv.Quote(prm.FormatValue(prm.Normalize(plain)))
	case prm.StepCount == 1:
		return strconv.FormatBool(plain > (prm.Min+prm.Max)/2)
	default:
		return number(plain)
	}
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
