package process

// ProcessChannels calls fn for every output channel of the current block
func (ctx *Context) ProcessChannels(fn func(ch int, output []float32)) {
	for ch := range ctx.Output {
		fn(ch, ctx.Output[ch])
	}
}

// Interleave writes the current block into dst frame by frame
// (ch0, ch1, ..., ch0, ch1, ...) and returns the number of frames written.
// A short dst writes only whole frames.
func (ctx *Context) Interleave(dst []float32) int {
	numChannels := ctx.NumOutputChannels()
	if numChannels == 0 {
		return 0
	}

	frames := ctx.NumSamples()
	if limit := len(dst) / numChannels; frames > limit {
		frames = limit
	}

	for i := 0; i < frames; i++ {
		base := i * numChannels
		for ch := 0; ch < numChannels; ch++ {
			dst[base+ch] = ctx.Output[ch][i]
		}
	}
	return frames
}

// CopyChannel copies channel ch of the current block into dst
func (ctx *Context) CopyChannel(ch int, dst []float32) int {
	if ch < 0 || ch >= ctx.NumOutputChannels() {
		return 0
	}
	return copy(dst, ctx.Output[ch])
}
