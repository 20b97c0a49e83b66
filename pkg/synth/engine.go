// ABOUTME: The block-based synthesis engine
// ABOUTME: Owns chains, advances them one block at a time, applies patches
package synth

// chain is one named node pipeline. cur holds the block being computed,
// prev the previous block, which is what ~references read.
type chain struct {
	name   string
	aux    bool
	nodes  []Node
	labels []string

	cur  [BlockSize]float32
	prev [BlockSize]float32
}

// ChainInfo is a read-only description of a chain for display purposes.
type ChainInfo struct {
	Name  string
	Aux   bool
	Nodes []string
}

// Engine holds the active signal graph and per-node state. It is not safe
// for concurrent use; see internal/bridge.Handle for the locking wrapper.
type Engine struct {
	sampleRate int
	live       bool
	chains     []*chain
	index      map[string]*chain
	samples    map[string]*Sample
	out        Block
}

var zeroBlock [BlockSize]float32

// NewEngine creates an engine with an empty graph at 44.1kHz.
func NewEngine() *Engine {
	return &Engine{
		sampleRate: 44100,
		index:      make(map[string]*chain),
		samples:    make(map[string]*Sample),
	}
}

// SetSampleRate sets the engine rate. Call before the audio stream starts.
func (e *Engine) SetSampleRate(rate int) {
	if rate > 0 {
		e.sampleRate = rate
	}
}

// SampleRate returns the engine rate.
func (e *Engine) SampleRate() int {
	return e.sampleRate
}

// SetLiveMode controls whether node state survives patch swaps. With live
// mode on, a node keeps its phase/position when the new patch has a node of
// the same kind at the same position in a chain of the same name.
func (e *Engine) SetLiveMode(live bool) {
	e.live = live
}

// AddSample registers decoded sample data under a name for the "sp" node.
func (e *Engine) AddSample(name string, data [][]float32, rate int) {
	e.samples[name] = &Sample{Data: data, Rate: rate}
}

// ApplyPatch compiles code and swaps it in. On error the previous graph
// stays active and keeps producing audio.
func (e *Engine) ApplyPatch(code string) error {
	chains, perr := parse(code, e.samples)
	if perr != nil {
		return perr
	}
	if e.live {
		carryState(chains, e.index)
	}
	e.chains = chains
	e.index = make(map[string]*chain, len(chains))
	for _, c := range chains {
		e.index[c.name] = c
	}
	return nil
}

// carryState moves oscillator phase, sampler position and filter memory
// from matching nodes of the outgoing graph into the incoming one.
func carryState(chains []*chain, old map[string]*chain) {
	for _, c := range chains {
		oc, ok := old[c.name]
		if !ok {
			continue
		}
		n := len(c.nodes)
		if len(oc.nodes) < n {
			n = len(oc.nodes)
		}
		for i := 0; i < n; i++ {
			switch nw := c.nodes[i].(type) {
			case *osc:
				if prev, ok := oc.nodes[i].(*osc); ok && prev.kind == nw.kind {
					nw.phase = prev.phase
				}
			case *sampler:
				if prev, ok := oc.nodes[i].(*sampler); ok && prev.name == nw.name {
					nw.pos = prev.pos
				}
			case *biquad:
				if prev, ok := oc.nodes[i].(*biquad); ok && prev.mode == nw.mode {
					nw.x1, nw.x2, nw.y1, nw.y2 = prev.x1, prev.x2, prev.y1, prev.y2
				}
			}
		}
		// NextBlock rotates cur into prev before processing, so the
		// reference history has to ride in cur across the swap.
		c.cur = oc.cur
	}
}

// NextBlock advances every chain by exactly one block and returns the mix.
// The returned Block is reused; it is valid until the next call.
func (e *Engine) NextBlock() *Block {
	for _, c := range e.chains {
		c.prev = c.cur
	}
	ctx := &procCtx{sr: float64(e.sampleRate), ref: e.refBlock}
	for _, c := range e.chains {
		c.cur = zeroBlock
		for _, n := range c.nodes {
			n.Process(&c.cur, ctx)
		}
	}

	e.out[0] = zeroBlock
	e.out[1] = zeroBlock
	for _, c := range e.chains {
		if c.aux {
			continue
		}
		for i := 0; i < BlockSize; i++ {
			e.out[0][i] += c.cur[i]
			e.out[1][i] += c.cur[i]
		}
	}
	return &e.out
}

func (e *Engine) refBlock(name string) *[BlockSize]float32 {
	if c, ok := e.index[name]; ok {
		return &c.prev
	}
	return &zeroBlock
}

// Graph returns a snapshot of the active chains for display.
func (e *Engine) Graph() []ChainInfo {
	infos := make([]ChainInfo, 0, len(e.chains))
	for _, c := range e.chains {
		nodes := make([]string, len(c.labels))
		copy(nodes, c.labels)
		infos = append(infos, ChainInfo{Name: c.name, Aux: c.aux, Nodes: nodes})
	}
	return infos
}
