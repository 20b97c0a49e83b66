// ABOUTME: Node interface and parameter plumbing for chain processing
// ABOUTME: Parameters are either float constants or ~chain modulation refs
package synth

// procCtx carries per-block processing context into nodes.
type procCtx struct {
	sr  float64
	ref func(name string) *[BlockSize]float32
}

// Node processes one block of mono audio. Source nodes overwrite buf,
// transform nodes modify it in place.
type Node interface {
	Process(buf *[BlockSize]float32, ctx *procCtx)
}

// param is a node argument: a constant, or a reference to an auxiliary
// chain whose previous block modulates the value sample by sample.
type param struct {
	value float64
	ref   string
}

// modBlock resolves the modulation source for this block, or nil for a
// constant parameter.
func (p param) modBlock(ctx *procCtx) *[BlockSize]float32 {
	if p.ref == "" {
		return nil
	}
	return ctx.ref(p.ref)
}

// at returns the parameter value for frame i given an already resolved
// modulation block.
func (p param) at(mod *[BlockSize]float32, i int) float64 {
	if mod == nil {
		return p.value
	}
	return float64(mod[i])
}
