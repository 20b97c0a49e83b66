// ABOUTME: Patch language parser
// ABOUTME: Compiles "name: node arg >> node arg" lines into chains
package synth

import (
	"fmt"
	"strconv"
	"strings"
)

// refUse records a ~reference so it can be validated once all chain names
// are known (references may point forward, and feedback is legal).
type refUse struct {
	name string
	line int
}

// parse compiles a full patch into a fresh set of chains. It never mutates
// engine state; the caller swaps the result in only on success.
func parse(code string, samples map[string]*Sample) ([]*chain, *PatchError) {
	var chains []*chain
	names := make(map[string]int)
	var refs []refUse

	for lineNo, raw := range strings.Split(code, "\n") {
		line := raw
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		no := lineNo + 1

		name, rest, ok := strings.Cut(line, ":")
		if !ok {
			return nil, &PatchError{Line: no, Msg: "expected \"name: node ...\""}
		}
		name = strings.TrimSpace(name)
		if !validChainName(name) {
			return nil, &PatchError{Line: no, Msg: fmt.Sprintf("invalid chain name %q", name)}
		}
		if _, dup := names[name]; dup {
			return nil, &PatchError{Line: no, Msg: fmt.Sprintf("duplicate chain %q", name)}
		}

		c := &chain{name: name, aux: strings.HasPrefix(name, "~")}
		for _, seg := range strings.Split(rest, ">>") {
			fields := strings.Fields(seg)
			if len(fields) == 0 {
				return nil, &PatchError{Line: no, Msg: "empty node between \">>\""}
			}
			node, err := buildNode(fields[0], fields[1:], samples, no, &refs)
			if err != nil {
				return nil, err
			}
			c.nodes = append(c.nodes, node)
			c.labels = append(c.labels, strings.Join(fields, " "))
		}
		names[name] = no
		chains = append(chains, c)
	}

	for _, r := range refs {
		if _, ok := names[r.name]; !ok {
			return nil, &PatchError{Line: r.line, Msg: fmt.Sprintf("reference to unknown chain %q", r.name)}
		}
	}
	return chains, nil
}

func validChainName(name string) bool {
	s := strings.TrimPrefix(name, "~")
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

func buildNode(label string, args []string, samples map[string]*Sample, line int, refs *[]refUse) (Node, *PatchError) {
	argc := func(n int) *PatchError {
		if len(args) != n {
			return &PatchError{Line: line, Msg: fmt.Sprintf("%s takes %d argument(s), got %d", label, n, len(args))}
		}
		return nil
	}
	parm := func(arg string) (param, *PatchError) {
		if strings.HasPrefix(arg, "~") {
			*refs = append(*refs, refUse{name: arg, line: line})
			return param{ref: arg}, nil
		}
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return param{}, &PatchError{Line: line, Msg: fmt.Sprintf("%s: bad argument %q", label, arg)}
		}
		return param{value: v}, nil
	}
	konst := func(arg string) (float64, *PatchError) {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return 0, &PatchError{Line: line, Msg: fmt.Sprintf("%s: bad argument %q", label, arg)}
		}
		return v, nil
	}

	switch label {
	case "sin", "saw", "squ", "tri":
		if err := argc(1); err != nil {
			return nil, err
		}
		p, err := parm(args[0])
		if err != nil {
			return nil, err
		}
		kind := map[string]oscKind{"sin": oscSin, "saw": oscSaw, "squ": oscSqu, "tri": oscTri}[label]
		return &osc{kind: kind, freq: p}, nil

	case "noiz":
		if err := argc(1); err != nil {
			return nil, err
		}
		seed, err := konst(args[0])
		if err != nil {
			return nil, err
		}
		return newNoiz(seed), nil

	case "constant":
		if err := argc(1); err != nil {
			return nil, err
		}
		p, err := parm(args[0])
		if err != nil {
			return nil, err
		}
		return &constant{value: p}, nil

	case "mul", "add":
		if err := argc(1); err != nil {
			return nil, err
		}
		p, err := parm(args[0])
		if err != nil {
			return nil, err
		}
		op := opMul
		if label == "add" {
			op = opAdd
		}
		return &arith{op: op, arg: p}, nil

	case "lpf", "hpf":
		if err := argc(2); err != nil {
			return nil, err
		}
		cut, err := parm(args[0])
		if err != nil {
			return nil, err
		}
		q, err := konst(args[1])
		if err != nil {
			return nil, err
		}
		if q <= 0 {
			return nil, &PatchError{Line: line, Msg: fmt.Sprintf("%s: q must be positive", label)}
		}
		mode := modeLPF
		if label == "hpf" {
			mode = modeHPF
		}
		return &biquad{mode: mode, cutoff: cut, q: q}, nil

	case "sp":
		if err := argc(1); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(args[0], `\`) {
			return nil, &PatchError{Line: line, Msg: `sp takes a \sample argument`}
		}
		name := strings.TrimPrefix(args[0], `\`)
		smp, ok := samples[name]
		if !ok {
			return nil, &PatchError{Line: line, Msg: fmt.Sprintf("unknown sample %q", name)}
		}
		return &sampler{name: name, smp: smp}, nil
	}
	return nil, &PatchError{Line: line, Msg: fmt.Sprintf("unknown node %q", label)}
}
