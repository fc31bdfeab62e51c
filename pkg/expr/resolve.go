package expr

import "fmt"

// ProbeContext supplies the canonical Variable standing in for a node's
// potential or an edge's current, keyed by the name the netlist used.
type ProbeContext struct {
	NodeVariable func(name string) (Expr, bool)
	EdgeVariable func(name string) (Expr, bool)
}

// ResolveProbes walks e and returns a new tree with every Probe replaced by
// its canonical Variable, plus the sorted-free list of probe names that
// could not be resolved against ctx. It never mutates e: resolution is a
// pure rewrite, separate from evaluation, so the same body can be resolved
// against different contexts.
func ResolveProbes(e Expr, ctx ProbeContext) (Expr, []string, error) {
	var unresolved []string
	out, err := resolveNode(e, ctx, &unresolved)
	if err != nil {
		return nil, nil, err
	}
	return out, unresolved, nil
}

func resolveNode(e Expr, ctx ProbeContext, unresolved *[]string) (Expr, error) {
	switch x := e.(type) {
	case Probe:
		var lookup func(string) (Expr, bool)
		switch x.Kind {
		case VoltageProbeKind:
			lookup = ctx.NodeVariable
		case CurrentProbeKind:
			lookup = ctx.EdgeVariable
		default:
			return nil, fmt.Errorf("unknown probe kind %v", x.Kind)
		}
		if lookup == nil {
			*unresolved = append(*unresolved, x.Name)
			return x, nil
		}
		if v, ok := lookup(x.Name); ok {
			return v, nil
		}
		*unresolved = append(*unresolved, x.Name)
		return x, nil

	case Negate:
		inner, err := resolveNode(x.X, ctx, unresolved)
		if err != nil {
			return nil, err
		}
		return Negate{X: inner}, nil

	case Invert:
		inner, err := resolveNode(x.X, ctx, unresolved)
		if err != nil {
			return nil, err
		}
		return Invert{X: inner}, nil

	case Add:
		a, err := resolveNode(x.A, ctx, unresolved)
		if err != nil {
			return nil, err
		}
		b, err := resolveNode(x.B, ctx, unresolved)
		if err != nil {
			return nil, err
		}
		return Add{A: a, B: b}, nil

	case Mul:
		a, err := resolveNode(x.A, ctx, unresolved)
		if err != nil {
			return nil, err
		}
		b, err := resolveNode(x.B, ctx, unresolved)
		if err != nil {
			return nil, err
		}
		return Mul{A: a, B: b}, nil

	case Call:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			r, err := resolveNode(a, ctx, unresolved)
			if err != nil {
				return nil, err
			}
			args[i] = r
		}
		return Call{Name: x.Name, Args: args}, nil

	case Named:
		// Named does not descend for Children/Simplify (see expr.go); it
		// does not descend here either, matching that same leaf behavior.
		return x, nil

	default:
		// Constant, Variable: no probes below.
		return e, nil
	}
}
