package expr

// AsLinearProbe inspects an already-built expression to recover the
// (factor, probed-name, probe-kind) triple of a behavioral source body that
// is a bare scaled probe: `k * V(name)`, `V(name) * k`, `V(name)`, or any of
// those negated. This mirrors original_source/netlist.py's parse_linear,
// used there to introspect behavioral sources after construction rather
// than threading the factor through the parser itself.
func AsLinearProbe(e Expr) (factor float64, probeName string, probeKind ProbeKind, ok bool) {
	switch x := e.(type) {
	case Probe:
		return 1, x.Name, x.Kind, true

	case Negate:
		f, name, kind, ok := AsLinearProbe(x.X)
		if !ok {
			return 0, "", 0, false
		}
		return -f, name, kind, true

	case Mul:
		if c, isConst := x.A.(Constant); isConst {
			if p, isProbe := x.B.(Probe); isProbe {
				return c.Value, p.Name, p.Kind, true
			}
		}
		if c, isConst := x.B.(Constant); isConst {
			if p, isProbe := x.A.(Probe); isProbe {
				return c.Value, p.Name, p.Kind, true
			}
		}
		return 0, "", 0, false

	default:
		return 0, "", 0, false
	}
}
