package expr

// Parsing reuses go/parser and go/ast instead of a hand-rolled
// recursive-descent parser, the same trick bfix-dynamo's DYNAMO equation
// reader (src/dynamo/equation.go) uses to turn a small arithmetic DSL into
// an AST: the host language's own expression grammar is a superset of ours,
// so we parse with it and reject anything outside our subset.

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"strconv"
	"strings"

	"github.com/yasu-a/spice/pkg/spiceerr"
)

// unitSuffix is one entry of the engineering-unit lookup table. Longest
// alias names are tried first so "Meg" is not swallowed by a hypothetical
// shorter alias sharing its prefix.
type unitSuffix struct {
	alias  string
	factor float64
}

var unitSuffixes = []unitSuffix{
	{"Giga", 1e9}, {"Gig", 1e9}, {"G", 1e9},
	{"Mega", 1e6}, {"Meg", 1e6}, {"M", 1e6},
	{"K", 1e3}, {"k", 1e3},
	{"m", 1e-3},
	{"u", 1e-6},
	{"n", 1e-9},
	{"p", 1e-12},
}

var numberRe = regexp.MustCompile(`[+-]?(\d+\.\d*|\.\d+|\d+)([eE][+-]?\d+)?`)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// normalizeUnits multiplies every numeric literal by the engineering-unit
// suffix that immediately follows it, per the longest-match table above. A
// suffix is only consumed when it is not itself the start of a longer
// identifier (so in "1mA" the "m" is not read as milli, and in "1kOhms" the
// "k" is not read as kilo; the number is left unscaled).
func normalizeUnits(src string) string {
	var out strings.Builder
	pos := 0
	for pos < len(src) {
		loc := numberRe.FindStringIndex(src[pos:])
		if loc == nil {
			out.WriteString(src[pos:])
			break
		}
		start, end := pos+loc[0], pos+loc[1]

		// The match must not begin mid-identifier (e.g. the "2" in "x2").
		if start > 0 && isIdentByte(src[start-1]) && src[start-1] != '+' && src[start-1] != '-' {
			out.WriteString(src[pos : start+1])
			pos = start + 1
			continue
		}

		out.WriteString(src[pos:start])
		numText := src[start:end]
		num, err := strconv.ParseFloat(numText, 64)
		if err != nil {
			out.WriteString(numText)
			pos = end
			continue
		}

		suffixEnd := end
		factor := 1.0
		for _, u := range unitSuffixes {
			n := len(u.alias)
			if end+n <= len(src) && src[end:end+n] == u.alias {
				// Reject if more identifier characters follow (e.g. "Meg"
				// inside "Megabyte" is not a unit suffix here).
				if end+n < len(src) && isIdentByte(src[end+n]) {
					continue
				}
				factor = u.factor
				suffixEnd = end + n
				break
			}
		}

		out.WriteString(strconv.FormatFloat(num*factor, 'g', -1, 64))
		pos = suffixEnd
	}
	return out.String()
}

func normalizeWhitespace(src string) string {
	return strings.Join(strings.Fields(src), " ")
}

// Parse parses a value expression in the infix grammar of spec.md §4.A:
// numeric literals with engineering-unit suffixes, identifiers, unary
// minus, +/* binary operators, function calls (V/I become probes, anything
// else a generic Call), and a single top-level `name = expr` assignment
// producing a Named node.
func Parse(src string) (Expr, error) {
	normalized := normalizeUnits(normalizeWhitespace(strings.TrimSpace(src)))
	if normalized == "" {
		return nil, fmt.Errorf("empty expression: %w", spiceerr.ErrParse)
	}

	if name, body, isAssign := splitAssignment(normalized); isAssign {
		bodyExpr, err := parseGoExpr(body)
		if err != nil {
			return nil, err
		}
		return Named{Name: name, X: bodyExpr}, nil
	}

	return parseGoExpr(normalized)
}

// splitAssignment detects a single top-level "name = expr" at the start of
// the string. Our grammar never contains "=" for any other purpose, so the
// first "=" (if any) is always the assignment delimiter.
func splitAssignment(src string) (name, body string, ok bool) {
	idx := strings.Index(src, "=")
	if idx < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(src[:idx])
	body = strings.TrimSpace(src[idx+1:])
	if !identRe.MatchString(name) {
		return "", "", false
	}
	return name, body, true
}

func parseGoExpr(src string) (Expr, error) {
	node, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("parsing expression %q: %v: %w", src, err, spiceerr.ErrParse)
	}
	return convertNode(node)
}

func convertNode(n ast.Expr) (Expr, error) {
	switch x := n.(type) {
	case *ast.ParenExpr:
		return convertNode(x.X)

	case *ast.BasicLit:
		if x.Kind != token.INT && x.Kind != token.FLOAT {
			return nil, fmt.Errorf("unsupported literal %q: %w", x.Value, spiceerr.ErrParse)
		}
		v, err := strconv.ParseFloat(x.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid numeric literal %q: %w", x.Value, spiceerr.ErrParse)
		}
		return Constant{Value: v}, nil

	case *ast.Ident:
		return Variable{Name: x.Name}, nil

	case *ast.UnaryExpr:
		if x.Op != token.SUB {
			return nil, fmt.Errorf("unsupported unary operator %q: %w", x.Op, spiceerr.ErrParse)
		}
		inner, err := convertNode(x.X)
		if err != nil {
			return nil, err
		}
		return Negate{X: inner}, nil

	case *ast.BinaryExpr:
		a, err := convertNode(x.X)
		if err != nil {
			return nil, err
		}
		b, err := convertNode(x.Y)
		if err != nil {
			return nil, err
		}
		switch x.Op {
		case token.ADD:
			return Add{A: a, B: b}, nil
		case token.MUL:
			return Mul{A: a, B: b}, nil
		default:
			return nil, fmt.Errorf("unsupported binary operator %q (only + and * are recognized): %w", x.Op, spiceerr.ErrParse)
		}

	case *ast.CallExpr:
		fn, ok := x.Fun.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("unsupported call target: %w", spiceerr.ErrParse)
		}
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			conv, err := convertNode(a)
			if err != nil {
				return nil, err
			}
			args[i] = conv
		}
		if len(args) == 1 {
			switch fn.Name {
			case "V", "v":
				return Probe{Kind: VoltageProbeKind, Name: args[0].String()}, nil
			case "I", "i":
				return Probe{Kind: CurrentProbeKind, Name: args[0].String()}, nil
			}
		}
		return Call{Name: fn.Name, Args: args}, nil

	default:
		return nil, fmt.Errorf("unsupported syntax: %w", spiceerr.ErrParse)
	}
}
