// Package netlist parses the SPICE-like textual format of spec §4.B/§6
// into component instances, resolving each line against a component
// registry.
package netlist

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/yasu-a/spice/pkg/circuit"
	"github.com/yasu-a/spice/pkg/component"
	"github.com/yasu-a/spice/pkg/expr"
	"github.com/yasu-a/spice/pkg/spiceerr"
)

// NetList is a parsed source: a title and an ordered list of component
// instances. Directive lines (leading '.') are recognized and discarded.
type NetList struct {
	Title      string
	Components []component.Instance
}

// Graph derives the circuit graph from the parsed components.
func (n NetList) Graph() circuit.Graph {
	comps := make([]circuit.Component, len(n.Components))
	for i, c := range n.Components {
		comps[i] = c
	}
	return circuit.NewGraph(comps)
}

// Parse reads source line by line: line 1 is the title, '*' lines are
// comments, '.' lines are ignored directives, every other non-empty line
// is a component line parsed against registry.
func Parse(source string, registry component.Registry) (NetList, error) {
	scanner := bufio.NewScanner(strings.NewReader(source))
	var title string
	var components []component.Instance
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSpace(scanner.Text())
		switch {
		case lineNo == 1:
			title = raw
		case raw == "":
		case strings.HasPrefix(raw, "*"):
		case strings.HasPrefix(raw, "."):
		default:
			inst, err := parseComponentLine(lineNo, raw, registry)
			if err != nil {
				return NetList{}, err
			}
			components = append(components, inst)
		}
	}
	if err := scanner.Err(); err != nil {
		return NetList{}, fmt.Errorf("reading netlist: %w", err)
	}
	return NetList{Title: title, Components: components}, nil
}

// parseComponentLine parses "<name> <node1> <node2> <value-expr>". If no
// class prefix matches name, it attempts the behavioral rewrite of §4.B:
// the value expression must parse as a NamedValue whose name selects a
// class by forced prefix.
func parseComponentLine(lineNo int, line string, registry component.Registry) (component.Instance, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return component.Instance{}, fmt.Errorf(
			"line %d: expected <name> <node1> <node2> <value-expr>, got %q: %w",
			lineNo, line, spiceerr.ErrParse,
		)
	}
	name, n1, n2 := fields[0], fields[1], fields[2]
	exprText := strings.Join(fields[3:], " ")

	if class, ok := registry.FindByPrefix(name); ok {
		return buildInstance(lineNo, line, class, name, n1, n2, exprText)
	}

	model, err := expr.Parse(exprText)
	if err != nil {
		return component.Instance{}, fmt.Errorf("line %d: %w", lineNo, err)
	}
	named, ok := model.(expr.Named)
	if !ok {
		return component.Instance{}, fmt.Errorf(
			"line %d: unknown class prefix %q and value is not an assignment: %w",
			lineNo, name, spiceerr.ErrParse,
		)
	}
	forcedClass, ok := registry.FindByPrefix(named.Name)
	if !ok {
		return component.Instance{}, fmt.Errorf(
			"line %d: behavioral assignment %q does not select a known class: %w",
			lineNo, named.Name, spiceerr.ErrParse,
		)
	}
	return component.Instance{
		Class:      forcedClass,
		Name:       name,
		NodeHigh:   circuit.Node{Name: n1},
		NodeLow:    circuit.Node{Name: n2},
		Model:      named.X,
		SourceLine: line,
	}, nil
}

func buildInstance(lineNo int, line string, class component.Class, name, n1, n2, exprText string) (component.Instance, error) {
	model, err := expr.Parse(exprText)
	if err != nil {
		return component.Instance{}, fmt.Errorf("line %d: %w", lineNo, err)
	}
	return component.Instance{
		Class:      class,
		Name:       name,
		NodeHigh:   circuit.Node{Name: n1},
		NodeLow:    circuit.Node{Name: n2},
		Model:      model,
		SourceLine: line,
	}, nil
}
