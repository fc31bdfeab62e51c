// Command spice parses a netlist, formulates its total linear system, and
// prints every node voltage and branch current.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yasu-a/spice/pkg/circuit"
	"github.com/yasu-a/spice/pkg/component"
	"github.com/yasu-a/spice/pkg/format"
	"github.com/yasu-a/spice/pkg/formulate"
	"github.com/yasu-a/spice/pkg/linear"
	"github.com/yasu-a/spice/pkg/netlist"
	"github.com/yasu-a/spice/pkg/solve"
)

func main() {
	verbose := flag.Bool("v", false, "log equation formulation at debug level")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal().Msg("usage: spice <netlist_file>")
	}

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Str("file", flag.Arg(0)).Msg("reading netlist")
	}

	nl, err := netlist.Parse(string(content), component.DefaultRegistry())
	if err != nil {
		log.Fatal().Err(err).Msg("parsing netlist")
	}

	graph := nl.Graph()
	log.Debug().
		Str("title", nl.Title).
		Int("components", len(nl.Components)).
		Msg("parsed netlist")

	f := formulate.New(graph).WithLogger(log.Logger)

	system, err := f.TotalSystem()
	if err != nil {
		log.Fatal().Err(err).Msg("formulating total system")
	}

	unknowns, a, c, err := formulate.Matrix(system)
	if err != nil {
		log.Fatal().Err(err).Msg("assembling matrix")
	}

	x, singular, err := solve.Solve(a, c)
	if err != nil {
		log.Fatal().Err(err).Msg("solving system")
	}
	if singular {
		log.Warn().Msg("system is singular or underdetermined; some quantities may be arbitrary")
	}

	solution := make(map[string]float64, len(unknowns))
	for i, name := range unknowns {
		solution[name] = x[i]
	}

	results, err := f.Results(solution)
	if err != nil {
		log.Fatal().Err(err).Msg("expanding results")
	}

	printResults(graph, results)
}

// printResults renders every node's voltage and every edge's current,
// ground excluded, in ascending name order.
func printResults(graph circuit.Graph, results map[string]float64) {
	fmt.Println("Node Voltages:")
	for _, n := range graph.Nodes() {
		if n.IsGround() {
			continue
		}
		name := linear.NodePotential{Node: n}.CanonicalName()
		fmt.Printf("  V(%s) = %s\n", n.Name, format.WithUnit(results[name], "V"))
	}

	fmt.Println("Branch Currents:")
	edges := graph.Edges()
	sort.Slice(edges, func(i, j int) bool { return edges[i].Name() < edges[j].Name() })
	for _, e := range edges {
		name := linear.EdgeCurrent{Edge: e}.CanonicalName()
		v, ok := results[name]
		if !ok {
			continue
		}
		fmt.Printf("  I(%s) = %s\n", e.Name(), format.WithUnit(v, "A"))
	}
}
