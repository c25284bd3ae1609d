// Command jess scans one or more PDB molecule files against a library of
// geometric templates and reports every substructure whose atoms satisfy
// the template's identity, distance, and coherence constraints and
// superpose onto it within the configured RMSD threshold.
//
// This is the "external collaborator" driver named in spec.md §1/§6: it
// wires the engine packages (internal/molecule, internal/jesstemplate,
// internal/scanner, internal/query, internal/hitio) together but carries
// none of their invariants itself.
package main

import (
	"fmt"
	"os"

	"github.com/iriziotis/jess/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
