package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var circuitCmd = &cobra.Command{
	Use:   "circuit",
	Short: "Print the thermal circuit of a floorplan.",
	Long: "`circuit -f chip.flp` prints the unit and node counts, the node " +
		"capacitances and the conductance matrix.",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := open(cmd)
		if err != nil {
			log.Fatalf("Error building circuit: %v", err)
		}
		output, _ := cmd.Flags().GetString("output")
		w, err := create(output)
		if err != nil {
			log.Fatalf("Error creating output: %v", err)
		}
		defer w.Close()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if err := s.circuit.Export(w); err != nil {
				log.Fatalf("Error writing circuit: %v", err)
			}
			return
		}
		c := s.circuit
		out := bufio.NewWriter(w)
		fmt.Fprintf(out, "units: %d\nnodes: %d\n\ncapacitance (J/K):\n", c.Cores, c.Nodes)
		names := s.model.NodeNames()
		for i, v := range c.Capacitance {
			fmt.Fprintf(out, "%s\t%g\n", names[i], v)
		}
		fmt.Fprintf(out, "\nconductance (W/K):\n")
		for i := 0; i < c.Nodes; i++ {
			for j := 0; j < c.Nodes; j++ {
				if j > 0 {
					out.WriteByte('\t')
				}
				fmt.Fprintf(out, "%g", c.At(i, j))
			}
			out.WriteByte('\n')
		}
		if err := out.Flush(); err != nil {
			log.Fatalf("Error writing circuit: %v", err)
		}
		if dump, _ := cmd.Flags().GetBool("dump-config"); dump {
			if err := s.cfg.Write(os.Stderr); err != nil {
				log.Fatalf("Error writing configuration: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(circuitCmd)
	circuitCmd.Flags().Bool("json", false, "print the circuit as JSON")
	circuitCmd.Flags().StringP("output", "o", "", "output file, stdout when empty")
	circuitCmd.Flags().Bool("dump-config", false, "print the effective configuration to stderr")
}
