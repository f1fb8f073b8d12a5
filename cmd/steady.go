package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"hotspot/report"
	"hotspot/thermal"
	"hotspot/trace"
)

var steadyCmd = &cobra.Command{
	Use:   "steady",
	Short: "Compute steady-state temperatures.",
	Long: "`steady -f chip.flp -p chip.ptrace` solves the steady-state " +
		"temperatures for the average power of the trace.",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := open(cmd)
		if err != nil {
			log.Fatalf("Error building circuit: %v", err)
		}
		ptrace, _ := cmd.Flags().GetString("ptrace")
		power, err := trace.LoadPower(ptrace)
		if err != nil {
			log.Fatalf("Error reading power trace: %v", err)
		}
		if power, err = power.Reorder(s.flp); err != nil {
			log.Fatalf("Error reading power trace: %v", err)
		}
		temps, err := thermal.Steady(s.circuit, power.Average(), s.cfg.Ambient)
		if err != nil {
			log.Fatalf("Error solving steady state: %v", err)
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = s.cfg.SteadyFile
		}
		w, err := create(output)
		if err != nil {
			log.Fatalf("Error creating output: %v", err)
		}
		defer w.Close()
		if err := trace.WriteSteady(w, s.model.NodeNames(), temps); err != nil {
			log.Fatalf("Error writing temperatures: %v", err)
		}

		i, peak := thermal.Max(temps[:s.circuit.Cores])
		fmt.Fprintf(os.Stderr, "hottest unit %s: %.2f C\n", s.flp.Units[i].Name, trace.ToCelsius(peak))
		if peak > s.cfg.ThermalThreshold {
			fmt.Fprintf(os.Stderr, "warning: above thermal threshold %.2f C\n", trace.ToCelsius(s.cfg.ThermalThreshold))
		}

		if png, _ := cmd.Flags().GetString("png"); png != "" {
			p, err := report.PlotFloorplan(s.flp, temps[:s.circuit.Cores], "steady state")
			if err != nil {
				log.Fatalf("Error plotting floorplan: %v", err)
			}
			f, err := os.Create(png)
			if err != nil {
				log.Fatalf("Error creating image: %v", err)
			}
			defer f.Close()
			if err := report.WritePNG(f, p, 16, 16); err != nil {
				log.Fatalf("Error writing image: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(steadyCmd)
	steadyCmd.Flags().StringP("ptrace", "p", "", "power trace file (.ptrace)")
	steadyCmd.Flags().StringP("output", "o", "", "steady temperature file, steady_file or stdout when empty")
	steadyCmd.Flags().String("png", "", "write a floorplan temperature map")
	steadyCmd.MarkFlagRequired("ptrace")
}
