package main

import (
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"hotspot/report"
	"hotspot/thermal"
	"hotspot/trace"
)

var transientCmd = &cobra.Command{
	Use:   "transient",
	Short: "Simulate transient temperatures.",
	Long: "`transient -f chip.flp -p chip.ptrace` advances the thermal circuit " +
		"by sampling_intvl for every row of the power trace and writes the " +
		"silicon temperatures as a temperature trace.",
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
		name, _ := cmd.Flags().GetString("method")
		method, err := thermal.ParseMethod(name)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		solver, err := thermal.NewSolver(s.circuit, s.cfg.Ambient, method)
		if err != nil {
			log.Fatalf("Error creating solver: %v", err)
		}
		names := s.model.NodeNames()
		if s.cfg.InitFile != "" {
			temps, err := trace.LoadSteady(s.cfg.InitFile, names)
			if err != nil {
				log.Fatalf("Error reading initial temperatures: %v", err)
			}
			if err := solver.SetTemperatures(temps); err != nil {
				log.Fatalf("Error reading initial temperatures: %v", err)
			}
		} else {
			solver.SetUniform(s.cfg.InitTemp)
		}

		output, _ := cmd.Flags().GetString("output")
		w, err := create(output)
		if err != nil {
			log.Fatalf("Error creating output: %v", err)
		}
		defer w.Close()
		silicon := make([]int, s.circuit.Cores)
		for i := range silicon {
			silicon[i] = i
		}
		tw, err := trace.NewWriter(w, names, silicon)
		if err != nil {
			log.Fatalf("Error writing temperature trace: %v", err)
		}
		rec, err := report.NewRecord(names, silicon)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		steps, _ := cmd.Flags().GetInt("steps")
		err = solver.Run(power.Samples, s.cfg.SamplingInterval, steps, func(time float64, temps []float64) {
			rec.Update(time, temps)
			if err := tw.Write(temps); err != nil {
				log.Fatalf("Error writing temperature trace: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("Error simulating: %v", err)
		}
		if err := tw.Flush(); err != nil {
			log.Fatalf("Error writing temperature trace: %v", err)
		}

		charts := &report.Charts{Record: *rec, Circuit: s.circuit, Nodes: names}
		if html, _ := cmd.Flags().GetString("html"); html != "" {
			f, err := os.Create(html)
			if err != nil {
				log.Fatalf("Error creating page: %v", err)
			}
			defer f.Close()
			if err := charts.Render(f); err != nil {
				log.Fatalf("Error rendering page: %v", err)
			}
		}
		if png, _ := cmd.Flags().GetString("png"); png != "" && rec.Len() > 0 {
			p, err := report.PlotTransient(rec, "transient")
			if err != nil {
				log.Fatalf("Error plotting: %v", err)
			}
			f, err := os.Create(png)
			if err != nil {
				log.Fatalf("Error creating image: %v", err)
			}
			defer f.Close()
			if err := report.WritePNG(f, p, 20, 12); err != nil {
				log.Fatalf("Error writing image: %v", err)
			}
		}
		if addr, _ := cmd.Flags().GetString("serve"); addr != "" {
			mux := http.NewServeMux()
			mux.HandleFunc("/", charts.Handler)
			log.Printf("Serving charts on %s", addr)
			log.Fatal(http.ListenAndServe(addr, mux))
		}
	},
}

func init() {
	rootCmd.AddCommand(transientCmd)
	transientCmd.Flags().StringP("ptrace", "p", "", "power trace file (.ptrace)")
	transientCmd.Flags().StringP("output", "o", "", "temperature trace file, stdout when empty")
	transientCmd.Flags().String("method", "euler", "integration method: euler or trapezoidal")
	transientCmd.Flags().Int("steps", 1, "solver steps per sampling interval")
	transientCmd.Flags().String("html", "", "write an HTML page with the thermal network and temperature curves")
	transientCmd.Flags().String("png", "", "write a temperature chart")
	transientCmd.Flags().String("serve", "", "serve the HTML page on this address after the run")
	transientCmd.MarkFlagRequired("ptrace")
}
