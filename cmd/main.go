package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/edp1096/toy-dd/pkg/analysis"
	"github.com/edp1096/toy-dd/pkg/deck"
	"github.com/edp1096/toy-dd/pkg/system"
	"github.com/edp1096/toy-dd/pkg/util"
)

var (
	deckFile = flag.String("deck", "", "device deck file (yaml)")
	verbose  = flag.Bool("v", false, "per-step solver logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(logger)

	if *deckFile == "" {
		fmt.Fprintln(os.Stderr, "usage: toy-dd -deck device.yaml [-v]")
		os.Exit(1)
	}

	d, err := deck.Load(*deckFile)
	if err != nil {
		logger.Error("loading deck", "error", err)
		os.Exit(1)
	}

	dev, err := d.Build()
	if err != nil {
		logger.Error("building device", "error", err)
		os.Exit(1)
	}

	sys, err := system.New(dev.Mesh, dev.Phys)
	if err != nil {
		logger.Error("building system", "error", err)
		os.Exit(1)
	}
	defer sys.Destroy()

	conv := d.Convergence()

	logger.Info("solving equilibrium", "device", d.Device,
		"nodes", dev.Mesh.NumNodes(), "carriers", dev.Store.Layout.NumCarriers)
	eq := analysis.NewEquilibrium(sys, conv, logger)
	if err := eq.Execute(); err != nil {
		logger.Error("equilibrium failed", "error", err)
		os.Exit(1)
	}

	if d.Sweep == nil {
		printPotential(dev, eq.Solution())
		return
	}

	sw, err := buildSweep(d, sys, conv, logger)
	if err != nil {
		logger.Error("building sweep", "error", err)
		os.Exit(1)
	}

	logger.Info("running bias sweep", "contact", d.Sweep.Contact, "steps", len(sw.Biases))
	if err := sw.Execute(eq.Solution()); err != nil {
		logger.Error("bias sweep failed", "error", err)
		os.Exit(1)
	}

	printIV(sw.Points())
}

func buildSweep(d *deck.Deck, sys *system.System, conv analysis.Convergence, logger *slog.Logger) (*analysis.Sweep, error) {
	s := d.Sweep
	area := d.Area.F()
	if area <= 0 {
		area = 1
	}
	if s.ScanRate > 0 {
		return analysis.NewScanSweep(sys, conv, logger, s.Contact,
			s.ScanRate.F(), s.TimeStep.F(), s.Stop.F(), area)
	}
	return analysis.NewSweep(sys, conv, logger, s.Contact,
		s.Start.F(), s.Stop.F(), s.Step.F(), area)
}

func printPotential(dev *deck.Device, u []float64) {
	ns := dev.Store.Layout.NumSpecies()
	ip := dev.Store.Layout.PotentialIndex()

	fmt.Println("\nEquilibrium potential:")
	fmt.Println("======================")
	for _, n := range dev.Mesh.Nodes {
		fmt.Printf("%-14s %s\n",
			util.FormatLength(n.Coord),
			util.FormatValueFactor(u[n.Index*ns+ip], "V"))
	}
}

func printIV(points []analysis.IVPoint) {
	fmt.Println("\nIV Curve:")
	fmt.Println("=========")
	for _, p := range points {
		fmt.Printf("%-12s %s\n",
			util.FormatValueFactor(p.Voltage, "V"),
			util.FormatValueFactor(p.Current, "A"))
	}
}
