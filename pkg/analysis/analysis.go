package analysis

import (
	"context"
	"log/slog"
	"math"

	"github.com/edp1096/toy-dd/pkg/system"
)

// Convergence holds the solver-control knobs handed to every Newton solve.
type Convergence struct {
	MaxIter    int
	Abstol     float64
	Reltol     float64
	Damp0      float64 // initial Newton damping
	DampGrowth float64 // damping growth per iteration, capped at 1
}

func DefaultConvergence() Convergence {
	return Convergence{
		MaxIter:    200,
		Abstol:     1e-9,
		Reltol:     1e-6,
		Damp0:      0.5,
		DampGrowth: 1.2,
	}
}

type BaseAnalysis struct {
	sys  *system.System
	conv Convergence
	log  *slog.Logger
}

func NewBaseAnalysis(sys *system.System, conv Convergence, log *slog.Logger) *BaseAnalysis {
	if log == nil {
		log = slog.New(discardHandler{})
	}
	return &BaseAnalysis{sys: sys, conv: conv, log: log}
}

func (b *BaseAnalysis) System() *system.System { return b.sys }

// CheckConverged reports whether a damped update d is below the combined
// absolute/relative tolerance at u.
func (b *BaseAnalysis) CheckConverged(d, u float64) bool {
	return math.Abs(d) <= b.conv.Abstol+b.conv.Reltol*math.Abs(u)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
