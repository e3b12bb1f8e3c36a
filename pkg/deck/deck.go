package deck

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/edp1096/toy-dd/pkg/analysis"
	"github.com/edp1096/toy-dd/pkg/mesh"
	"github.com/edp1096/toy-dd/pkg/params"
	"github.com/edp1096/toy-dd/pkg/physics"
	"github.com/edp1096/toy-dd/pkg/stat"
)

// Deck is a YAML description of a layered device: carriers, layer stack,
// contacts, solver knobs and an optional bias sweep.
type Deck struct {
	Device      string        `yaml:"device"`
	Temperature Value         `yaml:"temperature"`
	Area        Value         `yaml:"area"`
	Penalty     Value         `yaml:"penalty"`
	Scheme      string        `yaml:"scheme"`
	Carriers    []CarrierSpec `yaml:"carriers"`
	Layers      []LayerSpec   `yaml:"layers"`
	Contacts    []ContactSpec `yaml:"contacts"`
	Solver      *SolverSpec   `yaml:"solver"`
	Sweep       *SweepSpec    `yaml:"sweep"`
}

type CarrierSpec struct {
	Name       string `yaml:"name"`
	Charge     int    `yaml:"charge"`
	Statistics string `yaml:"statistics"`
}

type LayerSpec struct {
	Name     string       `yaml:"name"`
	Length   Value        `yaml:"length"`
	Cells    int          `yaml:"cells"`
	Material MaterialSpec `yaml:"material"`
}

type MaterialSpec struct {
	Dielectric      Value              `yaml:"dielectric"`
	Radiative       Value              `yaml:"radiative"`
	IntrinsicDoping Value              `yaml:"intrinsic_doping"`
	Carriers        []LayerCarrierSpec `yaml:"carriers"`
}

type LayerCarrierSpec struct {
	DOS            Value `yaml:"dos"`
	BandEdge       Value `yaml:"band_edge"` // eV
	Mobility       Value `yaml:"mobility"`
	Doping         Value `yaml:"doping"`
	SRHLifetime    Value `yaml:"srh_lifetime"`
	SRHTrapDensity Value `yaml:"srh_trap_density"`
	Auger          Value `yaml:"auger"`
}

type ContactSpec struct {
	Voltage  Value                `yaml:"voltage"`
	Carriers []ContactCarrierSpec `yaml:"carriers"`
}

type ContactCarrierSpec struct {
	DOS      Value `yaml:"dos"`
	BandEdge Value `yaml:"band_edge"` // eV
	Doping   Value `yaml:"doping"`
}

type SolverSpec struct {
	MaxIter    int   `yaml:"max_iter"`
	Abstol     Value `yaml:"abstol"`
	Reltol     Value `yaml:"reltol"`
	Damp0      Value `yaml:"damp0"`
	DampGrowth Value `yaml:"damp_growth"`
}

type SweepSpec struct {
	Contact  int   `yaml:"contact"`
	Start    Value `yaml:"start"`
	Stop     Value `yaml:"stop"`
	Step     Value `yaml:"step"`
	ScanRate Value `yaml:"scan_rate"` // V/s, alternative to step
	TimeStep Value `yaml:"time_step"` // s, used with scan_rate
}

// Device bundles everything built from a deck.
type Device struct {
	Mesh  *mesh.Mesh
	Store *params.Store
	Phys  *physics.Physics
}

func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("deck: reading %s: %v", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("deck: %v", err)
	}
	if err := d.check(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Deck) check() error {
	if len(d.Carriers) == 0 {
		return fmt.Errorf("deck: no carriers")
	}
	if len(d.Layers) == 0 {
		return fmt.Errorf("deck: no layers")
	}
	if len(d.Contacts) != 2 {
		return fmt.Errorf("deck: need exactly 2 contacts, got %d", len(d.Contacts))
	}
	nc := len(d.Carriers)
	for i, l := range d.Layers {
		if len(l.Material.Carriers) != nc {
			return fmt.Errorf("deck: layer %q has %d carrier entries, want %d", l.Name, len(l.Material.Carriers), nc)
		}
		if l.Cells < 1 {
			return fmt.Errorf("deck: layer %d needs at least one cell", i)
		}
	}
	for i, c := range d.Contacts {
		if len(c.Carriers) != nc {
			return fmt.Errorf("deck: contact %d has %d carrier entries, want %d", i, len(c.Carriers), nc)
		}
	}
	return nil
}

// Build constructs the mesh, parameter store and physics of the deck.
func (d *Deck) Build() (*Device, error) {
	charges := make([]int, len(d.Carriers))
	dists := make([]stat.Distribution, len(d.Carriers))
	for i, c := range d.Carriers {
		charges[i] = c.Charge
		name := c.Statistics
		if name == "" {
			name = "boltzmann"
		}
		kind, err := stat.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("deck: carrier %q: %v", c.Name, err)
		}
		dists[i] = stat.Distribution{Kind: kind}
	}

	layout, err := params.NewLayout(charges)
	if err != nil {
		return nil, fmt.Errorf("deck: %v", err)
	}

	segments := make([]mesh.Segment, len(d.Layers))
	for i, l := range d.Layers {
		segments[i] = mesh.Segment{Length: l.Length.F(), Cells: l.Cells, Region: i}
	}
	m, err := mesh.Line1D(segments)
	if err != nil {
		return nil, fmt.Errorf("deck: %v", err)
	}

	c := params.DefaultConstants()
	b := params.NewBuilder(layout, c, len(d.Layers), len(d.Contacts))
	if d.Temperature > 0 {
		b.SetTemperature(d.Temperature.F())
	}
	if d.Penalty > 0 {
		b.SetPenaltyReference(d.Penalty.F())
	}

	for r, l := range d.Layers {
		b.SetRegion(r, params.Region{
			DielectricConstant: l.Material.Dielectric.F(),
			Radiative:          l.Material.Radiative.F(),
			IntrinsicDoping:    l.Material.IntrinsicDoping.F(),
		})
		for ci, cp := range l.Material.Carriers {
			b.SetCarrierRegion(r, ci, params.CarrierRegion{
				DensityOfStates: cp.DOS.F(),
				BandEdgeEnergy:  cp.BandEdge.F() * c.Q, // eV -> J
				Mobility:        cp.Mobility.F(),
				Doping:          cp.Doping.F(),
				SRHLifetime:     cp.SRHLifetime.F(),
				SRHTrapDensity:  cp.SRHTrapDensity.F(),
				Auger:           cp.Auger.F(),
			})
		}
	}
	for br, ct := range d.Contacts {
		for ci, cp := range ct.Carriers {
			b.SetBoundaryCarrier(br, ci, params.BoundaryCarrier{
				DensityOfStates: cp.DOS.F(),
				BandEdgeEnergy:  cp.BandEdge.F() * c.Q,
				Doping:          cp.Doping.F(),
			})
		}
		b.SetContactVoltage(br, ct.Voltage.F())
	}

	store, err := b.Build()
	if err != nil {
		return nil, err
	}

	scheme := physics.ScharfetterGummel
	if d.Scheme != "" {
		scheme, err = physics.ParseScheme(d.Scheme)
		if err != nil {
			return nil, fmt.Errorf("deck: %v", err)
		}
	}
	phys, err := physics.New(store, dists, scheme)
	if err != nil {
		return nil, fmt.Errorf("deck: %v", err)
	}

	return &Device{Mesh: m, Store: store, Phys: phys}, nil
}

// Convergence returns the solver knobs, defaulted where the deck is silent.
func (d *Deck) Convergence() analysis.Convergence {
	conv := analysis.DefaultConvergence()
	if d.Solver == nil {
		return conv
	}
	if d.Solver.MaxIter > 0 {
		conv.MaxIter = d.Solver.MaxIter
	}
	if d.Solver.Abstol > 0 {
		conv.Abstol = d.Solver.Abstol.F()
	}
	if d.Solver.Reltol > 0 {
		conv.Reltol = d.Solver.Reltol.F()
	}
	if d.Solver.Damp0 > 0 {
		conv.Damp0 = d.Solver.Damp0.F()
	}
	if d.Solver.DampGrowth > 0 {
		conv.DampGrowth = d.Solver.DampGrowth.F()
	}
	return conv
}
