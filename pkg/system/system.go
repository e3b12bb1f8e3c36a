package system

import (
	"fmt"

	"github.com/edp1096/toy-dd/pkg/matrix"
	"github.com/edp1096/toy-dd/pkg/mesh"
	"github.com/edp1096/toy-dd/pkg/params"
	"github.com/edp1096/toy-dd/pkg/physics"
)

// Relative perturbation for the local finite-difference Jacobians.
const fdEps = 1e-7

// System assembles the nonlinear finite-volume equations of a device into a
// sparse Newton system. Unknowns are numbered node-major: all species of
// node 0, then node 1, and so on.
type System struct {
	Mesh *mesh.Mesh
	Phys *physics.Physics

	mat *matrix.SystemMatrix
	ns  int

	// Scratch buffers, reused across assembly calls.
	f0, fp, up, uq []float64
}

func New(m *mesh.Mesh, p *physics.Physics) (*System, error) {
	if m.NumRegions > p.Params.NumRegions {
		return nil, fmt.Errorf("system: mesh references %d regions, store has %d", m.NumRegions, p.Params.NumRegions)
	}
	if m.NumBoundaryRegions > p.Params.NumBoundaryRegions {
		return nil, fmt.Errorf("system: mesh references %d boundary regions, store has %d", m.NumBoundaryRegions, p.Params.NumBoundaryRegions)
	}

	ns := p.Params.Layout.NumSpecies()
	mat, err := matrix.NewMatrix(m.NumNodes() * ns)
	if err != nil {
		return nil, fmt.Errorf("system: %v", err)
	}

	return &System{
		Mesh: m,
		Phys: p,
		mat:  mat,
		ns:   ns,
		f0:   make([]float64, ns),
		fp:   make([]float64, ns),
		up:   make([]float64, ns),
		uq:   make([]float64, ns),
	}, nil
}

func (s *System) Matrix() *matrix.SystemMatrix { return s.mat }
func (s *System) Params() *params.Store        { return s.Phys.Params }
func (s *System) NumDOF() int                  { return s.Mesh.NumNodes() * s.ns }

// DOF returns the 1-based matrix index of (node, species).
func (s *System) DOF(node, species int) int {
	return node*s.ns + species + 1
}

// InitialGuess returns a state whose quasi-Fermi potentials interpolate the
// contact voltages and whose potential interpolates the contact neutrality
// values. Starting the first Newton solve from here keeps the penalty
// contact equations out of their exponential far field, where cold-start
// updates overshoot by many orders of magnitude.
func (s *System) InitialGuess() []float64 {
	u := make([]float64, s.NumDOF())

	b0 := s.Mesh.BoundaryNodes[0]
	b1 := s.Mesh.BoundaryNodes[1]
	x0 := s.Mesh.Nodes[b0.Node].Coord
	x1 := s.Mesh.Nodes[b1.Node].Coord
	v0 := s.Phys.Params.ContactVoltage(b0.Region)
	v1 := s.Phys.Params.ContactVoltage(b1.Region)
	psi0 := s.Phys.ContactNeutralPotential(b0.Region)
	psi1 := s.Phys.ContactNeutralPotential(b1.Region)

	ip := s.Phys.Params.Layout.PotentialIndex()
	for _, n := range s.Mesh.Nodes {
		w := (n.Coord - x0) / (x1 - x0)
		for c := 0; c < ip; c++ {
			u[n.Index*s.ns+c] = v0 + w*(v1-v0)
		}
		u[n.Index*s.ns+ip] = psi0 + w*(psi1-psi0)
	}
	return u
}

func (s *System) local(u []float64, node int) []float64 {
	return u[node*s.ns : (node+1)*s.ns]
}

// Assemble stamps the residual and the finite-difference Jacobian of the
// system at u. The right-hand side receives -F(u), so a subsequent Solve
// yields the Newton update.
func (s *System) Assemble(u []float64) error {
	if len(u) != s.NumDOF() {
		return fmt.Errorf("system: unknown vector has %d entries, want %d", len(u), s.NumDOF())
	}
	s.mat.Clear()
	s.assembleEdges(u)
	s.assembleNodes(u)
	s.assembleBoundary(u)
	return nil
}

func (s *System) assembleEdges(u []float64) {
	ns := s.ns
	for _, e := range s.Mesh.Edges {
		uk := s.local(u, e.K)
		ul := s.local(u, e.L)
		s.Phys.Flux(s.f0, uk, ul, e.Region)

		for sp := 0; sp < ns; sp++ {
			v := e.Factor * s.f0[sp]
			s.mat.AddRHS(s.DOF(e.K, sp), -v)
			s.mat.AddRHS(s.DOF(e.L, sp), v)
		}

		// d(flux)/d(uk)
		copy(s.up, uk)
		for j := 0; j < ns; j++ {
			h := perturbation(uk[j])
			s.up[j] = uk[j] + h
			s.Phys.Flux(s.fp, s.up, ul, e.Region)
			s.up[j] = uk[j]
			for sp := 0; sp < ns; sp++ {
				d := e.Factor * (s.fp[sp] - s.f0[sp]) / h
				s.mat.AddElement(s.DOF(e.K, sp), s.DOF(e.K, j), d)
				s.mat.AddElement(s.DOF(e.L, sp), s.DOF(e.K, j), -d)
			}
		}

		// d(flux)/d(ul)
		copy(s.uq, ul)
		for j := 0; j < ns; j++ {
			h := perturbation(ul[j])
			s.uq[j] = ul[j] + h
			s.Phys.Flux(s.fp, uk, s.uq, e.Region)
			s.uq[j] = ul[j]
			for sp := 0; sp < ns; sp++ {
				d := e.Factor * (s.fp[sp] - s.f0[sp]) / h
				s.mat.AddElement(s.DOF(e.K, sp), s.DOF(e.L, j), d)
				s.mat.AddElement(s.DOF(e.L, sp), s.DOF(e.L, j), -d)
			}
		}
	}
}

func (s *System) assembleNodes(u []float64) {
	ns := s.ns
	for _, sp := range s.Mesh.Spans {
		un := s.local(u, sp.Node)
		vol := sp.Volume
		s.Phys.Reaction(s.f0, un, sp.Region)

		for k := 0; k < ns; k++ {
			s.mat.AddRHS(s.DOF(sp.Node, k), -vol*s.f0[k])
		}

		copy(s.up, un)
		for j := 0; j < ns; j++ {
			h := perturbation(un[j])
			s.up[j] = un[j] + h
			s.Phys.Reaction(s.fp, s.up, sp.Region)
			s.up[j] = un[j]
			for k := 0; k < ns; k++ {
				d := vol * (s.fp[k] - s.f0[k]) / h
				s.mat.AddElement(s.DOF(sp.Node, k), s.DOF(sp.Node, j), d)
			}
		}
	}
}

func (s *System) assembleBoundary(u []float64) {
	st := s.Phys.Params
	ns := s.ns
	nc := st.Layout.NumCarriers

	for _, bn := range s.Mesh.BoundaryNodes {
		un := s.local(u, bn.Node)
		s.Phys.BReaction(s.f0, un, bn.Region)

		for sp := 0; sp < ns; sp++ {
			s.mat.AddRHS(s.DOF(bn.Node, sp), -bn.Factor*s.f0[sp])
		}

		copy(s.up, un)
		for j := 0; j < ns; j++ {
			h := perturbation(un[j])
			s.up[j] = un[j] + h
			s.Phys.BReaction(s.fp, s.up, bn.Region)
			s.up[j] = un[j]
			for sp := 0; sp < ns; sp++ {
				d := bn.Factor * (s.fp[sp] - s.f0[sp]) / h
				s.mat.AddElement(s.DOF(bn.Node, sp), s.DOF(bn.Node, j), d)
			}
		}

		// Dirichlet values for the carrier quasi-Fermi potentials at an
		// ohmic contact, enforced with the same penalty scale as the
		// boundary space charge.
		v := st.ContactVoltage(bn.Region)
		for c := 0; c < nc; c++ {
			pen := st.PenaltyReference * st.Const.Q * st.BDensityOfStates[bn.Region][c]
			dof := s.DOF(bn.Node, c)
			s.mat.AddRHS(dof, -pen*(un[c]-v))
			s.mat.AddElement(dof, dof, pen)
		}
	}
}

// Residual evaluates F(u) without touching the matrix. Used by tests and
// diagnostics.
func (s *System) Residual(F, u []float64) error {
	if len(F) != s.NumDOF() || len(u) != s.NumDOF() {
		return fmt.Errorf("system: residual vector size mismatch")
	}
	for i := range F {
		F[i] = 0
	}

	for _, e := range s.Mesh.Edges {
		s.Phys.Flux(s.f0, s.local(u, e.K), s.local(u, e.L), e.Region)
		for sp := 0; sp < s.ns; sp++ {
			F[e.K*s.ns+sp] += e.Factor * s.f0[sp]
			F[e.L*s.ns+sp] -= e.Factor * s.f0[sp]
		}
	}
	for _, sp := range s.Mesh.Spans {
		s.Phys.Reaction(s.f0, s.local(u, sp.Node), sp.Region)
		for k := 0; k < s.ns; k++ {
			F[sp.Node*s.ns+k] += sp.Volume * s.f0[k]
		}
	}
	st := s.Phys.Params
	for _, bn := range s.Mesh.BoundaryNodes {
		un := s.local(u, bn.Node)
		s.Phys.BReaction(s.f0, un, bn.Region)
		for sp := 0; sp < s.ns; sp++ {
			F[bn.Node*s.ns+sp] += bn.Factor * s.f0[sp]
		}
		v := st.ContactVoltage(bn.Region)
		for c := 0; c < st.Layout.NumCarriers; c++ {
			pen := st.PenaltyReference * st.Const.Q * st.BDensityOfStates[bn.Region][c]
			F[bn.Node*s.ns+c] += pen * (un[c] - v)
		}
	}
	return nil
}

// TestFunction returns the per-node weight that is 1 on the given contact
// and 0 on the opposite one, harmonic in between. On a 1D mesh that is the
// linear interpolant between the two outer faces.
func (s *System) TestFunction(contact int) ([]float64, error) {
	var x0, x1 float64
	found0, found1 := false, false
	for _, bn := range s.Mesh.BoundaryNodes {
		x := s.Mesh.Nodes[bn.Node].Coord
		if bn.Region == contact {
			x1, found1 = x, true
		} else {
			x0, found0 = x, true
		}
	}
	if !found0 || !found1 {
		return nil, fmt.Errorf("system: contact %d not found on mesh boundary", contact)
	}

	tf := make([]float64, s.Mesh.NumNodes())
	for _, n := range s.Mesh.Nodes {
		tf[n.Index] = (n.Coord - x0) / (x1 - x0)
	}
	return tf, nil
}

// IntegrateFlux computes the test-function-weighted net flux through the
// device for every species: the terminal current when tf comes from
// TestFunction.
func (s *System) IntegrateFlux(u, tf []float64) []float64 {
	out := make([]float64, s.ns)
	for _, e := range s.Mesh.Edges {
		s.Phys.Flux(s.f0, s.local(u, e.K), s.local(u, e.L), e.Region)
		w := e.Factor * (tf[e.K] - tf[e.L])
		for sp := 0; sp < s.ns; sp++ {
			out[sp] += w * s.f0[sp]
		}
	}
	for _, sp := range s.Mesh.Spans {
		s.Phys.Reaction(s.f0, s.local(u, sp.Node), sp.Region)
		w := sp.Volume * tf[sp.Node]
		for k := 0; k < s.ns; k++ {
			out[k] += w * s.f0[k]
		}
	}
	return out
}

func (s *System) Destroy() {
	if s.mat != nil {
		s.mat.Destroy()
	}
}

func perturbation(v float64) float64 {
	if v < 0 {
		v = -v
	}
	return fdEps * (1 + v)
}
