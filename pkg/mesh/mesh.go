package mesh

import "fmt"

// Node is one control volume center. Interface nodes between two segments
// carry the region of the cell to their left.
type Node struct {
	Index  int
	Region int
	Coord  float64 // m
}

// Edge connects two adjacent nodes K and L. Factor is the geometric factor
// of the finite-volume face (cross-section area over edge length).
type Edge struct {
	Index  int
	K, L   int
	Region int
	Factor float64
}

// BoundaryNode is a node on an outer boundary together with its boundary
// region id. Factor is the boundary face area.
type BoundaryNode struct {
	Index  int
	Node   int
	Region int
	Factor float64
}

// Span is the part of a node's control volume lying in one region. Interface
// nodes carry one span per adjacent region, so volume integrals weight each
// region's material data by the correct sub-volume.
type Span struct {
	Node   int
	Region int
	Volume float64
}

// Segment describes one device layer of a 1D stack.
type Segment struct {
	Length float64 // m
	Cells  int
	Region int
}

type Mesh struct {
	Nodes              []Node
	Edges              []Edge
	BoundaryNodes      []BoundaryNode
	Spans              []Span
	Volumes            []float64 // total control volume per node
	NumRegions         int
	NumBoundaryRegions int
}

// Line1D builds a layered 1D mesh from left to right. Boundary region 0 is
// the left outer face, boundary region 1 the right one.
func Line1D(segments []Segment) (*Mesh, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("mesh: no segments")
	}

	numRegions := 0
	totalCells := 0
	for i, seg := range segments {
		if seg.Length <= 0 {
			return nil, fmt.Errorf("mesh: segment %d has non-positive length %g", i, seg.Length)
		}
		if seg.Cells < 1 {
			return nil, fmt.Errorf("mesh: segment %d has %d cells", i, seg.Cells)
		}
		if seg.Region < 0 {
			return nil, fmt.Errorf("mesh: segment %d has negative region id", i)
		}
		if seg.Region+1 > numRegions {
			numRegions = seg.Region + 1
		}
		totalCells += seg.Cells
	}

	m := &Mesh{
		Nodes:              make([]Node, 0, totalCells+1),
		Edges:              make([]Edge, 0, totalCells),
		Volumes:            make([]float64, totalCells+1),
		NumRegions:         numRegions,
		NumBoundaryRegions: 2,
	}

	x := 0.0
	m.Nodes = append(m.Nodes, Node{Index: 0, Region: segments[0].Region, Coord: 0})
	for _, seg := range segments {
		h := seg.Length / float64(seg.Cells)
		for c := 0; c < seg.Cells; c++ {
			x += h
			k := len(m.Nodes) - 1
			m.Nodes = append(m.Nodes, Node{Index: k + 1, Region: seg.Region, Coord: x})
			m.Edges = append(m.Edges, Edge{
				Index:  len(m.Edges),
				K:      k,
				L:      k + 1,
				Region: seg.Region,
				Factor: 1 / h,
			})
			m.Volumes[k] += h / 2
			m.Volumes[k+1] += h / 2
			m.addSpan(k, seg.Region, h/2)
			m.addSpan(k+1, seg.Region, h/2)
		}
	}

	last := len(m.Nodes) - 1
	m.BoundaryNodes = []BoundaryNode{
		{Index: 0, Node: 0, Region: 0, Factor: 1},
		{Index: 1, Node: last, Region: 1, Factor: 1},
	}

	return m, nil
}

// addSpan merges half-cell contributions belonging to the same node and
// region, so interior nodes end up with one span and interface nodes with
// two.
func (m *Mesh) addSpan(node, region int, vol float64) {
	if n := len(m.Spans); n > 0 {
		last := &m.Spans[n-1]
		if last.Node == node && last.Region == region {
			last.Volume += vol
			return
		}
	}
	m.Spans = append(m.Spans, Span{Node: node, Region: region, Volume: vol})
}

func (m *Mesh) NumNodes() int { return len(m.Nodes) }

// Length returns the total device extent.
func (m *Mesh) Length() float64 {
	return m.Nodes[len(m.Nodes)-1].Coord - m.Nodes[0].Coord
}
