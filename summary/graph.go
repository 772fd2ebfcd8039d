// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package summary

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// CooccurrenceDOT returns a DOT description of the motif co-occurrence
// graph of the aggregate. Nodes are motif names with a count attribute
// holding the number of matched records and edge weights are the number
// of records matched by both motifs. Motifs that share a name share a
// node, and unmatched motifs are omitted.
func (a *Aggregate) CooccurrenceDOT() ([]byte, error) {
	g := newNameGraph()
	for i, c := range a.Counts {
		if c != 0 {
			g.nodeFor(a.Set.Names[i]).count += c
		}
	}
	weights := make(map[[2]int64]float64)
	for p, w := range a.Pairs {
		f := g.nodeFor(a.Set.Names[p[0]])
		t := g.nodeFor(a.Set.Names[p[1]])
		if f.id == t.id {
			continue
		}
		if f.id > t.id {
			f, t = t, f
		}
		weights[[2]int64{f.id, t.id}] += float64(w)
	}
	for ids, w := range weights {
		g.SetWeightedEdge(edge{f: g.Node(ids[0]), t: g.Node(ids[1]), w: w})
	}
	name := a.Set.Name
	if name == "" {
		name = "cooccurrence"
	}
	return dot.Marshal(g, name, "", "\t")
}

type nameGraph struct {
	*simple.WeightedUndirectedGraph
	idFor map[string]int64
}

func newNameGraph() nameGraph {
	return nameGraph{
		WeightedUndirectedGraph: simple.NewWeightedUndirectedGraph(0, 0),
		idFor:                   make(map[string]int64),
	}
}

func (g nameGraph) nodeFor(s string) *node {
	id, ok := g.idFor[s]
	if ok {
		return g.Node(id).(*node)
	}
	id = g.WeightedUndirectedGraph.NewNode().ID()
	g.idFor[s] = id
	n := &node{id: id, name: s}
	g.AddNode(n)
	return n
}

type node struct {
	id    int64
	name  string
	count int
}

func (n *node) ID() int64     { return n.id }
func (n *node) DOTID() string { return n.name }
func (n *node) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "count", Value: fmt.Sprint(n.count)}}
}

type edge struct {
	f, t graph.Node
	w    float64
}

func (e edge) From() graph.Node         { return e.f }
func (e edge) To() graph.Node           { return e.t }
func (e edge) ReversedEdge() graph.Edge { return edge{f: e.t, t: e.f, w: e.w} }
func (e edge) Weight() float64          { return e.w }
func (e edge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "weight", Value: fmt.Sprint(e.w)}}
}
