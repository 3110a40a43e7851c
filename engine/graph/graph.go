// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package graph

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rapidaai/audio-engine/engine/audio"
)

// Graph is a DAG of processing nodes with one designated input node
// and one designated output node. Connectors are id-based; nodes know
// nothing about the graph that owns them.
type Graph struct {
	nodes      map[NodeID]Node
	order      []NodeID // insertion order, keeps sorting deterministic
	connectors []Connector

	inputID  NodeID
	outputID NodeID
}

// New builds a graph around the given input node. The buffer-output
// node is created and inserted immediately; every graph has exactly
// one of each.
func New(input Node) *Graph {
	g := &Graph{nodes: make(map[NodeID]Node)}

	if input.ID() == uuid.Nil {
		input.SetID(uuid.New())
	}
	g.insert(input)
	g.inputID = input.ID()

	output := NewBufferOutputNode()
	g.insert(output)
	g.outputID = output.ID()

	return g
}

func (g *Graph) insert(node Node) {
	g.nodes[node.ID()] = node
	g.order = append(g.order, node.ID())
}

// InputID returns the designated input node's id.
func (g *Graph) InputID() NodeID { return g.inputID }

// OutputID returns the designated output node's id.
func (g *Graph) OutputID() NodeID { return g.outputID }

// SetInputID redesignates the input node. The id must belong to a
// node already in the graph.
func (g *Graph) SetInputID(id NodeID) error {
	if _, ok := g.nodes[id]; !ok {
		return &NodeNotFoundError{NodeID: id}
	}
	g.inputID = id
	return nil
}

// SetOutputID redesignates the output node.
func (g *Graph) SetOutputID(id NodeID) error {
	if _, ok := g.nodes[id]; !ok {
		return &NodeNotFoundError{NodeID: id}
	}
	g.outputID = id
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// InputNode returns the designated input node.
func (g *Graph) InputNode() Node { return g.nodes[g.inputID] }

// OutputNode returns the designated output node.
func (g *Graph) OutputNode() Node { return g.nodes[g.outputID] }

// Nodes returns the node count.
func (g *Graph) Nodes() int { return len(g.nodes) }

// Connectors returns a copy of the connector list in insertion order.
func (g *Graph) Connectors() []Connector {
	return append([]Connector(nil), g.connectors...)
}

// AddNode inserts a node, assigning a fresh id when the node carries
// none. A node whose id is already present is refused.
func (g *Graph) AddNode(node Node) (NodeID, error) {
	if node.ID() == uuid.Nil {
		node.SetID(uuid.New())
	}
	if _, exists := g.nodes[node.ID()]; exists {
		return uuid.Nil, fmt.Errorf("node %s already in graph", node.ID())
	}
	g.insert(node)
	return node.ID(), nil
}

// RemoveNode deletes a node and every connector touching it. The
// designated input and output nodes cannot be removed.
func (g *Graph) RemoveNode(id NodeID) error {
	if id == g.inputID || id == g.outputID {
		return fmt.Errorf("node %s is the graph's input or output and cannot be removed", id)
	}
	if _, ok := g.nodes[id]; !ok {
		return &NodeNotFoundError{NodeID: id}
	}
	delete(g.nodes, id)
	for i, ordered := range g.order {
		if ordered == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}

	kept := g.connectors[:0]
	for _, c := range g.connectors {
		if c.From != id && c.To != id {
			kept = append(kept, c)
		}
	}
	g.connectors = kept
	return nil
}

// Connect routes from's output port to to's input port. Exact
// duplicates are ignored, so Connect is idempotent. Multiple
// connectors may target the same input port; during evaluation they
// overwrite each other in insertion order and the last writer wins.
func (g *Graph) Connect(from NodeID, fromPort string, to NodeID, toPort string) error {
	fromNode, ok := g.nodes[from]
	if !ok {
		return &NodeNotFoundError{NodeID: from}
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return &NodeNotFoundError{NodeID: to}
	}
	if !contains(fromNode.OutputList(), fromPort) {
		return &PropertyNotFoundError{NodeID: from, Property: fromPort}
	}
	if !contains(toNode.InputList(), toPort) {
		return &PropertyNotFoundError{NodeID: to, Property: toPort}
	}

	candidate := Connector{From: from, FromPort: fromPort, To: to, ToPort: toPort}
	for _, c := range g.connectors {
		if c == candidate {
			return nil
		}
	}
	g.connectors = append(g.connectors, candidate)
	return nil
}

// Disconnect removes the connector matching the full 4-tuple.
func (g *Graph) Disconnect(from NodeID, fromPort string, to NodeID, toPort string) {
	target := Connector{From: from, FromPort: fromPort, To: to, ToPort: toPort}
	for i, c := range g.connectors {
		if c == target {
			g.connectors = append(g.connectors[:i], g.connectors[i+1:]...)
			return
		}
	}
}

// TopologicalSort orders the nodes with Kahn's algorithm over the
// from→to relation. Emitting fewer nodes than exist means a cycle.
// Zero-in-degree nodes are seeded in insertion order, so the result
// is stable for identical graphs; ties within a level carry no
// semantic guarantee.
func (g *Graph) TopologicalSort() ([]NodeID, error) {
	inDegree := make(map[NodeID]int, len(g.nodes))
	adjacency := make(map[NodeID][]NodeID, len(g.nodes))
	for _, id := range g.order {
		inDegree[id] = 0
	}
	for _, c := range g.connectors {
		inDegree[c.To]++
		adjacency[c.From] = append(adjacency[c.From], c.To)
	}

	queue := make([]NodeID, 0, len(g.nodes))
	for _, id := range g.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]NodeID, 0, len(g.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sorted = append(sorted, id)

		for _, next := range adjacency[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(sorted) != len(g.nodes) {
		return nil, &NodeCycleError{}
	}
	return sorted, nil
}

// Prepare runs every node's Prepare ahead of a render pass.
func (g *Graph) Prepare(chunkBeats float64, sampleRate int, tempo float64, trackID int) error {
	for _, id := range g.order {
		if err := g.nodes[id].Prepare(chunkBeats, sampleRate); err != nil {
			return fmt.Errorf("track %d: prepare node %s: %w", trackID, id, err)
		}
	}
	return nil
}

// SetInputBuffer writes the external audio onto the input node ahead
// of Process. Only a BufferInputNode accepts external audio.
func (g *Graph) SetInputBuffer(value Value) {
	if input, ok := g.nodes[g.inputID].(*BufferInputNode); ok {
		input.SetBuffer(value)
	}
}

// Process evaluates the graph for one chunk and converts the output
// node's buffer port back into planar audio at the mixer rate.
func (g *Graph) Process(sampleRate int, samplesPerBeat float64, channels, chunkStart, chunkEnd, trackID int) (*audio.Source, error) {
	sorted, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	for _, id := range sorted {
		node := g.nodes[id]

		// Move incoming values onto this node's input ports. Duplicate
		// connectors into one port overwrite in insertion order.
		for _, c := range g.connectors {
			if c.To != id {
				continue
			}
			source, ok := g.nodes[c.From]
			if !ok {
				continue
			}
			if value, ok := source.Output(c.FromPort); ok {
				node.SetInput(c.ToPort, value)
			}
		}

		if err := node.Process(sampleRate, channels, chunkStart, chunkEnd); err != nil {
			return nil, fmt.Errorf("track %d node %s (%s): %w", trackID, node.Name(), id, err)
		}
	}

	output := g.nodes[g.outputID]
	value, ok := output.Output(PortBuffer)
	if !ok {
		return nil, &NodeOutputTypeError{
			NodeID:   g.outputID,
			Output:   PortBuffer,
			Expected: BufferType(),
			Received: NoneType(),
		}
	}
	buffer, err := value.AsBuffer(sampleRate)
	if err != nil {
		return nil, &NodeOutputTypeError{
			NodeID:   g.outputID,
			Output:   PortBuffer,
			Expected: BufferType(),
			Received: value.Type(),
		}
	}
	return buffer, nil
}

// Clone deep-clones all nodes and connectors, preserving node ids and
// the input/output designations.
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		nodes:      make(map[NodeID]Node, len(g.nodes)),
		order:      append([]NodeID(nil), g.order...),
		connectors: append([]Connector(nil), g.connectors...),
		inputID:    g.inputID,
		outputID:   g.outputID,
	}
	for id, node := range g.nodes {
		clone.nodes[id] = node.Clone()
	}
	return clone
}

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}
