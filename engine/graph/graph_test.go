// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package graph

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rapidaai/audio-engine/engine/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newTestGraph() *Graph {
	return New(NewBufferInputNode())
}

func TestNewGraphHasInputAndOutput(t *testing.T) {
	g := newTestGraph()

	assert.Equal(t, 2, g.Nodes())
	assert.True(t, g.InputNode().IsInput())
	assert.True(t, g.OutputNode().IsOutput())
	assert.NotEqual(t, g.InputID(), g.OutputID())
}

func TestAddNodeAssignsAndRefusesDuplicateIDs(t *testing.T) {
	g := newTestGraph()

	n := NewEmptyNode()
	n.SetID(uuid.Nil)
	id, err := g.AddNode(n)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	duplicate := NewEmptyNode()
	duplicate.SetID(id)
	_, err = g.AddNode(duplicate)
	assert.Error(t, err)
}

func TestRemoveNodeStripsConnectors(t *testing.T) {
	g := newTestGraph()
	n := NewEmptyNode()
	id, err := g.AddNode(n)
	require.NoError(t, err)

	require.NoError(t, g.Connect(g.InputID(), PortAudio, id, PortInput))
	require.NoError(t, g.Connect(id, PortOutput, g.OutputID(), PortBuffer))
	require.Len(t, g.Connectors(), 2)

	require.NoError(t, g.RemoveNode(id))
	assert.Empty(t, g.Connectors())
	_, ok := g.Node(id)
	assert.False(t, ok)
}

func TestRemoveNodeRejectsInputAndOutput(t *testing.T) {
	g := newTestGraph()
	assert.Error(t, g.RemoveNode(g.InputID()))
	assert.Error(t, g.RemoveNode(g.OutputID()))
}

func TestConnectValidation(t *testing.T) {
	g := newTestGraph()

	var notFound *NodeNotFoundError
	err := g.Connect(uuid.New(), PortAudio, g.OutputID(), PortBuffer)
	require.ErrorAs(t, err, &notFound)

	var noPort *PropertyNotFoundError
	err = g.Connect(g.InputID(), "bogus", g.OutputID(), PortBuffer)
	require.ErrorAs(t, err, &noPort)
	assert.Equal(t, "bogus", noPort.Property)

	err = g.Connect(g.InputID(), PortAudio, g.OutputID(), "bogus")
	require.ErrorAs(t, err, &noPort)
}

func TestConnectIdempotent(t *testing.T) {
	g := newTestGraph()

	require.NoError(t, g.Connect(g.InputID(), PortAudio, g.OutputID(), PortBuffer))
	require.NoError(t, g.Connect(g.InputID(), PortAudio, g.OutputID(), PortBuffer))
	assert.Len(t, g.Connectors(), 1)

	g.Disconnect(g.InputID(), PortAudio, g.OutputID(), PortBuffer)
	assert.Empty(t, g.Connectors())
}

func TestTopologicalSortOrdersConnectors(t *testing.T) {
	g := newTestGraph()
	n := NewEmptyNode()
	id, _ := g.AddNode(n)
	require.NoError(t, g.Connect(g.InputID(), PortAudio, id, PortInput))
	require.NoError(t, g.Connect(id, PortOutput, g.OutputID(), PortBuffer))

	sorted, err := g.TopologicalSort()
	require.NoError(t, err)
	require.Len(t, sorted, 3)

	position := make(map[NodeID]int, len(sorted))
	for i, nodeID := range sorted {
		position[nodeID] = i
	}
	for _, c := range g.Connectors() {
		assert.Less(t, position[c.From], position[c.To])
	}
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	g := newTestGraph()
	a := NewEmptyNode()
	b := NewEmptyNode()
	c := NewEmptyNode()
	idA, _ := g.AddNode(a)
	idB, _ := g.AddNode(b)
	idC, _ := g.AddNode(c)

	require.NoError(t, g.Connect(idA, PortOutput, idB, PortInput))
	require.NoError(t, g.Connect(idB, PortOutput, idC, PortInput))
	require.NoError(t, g.Connect(idC, PortOutput, idA, PortInput))

	_, err := g.TopologicalSort()
	var cycle *NodeCycleError
	require.ErrorAs(t, err, &cycle)

	_, err = g.Process(48000, 24000, 1, 0, 16, 0)
	require.ErrorAs(t, err, &cycle)
}

func TestProcessPassthrough(t *testing.T) {
	g := newTestGraph()
	n := NewEmptyNode()
	id, _ := g.AddNode(n)
	require.NoError(t, g.Connect(g.InputID(), PortAudio, id, PortInput))
	require.NoError(t, g.Connect(id, PortOutput, g.OutputID(), PortBuffer))

	src := audio.FromBuffer([][]audio.Sample{{0.25, 0.25, 0.25, 0.25}}, 48000)
	g.SetInputBuffer(FromBuffer(src))

	out, err := g.Process(48000, 24000, 1, 0, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, src.Data, out.Data)
}

func TestProcessUnconnectedOutputEmitsSilence(t *testing.T) {
	g := newTestGraph()

	out, err := g.Process(48000, 24000, 2, 0, 8, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, out.Samples())
	assert.Equal(t, 2, out.Channels)
	for _, channel := range out.Data {
		for _, sample := range channel {
			assert.Zero(t, sample)
		}
	}
}

func TestProcessGainStage(t *testing.T) {
	g := newTestGraph()
	gain := NewGainNode()
	id, _ := g.AddNode(gain)
	gain.SetInput(PortGain, Float(0.5))

	require.NoError(t, g.Connect(g.InputID(), PortAudio, id, PortInput))
	require.NoError(t, g.Connect(id, PortOutput, g.OutputID(), PortBuffer))

	src := audio.FromBuffer([][]audio.Sample{{0.8, 0.4}}, 48000)
	g.SetInputBuffer(FromBuffer(src))

	out, err := g.Process(48000, 24000, 1, 0, 2, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []audio.Sample{0.4, 0.2}, out.Channel(0), 1e-6)
}

func TestProcessDuplicateInputConnectorsLastWriterWins(t *testing.T) {
	g := newTestGraph()
	first := NewEmptyNode()
	second := NewEmptyNode()
	idFirst, _ := g.AddNode(first)
	idSecond, _ := g.AddNode(second)

	require.NoError(t, g.Connect(g.InputID(), PortAudio, idFirst, PortInput))
	require.NoError(t, g.Connect(g.InputID(), PortAudio, idSecond, PortInput))

	// Both passthroughs feed the same output port; the later
	// connector's value survives.
	require.NoError(t, g.Connect(idFirst, PortOutput, g.OutputID(), PortBuffer))
	require.NoError(t, g.Connect(idSecond, PortOutput, g.OutputID(), PortBuffer))

	g.SetInputBuffer(FromBuffer(audio.FromBuffer([][]audio.Sample{{0.5}}, 48000)))
	second.SetInput(PortInput, FromBuffer(audio.FromBuffer([][]audio.Sample{{0.125}}, 48000)))
	g.Disconnect(g.InputID(), PortAudio, idSecond, PortInput)

	out, err := g.Process(48000, 24000, 1, 0, 1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.125, out.Channel(0)[0], 1e-6)
}

func TestBufferOutputNodeTypeMismatch(t *testing.T) {
	node := NewBufferOutputNode()
	node.SetInput(PortBuffer, Float(1))

	err := node.Process(48000, 2, 0, 16)
	var inputErr *NodeInputTypeError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, node.ID(), inputErr.NodeID)

	// The substitute output is silence of the requested chunk length.
	out, ok := node.Output(PortBuffer)
	require.True(t, ok)
	assert.Equal(t, []int{2, 16}, out.Shape())
}

func TestCloneIsDeep(t *testing.T) {
	g := newTestGraph()
	n := NewEmptyNode()
	id, _ := g.AddNode(n)
	require.NoError(t, g.Connect(g.InputID(), PortAudio, id, PortInput))
	require.NoError(t, g.Connect(id, PortOutput, g.OutputID(), PortBuffer))

	clone := g.Clone()
	assert.Equal(t, g.InputID(), clone.InputID())
	assert.Equal(t, g.OutputID(), clone.OutputID())
	assert.Equal(t, g.Connectors(), clone.Connectors())

	// Mutating the clone leaves the original untouched.
	extra := NewEmptyNode()
	_, err := clone.AddNode(extra)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Nodes())
	assert.Equal(t, 4, clone.Nodes())

	cloned, ok := clone.Node(id)
	require.True(t, ok)
	assert.NotSame(t, n, cloned)
}

// Any DAG sorts into a permutation where every connector's From
// precedes its To.
func TestTopologicalSortProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := newTestGraph()

		count := rapid.IntRange(0, 8).Draw(t, "nodes")
		ids := []NodeID{g.InputID()}
		for i := 0; i < count; i++ {
			id, err := g.AddNode(NewEmptyNode())
			if err != nil {
				t.Fatalf("add node: %v", err)
			}
			ids = append(ids, id)
		}

		// Only forward edges (by insertion index) keep the graph acyclic.
		edges := rapid.IntRange(0, count*2).Draw(t, "edges")
		for i := 0; i < edges; i++ {
			from := rapid.IntRange(0, len(ids)-2).Draw(t, "from")
			to := rapid.IntRange(from+1, len(ids)-1).Draw(t, "to")
			fromPort := PortOutput
			if ids[from] == g.InputID() {
				fromPort = PortAudio
			}
			if err := g.Connect(ids[from], fromPort, ids[to], PortInput); err != nil {
				t.Fatalf("connect: %v", err)
			}
		}

		sorted, err := g.TopologicalSort()
		if err != nil {
			t.Fatalf("unexpected cycle: %v", err)
		}
		if len(sorted) != g.Nodes() {
			t.Fatalf("sorted %d of %d nodes", len(sorted), g.Nodes())
		}

		position := make(map[NodeID]int, len(sorted))
		for i, id := range sorted {
			position[id] = i
		}
		for _, c := range g.Connectors() {
			if position[c.From] >= position[c.To] {
				t.Fatalf("connector %v out of order", c)
			}
		}
	})
}
