// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package graph

const (
	// PortAudio is the buffer-input node's single output.
	PortAudio = "audio"
	// PortBuffer is the buffer-output node's input and output.
	PortBuffer = "buffer"
	// PortInput / PortOutput are the passthrough ports shared by the
	// empty and gain nodes.
	PortInput  = "input"
	PortOutput = "output"
	// PortGain is the gain node's scalar factor.
	PortGain = "gain"
)

// ============================================================================
// BufferInputNode
// ============================================================================

// BufferInputNode is the graph's entry point. It has no inputs; the
// track writes its whole pre-graph timeline onto its "audio" output
// before the graph runs.
type BufferInputNode struct {
	baseNode
}

// NewBufferInputNode creates the designated input node.
func NewBufferInputNode() *BufferInputNode {
	return &BufferInputNode{
		baseNode: newBaseNode("Input", nil, []string{PortAudio}),
	}
}

func (n *BufferInputNode) Type() string   { return "BufferInputNode" }
func (n *BufferInputNode) IsInput() bool  { return true }
func (n *BufferInputNode) IsOutput() bool { return false }

// SetBuffer places the externally supplied audio on the output port.
func (n *BufferInputNode) SetBuffer(value Value) {
	n.setOutput(PortAudio, value)
}

func (n *BufferInputNode) Prepare(chunkBeats float64, sampleRate int) error { return nil }

func (n *BufferInputNode) Process(sampleRate, channels, chunkStart, chunkEnd int) error {
	if _, ok := n.Output(PortAudio); !ok {
		n.setOutput(PortAudio, ZeroBuffer(channels, chunkEnd-chunkStart))
	}
	return nil
}

func (n *BufferInputNode) Clone() Node {
	return &BufferInputNode{baseNode: n.cloneBase()}
}

// ============================================================================
// BufferOutputNode
// ============================================================================

// BufferOutputNode is the graph's exit point. It expects a sample
// buffer on "buffer" and republishes it. An ill-typed input is
// replaced with silence of the requested chunk length and reported;
// a missing input produces silence without an error.
type BufferOutputNode struct {
	baseNode
}

// NewBufferOutputNode creates the designated output node.
func NewBufferOutputNode() *BufferOutputNode {
	return &BufferOutputNode{
		baseNode: newBaseNode("Output", []string{PortBuffer}, []string{PortBuffer}),
	}
}

func (n *BufferOutputNode) Type() string   { return "BufferOutputNode" }
func (n *BufferOutputNode) IsInput() bool  { return false }
func (n *BufferOutputNode) IsOutput() bool { return true }

func (n *BufferOutputNode) Prepare(chunkBeats float64, sampleRate int) error { return nil }

func (n *BufferOutputNode) Process(sampleRate, channels, chunkStart, chunkEnd int) error {
	input, ok := n.Input(PortBuffer)
	if !ok {
		n.setOutput(PortBuffer, ZeroBuffer(channels, chunkEnd-chunkStart))
		return nil
	}
	if !isBufferShaped(input) {
		n.setOutput(PortBuffer, ZeroBuffer(channels, chunkEnd-chunkStart))
		return &NodeInputTypeError{
			NodeID:   n.ID(),
			Input:    PortBuffer,
			Expected: BufferType(),
			Received: input.Type(),
		}
	}
	n.setOutput(PortBuffer, input)
	return nil
}

func (n *BufferOutputNode) Clone() Node {
	return &BufferOutputNode{baseNode: n.cloneBase()}
}

// isBufferShaped checks for exactly depth 2 with Float leaves.
func isBufferShaped(v Value) bool {
	if !v.IsArray() {
		return false
	}
	for _, channel := range v.Items() {
		if !channel.IsArray() {
			return false
		}
		for _, leaf := range channel.Items() {
			if leaf.IsArray() {
				return false
			}
		}
	}
	return true
}

// ============================================================================
// EmptyNode
// ============================================================================

// EmptyNode passes its input through unchanged, supplying silence
// when nothing is connected.
type EmptyNode struct {
	baseNode
}

// NewEmptyNode creates a passthrough node.
func NewEmptyNode() *EmptyNode {
	return &EmptyNode{
		baseNode: newBaseNode("Empty", []string{PortInput}, []string{PortOutput}),
	}
}

func (n *EmptyNode) Type() string   { return "EmptyNode" }
func (n *EmptyNode) IsInput() bool  { return false }
func (n *EmptyNode) IsOutput() bool { return false }

func (n *EmptyNode) Prepare(chunkBeats float64, sampleRate int) error { return nil }

func (n *EmptyNode) Process(sampleRate, channels, chunkStart, chunkEnd int) error {
	input, ok := n.Input(PortInput)
	if !ok {
		input = ZeroBuffer(channels, chunkEnd-chunkStart)
	}
	n.setOutput(PortOutput, input)
	return nil
}

func (n *EmptyNode) Clone() Node {
	return &EmptyNode{baseNode: n.cloneBase()}
}

// ============================================================================
// GainNode
// ============================================================================

// GainNode scales its input by the "gain" port. Gain broadcasts, so a
// scalar scales the whole buffer and a per-channel array scales each
// channel.
type GainNode struct {
	baseNode
}

// NewGainNode creates a gain stage with unity default.
func NewGainNode() *GainNode {
	return &GainNode{
		baseNode: newBaseNode("Gain", []string{PortInput, PortGain}, []string{PortOutput}),
	}
}

func (n *GainNode) Type() string   { return "GainNode" }
func (n *GainNode) IsInput() bool  { return false }
func (n *GainNode) IsOutput() bool { return false }

func (n *GainNode) Prepare(chunkBeats float64, sampleRate int) error { return nil }

func (n *GainNode) Process(sampleRate, channels, chunkStart, chunkEnd int) error {
	input, ok := n.Input(PortInput)
	if !ok {
		input = ZeroBuffer(channels, chunkEnd-chunkStart)
	}
	gain, ok := n.Input(PortGain)
	if !ok {
		gain = Float(1.0)
	}

	scaled, ok := Mul(input, gain)
	if !ok {
		return &NodeInputTypeError{
			NodeID:   n.ID(),
			Input:    PortGain,
			Expected: input.Type(),
			Received: gain.Type(),
		}
	}
	n.setOutput(PortOutput, scaled)
	return nil
}

func (n *GainNode) Clone() Node {
	return &GainNode{baseNode: n.cloneBase()}
}

// ============================================================================
// MixNode
// ============================================================================

// MixNode sums its two inputs with broadcast semantics. A missing
// side contributes silence.
type MixNode struct {
	baseNode
}

// PortA and PortB name the mix node's operands.
const (
	PortA = "a"
	PortB = "b"
)

// NewMixNode creates a two-input summing node.
func NewMixNode() *MixNode {
	return &MixNode{
		baseNode: newBaseNode("Mix", []string{PortA, PortB}, []string{PortOutput}),
	}
}

func (n *MixNode) Type() string   { return "MixNode" }
func (n *MixNode) IsInput() bool  { return false }
func (n *MixNode) IsOutput() bool { return false }

func (n *MixNode) Prepare(chunkBeats float64, sampleRate int) error { return nil }

func (n *MixNode) Process(sampleRate, channels, chunkStart, chunkEnd int) error {
	a, okA := n.Input(PortA)
	b, okB := n.Input(PortB)
	if !okA && !okB {
		n.setOutput(PortOutput, ZeroBuffer(channels, chunkEnd-chunkStart))
		return nil
	}
	if !okA {
		a = Float(0)
	}
	if !okB {
		b = Float(0)
	}

	sum, ok := Add(a, b)
	if !ok {
		return &NodeInputTypeError{
			NodeID:   n.ID(),
			Input:    PortB,
			Expected: a.Type(),
			Received: b.Type(),
		}
	}
	n.setOutput(PortOutput, sum)
	return nil
}

func (n *MixNode) Clone() Node {
	return &MixNode{baseNode: n.cloneBase()}
}
