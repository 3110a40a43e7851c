// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package graph

import "github.com/google/uuid"

// NodeID identifies a node within and across graphs.
type NodeID = uuid.UUID

// Node is a graph vertex that consumes and produces Values over named
// ports. Built-in nodes live in this package; plugin nodes implement
// the same contract.
//
// Process is called once per chunk after all inputs for the chunk are
// set and must populate every declared output. Ports keep the last
// value set or produced until overwritten.
type Node interface {
	ID() NodeID
	SetID(id NodeID)
	Name() string
	SetName(name string)
	// Type is the node-kind tag, e.g. "BufferInputNode".
	Type() string

	IsInput() bool
	IsOutput() bool

	InputList() []string
	OutputList() []string
	Input(name string) (Value, bool)
	SetInput(name string, value Value)
	Output(name string) (Value, bool)

	// Prepare runs once before a render pass.
	Prepare(chunkBeats float64, sampleRate int) error
	// Process runs once per chunk. chunkStart and chunkEnd are global
	// sample indices at the mixer rate.
	Process(sampleRate, channels, chunkStart, chunkEnd int) error

	// Clone deep-copies the node, keeping its id.
	Clone() Node
}

// baseNode carries the identity and port bookkeeping every built-in
// shares.
type baseNode struct {
	id   NodeID
	name string

	inputNames  []string
	outputNames []string
	inputs      map[string]Value
	outputs     map[string]Value
}

func newBaseNode(name string, inputNames, outputNames []string) baseNode {
	return baseNode{
		id:          uuid.New(),
		name:        name,
		inputNames:  inputNames,
		outputNames: outputNames,
		inputs:      make(map[string]Value),
		outputs:     make(map[string]Value),
	}
}

func (b *baseNode) ID() NodeID           { return b.id }
func (b *baseNode) SetID(id NodeID)      { b.id = id }
func (b *baseNode) Name() string         { return b.name }
func (b *baseNode) SetName(name string)  { b.name = name }
func (b *baseNode) InputList() []string  { return b.inputNames }
func (b *baseNode) OutputList() []string { return b.outputNames }

func (b *baseNode) Input(name string) (Value, bool) {
	v, ok := b.inputs[name]
	return v, ok
}

func (b *baseNode) SetInput(name string, value Value) {
	for _, declared := range b.inputNames {
		if declared == name {
			b.inputs[name] = value
			return
		}
	}
}

func (b *baseNode) Output(name string) (Value, bool) {
	v, ok := b.outputs[name]
	return v, ok
}

func (b *baseNode) setOutput(name string, value Value) {
	b.outputs[name] = value
}

func (b *baseNode) cloneBase() baseNode {
	clone := baseNode{
		id:          b.id,
		name:        b.name,
		inputNames:  append([]string(nil), b.inputNames...),
		outputNames: append([]string(nil), b.outputNames...),
		inputs:      make(map[string]Value, len(b.inputs)),
		outputs:     make(map[string]Value, len(b.outputs)),
	}
	for k, v := range b.inputs {
		clone.inputs[k] = v.Clone()
	}
	for k, v := range b.outputs {
		clone.outputs[k] = v.Clone()
	}
	return clone
}
