// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package graph

import "fmt"

// TypeError reports a Value with an incompatible type at an operation
// boundary.
type TypeError struct {
	Expected Type
	Received Type
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error: expected %s, received %s", e.Expected, e.Received)
}

// NodeInputTypeError reports a wrongly-shaped value arriving on a
// node's input port.
type NodeInputTypeError struct {
	NodeID   NodeID
	Input    string
	Expected Type
	Received Type
}

func (e *NodeInputTypeError) Error() string {
	return fmt.Sprintf("node %s input %q: expected %s, received %s",
		e.NodeID, e.Input, e.Expected, e.Received)
}

// NodeOutputTypeError reports a node output violating its declared
// contract.
type NodeOutputTypeError struct {
	NodeID   NodeID
	Output   string
	Expected Type
	Received Type
}

func (e *NodeOutputTypeError) Error() string {
	return fmt.Sprintf("node %s output %q: expected %s, received %s",
		e.NodeID, e.Output, e.Expected, e.Received)
}

// PropertyNotFoundError reports an unknown input or output port name.
type PropertyNotFoundError struct {
	NodeID   NodeID
	Property string
}

func (e *PropertyNotFoundError) Error() string {
	return fmt.Sprintf("node %s has no port %q", e.NodeID, e.Property)
}

// NodeNotFoundError reports a reference to a node absent from its
// graph.
type NodeNotFoundError struct {
	NodeID NodeID
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node %s not found in graph", e.NodeID)
}

// NodeCycleError reports that the connector relation is cyclic.
type NodeCycleError struct{}

func (e *NodeCycleError) Error() string {
	return "graph contains a cycle"
}
