// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package graph

// Connector routes one node's output port to another node's input
// port. Connectors are identified by the full 4-tuple; the graph
// stores at most one of each.
type Connector struct {
	From     NodeID
	FromPort string
	To       NodeID
	ToPort   string
}
