package oatshm

import "github.com/oat-streams/oatshm/internal/node"

// NodeState is the outcome of a consumer's Wait or Connect: Active means
// a sample is available to Retrieve, EndOfStream means the sink has
// latched end of stream and no further samples will arrive.
type NodeState = node.WaitOutcome

const (
	Active     = node.Active
	EndOfStream = node.EndOfStream
)
