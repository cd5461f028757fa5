package production

import "fmt"

// RawResourceFacilityID marks a ProductionNode that has no producing facility.
const RawResourceFacilityID = "RAW_RESOURCE"

// MaxResolutionDepth is the deepest recursion level the chain resolver will
// descend to before giving up on a branch.
const MaxResolutionDepth = 20

// UpstreamStatus tells how an InputRequirement ended up with (or without) an
// upstream producer.
type UpstreamStatus string

const (
	// UpstreamResolved means the requirement owns a resolved upstream node
	// (which may itself be a raw-resource node)
	UpstreamResolved UpstreamStatus = "RESOLVED"

	// UpstreamRaw is the terminal demand held by a raw-resource node
	UpstreamRaw UpstreamStatus = "RAW"

	// UpstreamUnresolved means resolution of the upstream was abandoned
	// (depth guard, node limit or catalog failure)
	UpstreamUnresolved UpstreamStatus = "UNRESOLVED"
)

// ProductionNode is one step of a resolved production chain: Count instances
// of a facility, their combined power, and what they need.
//
// A node whose FacilityID is RawResourceFacilityID represents a raw resource.
// It always has exactly one input and that input never has an upstream.
type ProductionNode struct {
	FacilityID   string
	FacilityName string
	Count        float64
	PowerWatts   float64
	Inputs       []InputRequirement
}

// InputRequirement is a resource demanded at a point in the tree.
type InputRequirement struct {
	ResourceID      string
	RateKgPerSecond float64
	Upstream        *ProductionNode
	Status          UpstreamStatus

	// UnresolvedReason carries the error text when Status is UpstreamUnresolved
	UnresolvedReason string
}

// NewRawResourceNode creates the leaf node for a resource nobody produces.
func NewRawResourceNode(resourceID string, rate float64) *ProductionNode {
	return &ProductionNode{
		FacilityID:   RawResourceFacilityID,
		FacilityName: fmt.Sprintf("%s (raw input)", resourceID),
		Count:        0,
		PowerWatts:   0,
		Inputs: []InputRequirement{
			{
				ResourceID:      resourceID,
				RateKgPerSecond: rate,
				Status:          UpstreamRaw,
			},
		},
	}
}

// ResolvedInput creates a requirement satisfied by the given upstream node.
func ResolvedInput(resourceID string, rate float64, upstream *ProductionNode) InputRequirement {
	return InputRequirement{
		ResourceID:      resourceID,
		RateKgPerSecond: rate,
		Upstream:        upstream,
		Status:          UpstreamResolved,
	}
}

// UnresolvedInput creates a requirement whose upstream could not be resolved.
func UnresolvedInput(resourceID string, rate float64, reason error) InputRequirement {
	req := InputRequirement{
		ResourceID:      resourceID,
		RateKgPerSecond: rate,
		Status:          UpstreamUnresolved,
	}
	if reason != nil {
		req.UnresolvedReason = reason.Error()
	}
	return req
}

// IsRaw returns true if the node has no producing facility
func (n *ProductionNode) IsRaw() bool {
	return n.FacilityID == RawResourceFacilityID
}

// HasUpstream returns true if the requirement owns an upstream node
func (r InputRequirement) HasUpstream() bool {
	return r.Upstream != nil
}

// Depth returns the number of node levels from this node down to its deepest leaf.
func (n *ProductionNode) Depth() int {
	maxChild := 0
	for _, input := range n.Inputs {
		if !input.HasUpstream() {
			continue
		}
		if d := input.Upstream.Depth(); d > maxChild {
			maxChild = d
		}
	}
	return maxChild + 1
}

// CountNodes returns the total number of nodes in the tree, raw leaves included
func (n *ProductionNode) CountNodes() int {
	count := 1
	for _, input := range n.Inputs {
		if input.HasUpstream() {
			count += input.Upstream.CountNodes()
		}
	}
	return count
}

// UnresolvedInputs returns every requirement in the tree whose resolution was abandoned.
func (n *ProductionNode) UnresolvedInputs() []InputRequirement {
	var result []InputRequirement
	n.walk(func(node *ProductionNode) {
		for _, input := range node.Inputs {
			if input.Status == UpstreamUnresolved {
				result = append(result, input)
			}
		}
	})
	return result
}

// Walk visits every node depth-first, parents before their upstreams.
func (n *ProductionNode) Walk(visit func(node *ProductionNode)) {
	n.walk(visit)
}

func (n *ProductionNode) walk(visit func(node *ProductionNode)) {
	visit(n)
	for _, input := range n.Inputs {
		if input.HasUpstream() {
			input.Upstream.walk(visit)
		}
	}
}
