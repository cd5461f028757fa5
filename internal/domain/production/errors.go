package production

import "fmt"

// ErrDepthExceeded indicates the resolver descended past MaxResolutionDepth
type ErrDepthExceeded struct {
	Resource string
	Depth    int
	Max      int
}

func (e *ErrDepthExceeded) Error() string {
	return fmt.Sprintf("maximum recursion depth %d exceeded at depth %d resolving %s - possible cycle in production chain",
		e.Max, e.Depth, e.Resource)
}

// ErrNodeLimitExceeded indicates a single resolution built more nodes than allowed
type ErrNodeLimitExceeded struct {
	Resource string
	Limit    int
}

func (e *ErrNodeLimitExceeded) Error() string {
	return fmt.Sprintf("node limit %d reached while resolving %s", e.Limit, e.Resource)
}

// ErrNoProducerSelected indicates the selection policy declined every candidate
type ErrNoProducerSelected struct {
	Resource   string
	Candidates int
}

func (e *ErrNoProducerSelected) Error() string {
	return fmt.Sprintf("no producer selected for %s among %d candidates", e.Resource, e.Candidates)
}

// ErrFacilityNotFound indicates a facility id is absent from the catalog
type ErrFacilityNotFound struct {
	FacilityID string
}

func (e *ErrFacilityNotFound) Error() string {
	return fmt.Sprintf("building '%s' not found", e.FacilityID)
}
