package production

// ProducerSelector picks the facility used to produce a resource from the
// candidates the catalog returned. It reports false when it declines all of them.
type ProducerSelector func(candidates []ProducerCandidate) (ProducerCandidate, bool)

// FirstProducer selects the first candidate in catalog order.
//
// This is a fixed, order-dependent policy. It does not compare cost, power or
// throughput between candidates.
func FirstProducer(candidates []ProducerCandidate) (ProducerCandidate, bool) {
	if len(candidates) == 0 {
		return ProducerCandidate{}, false
	}
	return candidates[0], true
}

// PreferFacility returns a selector that picks the named facility when it is
// among the candidates and falls back to the given selector otherwise.
func PreferFacility(facilityID string, fallback ProducerSelector) ProducerSelector {
	return func(candidates []ProducerCandidate) (ProducerCandidate, bool) {
		for _, c := range candidates {
			if c.Facility.ID == facilityID {
				return c, true
			}
		}
		return fallback(candidates)
	}
}

// PreferFacilities returns a selector that tries the listed facilities in
// order before falling back to FirstProducer.
func PreferFacilities(facilityIDs []string) ProducerSelector {
	selector := ProducerSelector(FirstProducer)
	for i := len(facilityIDs) - 1; i >= 0; i-- {
		selector = PreferFacility(facilityIDs[i], selector)
	}
	return selector
}
