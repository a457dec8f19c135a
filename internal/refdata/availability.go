package refdata

// AvailabilityIndex answers plan-in-county membership queries over the
// PlanCounty association data. Built once at load time; read-only afterward.
type AvailabilityIndex struct {
	byCounty map[int][]string
	pairs    map[availabilityKey]struct{}
}

type availabilityKey struct {
	planID   string
	countyID int
}

// NewAvailabilityIndex builds an index from (planID, countyID) pairs.
// Duplicate pairs collapse; the association is unique on the pair.
func NewAvailabilityIndex() *AvailabilityIndex {
	return &AvailabilityIndex{
		byCounty: make(map[int][]string),
		pairs:    make(map[availabilityKey]struct{}),
	}
}

func (ai *AvailabilityIndex) add(planID string, countyID int) {
	key := availabilityKey{planID: planID, countyID: countyID}
	if _, dup := ai.pairs[key]; dup {
		return
	}
	ai.pairs[key] = struct{}{}
	ai.byCounty[countyID] = append(ai.byCounty[countyID], planID)
}

// PlansInCounty returns the identifiers of every plan sold in the county, in
// load order. The returned slice is a copy.
func (ai *AvailabilityIndex) PlansInCounty(countyID int) []string {
	ids := ai.byCounty[countyID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// IsAvailable reports whether the plan is sold in the county.
func (ai *AvailabilityIndex) IsAvailable(planID string, countyID int) bool {
	_, ok := ai.pairs[availabilityKey{planID: planID, countyID: countyID}]
	return ok
}

// FilterAvailable intersects a candidate plan list against the county's
// availability set, preserving candidate order.
func (ai *AvailabilityIndex) FilterAvailable(planIDs []string, countyID int) []string {
	out := make([]string, 0, len(planIDs))
	for _, id := range planIDs {
		if ai.IsAvailable(id, countyID) {
			out = append(out, id)
		}
	}
	return out
}
