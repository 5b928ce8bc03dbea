package pricing

import "fmt"

// MaterialBasis selects how the material line is priced for Luxone material
type MaterialBasis string

const (
	MaterialByArea MaterialBasis = "area"
	MaterialBySlab MaterialBasis = "slab"
)

// Policy is a versioned pricing configuration. Stored breakdowns record the
// version they were priced with.
type Policy struct {
	Version        string
	MaterialBasis  MaterialBasis
	ItemizedAddons bool
}

var (
	// PolicyAreaV2 prices material by exact area and charges only the sink addon
	PolicyAreaV2 = Policy{Version: "area-v2", MaterialBasis: MaterialByArea}

	// PolicySlabItemizedV1 prices material by whole slabs and charges every
	// design feature as its own addon line
	PolicySlabItemizedV1 = Policy{Version: "slab-itemized-v1", MaterialBasis: MaterialBySlab, ItemizedAddons: true}
)

// DefaultPolicy is used when no policy is configured
var DefaultPolicy = PolicyAreaV2

// PolicyByVersion resolves a configured policy version. An empty version
// resolves to DefaultPolicy.
func PolicyByVersion(version string) (Policy, error) {
	switch version {
	case "", PolicyAreaV2.Version:
		return PolicyAreaV2, nil
	case PolicySlabItemizedV1.Version:
		return PolicySlabItemizedV1, nil
	}
	return Policy{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, version)
}
