package registry

import (
	"fmt"
	"maps"
	"math"
	"sync"
	"time"

	"github.com/fulldump/registryviews/utils"
)

// RankingProperty is the property read as the descriptor ranking.
const RankingProperty = "ranking"

// Descriptor describes one registered service. Values handed out by the
// registry are snapshots: mutating their Properties does not affect the
// registry.
type Descriptor struct {
	ID         string                 `json:"id"`
	Ranking    int                    `json:"ranking"`
	Properties map[string]interface{} `json:"properties"`
	Registered time.Time              `json:"registered"`
	Revision   uint64                 `json:"revision"` // 1 on Register, +1 per Modify
}

// record is the registry-owned state behind a Descriptor.
type record struct {
	Descriptor
	sequence uint64

	// delivery serializes the events of one id, from mutation to the last
	// listener call.
	delivery sync.Mutex
	gone     bool
}

func (r *record) snapshot() Descriptor {
	d := r.Descriptor
	d.Properties = maps.Clone(r.Properties)
	return d
}

// higherRanked orders records by ranking, highest first, then by
// registration order.
func higherRanked(a, b *record) bool {
	if a.Ranking != b.Ranking {
		return a.Ranking > b.Ranking
	}
	return a.sequence < b.sequence
}

// normalize turns arbitrary properties into their JSON shape, so numbers
// are float64 whatever the caller used. This keeps filter matching
// consistent with documents coming from the HTTP API.
func normalize(properties map[string]interface{}) (map[string]interface{}, int, error) {

	normalized := map[string]interface{}{}
	if len(properties) > 0 {
		err := utils.Remarshal(properties, &normalized)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %s", ErrInvalidProperties, err.Error())
		}
	}

	ranking := 0
	if value, exists := normalized[RankingProperty]; exists {
		number, ok := value.(float64)
		if !ok || number != math.Trunc(number) {
			return nil, 0, fmt.Errorf("%w: '%s' must be an integer", ErrInvalidProperties, RankingProperty)
		}
		ranking = int(number)
	}

	return normalized, ranking, nil
}
