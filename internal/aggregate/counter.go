package aggregate

// distinctCounter counts distinct accident ids per group key and remembers
// the order in which keys were first seen.
type distinctCounter[K comparable] struct {
	keys []K
	ids  map[K]map[string]struct{}
}

func newDistinctCounter[K comparable]() *distinctCounter[K] {
	return &distinctCounter[K]{ids: make(map[K]map[string]struct{})}
}

func (c *distinctCounter[K]) add(key K, id string) {
	set, ok := c.ids[key]
	if !ok {
		set = make(map[string]struct{})
		c.ids[key] = set
		c.keys = append(c.keys, key)
	}
	set[id] = struct{}{}
}

func (c *distinctCounter[K]) count(key K) int {
	return len(c.ids[key])
}

func (c *distinctCounter[K]) len() int {
	return len(c.keys)
}
