package utils

import (
	"sort"
	"strings"
)

// FareTable maps city names to ids and "Origin-Destination" keys to the
// base price per person. Loaded once at startup and read-only afterwards.
type FareTable struct {
	Cities map[string]int   `json:"cities"`
	Fares  map[string]int64 `json:"fares"`
}

// RouteFare is one priced route.
type RouteFare struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Price int64  `json:"price"`
}

// RouteKey builds the lookup key for an ordered city pair.
func RouteKey(origin, destination string) string {
	return origin + "-" + destination
}

// BasePrice returns the per-person fare for the route, or 0 when either city
// is empty or the pair is not in the table.
func (t FareTable) BasePrice(origin, destination string) int64 {
	if origin == "" || destination == "" {
		return 0
	}
	return t.Fares[RouteKey(origin, destination)]
}

// ComputeTotal returns basePrice × (adults + children). An unknown route
// prices at 0 rather than failing.
func (t FareTable) ComputeTotal(origin, destination string, adults, children int) int64 {
	heads := max(adults, 0) + max(children, 0)
	return t.BasePrice(origin, destination) * int64(heads)
}

// HasRoute reports whether the ordered pair is priced.
func (t FareTable) HasRoute(origin, destination string) bool {
	_, ok := t.Fares[RouteKey(origin, destination)]
	return ok && origin != "" && destination != ""
}

// CityNames returns the city set sorted by id, then name.
func (t FareTable) CityNames() []string {
	out := make([]string, 0, len(t.Cities))
	for name := range t.Cities {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := t.Cities[out[i]], t.Cities[out[j]]
		if a != b {
			return a < b
		}
		return out[i] < out[j]
	})
	return out
}

// Routes lists every priced route ordered by origin then destination.
func (t FareTable) Routes() []RouteFare {
	out := make([]RouteFare, 0, len(t.Fares))
	for key, price := range t.Fares {
		from, to, ok := t.splitKey(key)
		if !ok {
			continue
		}
		out = append(out, RouteFare{From: from, To: to, Price: price})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// splitKey resolves a key back to its cities. City names may contain "-",
// so every split point is tried against the city set.
func (t FareTable) splitKey(key string) (string, string, bool) {
	for i := strings.Index(key, "-"); i >= 0; {
		from, to := key[:i], key[i+1:]
		_, okFrom := t.Cities[from]
		_, okTo := t.Cities[to]
		if okFrom && okTo {
			return from, to, true
		}
		next := strings.Index(key[i+1:], "-")
		if next < 0 {
			break
		}
		i += next + 1
	}
	return "", "", false
}
