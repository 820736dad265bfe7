package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"ticketbooking/internal/utils"
)

//go:embed fares.json
var defaultFares []byte

// LoadFareTable reads the route table from path, or the embedded default
// when path is empty.
func LoadFareTable(path string) (utils.FareTable, error) {
	raw := defaultFares
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return utils.FareTable{}, fmt.Errorf("read fare table %s: %w", path, err)
		}
		raw = b
	}

	var t utils.FareTable
	if err := json.Unmarshal(raw, &t); err != nil {
		return utils.FareTable{}, fmt.Errorf("parse fare table: %w", err)
	}
	if t.Cities == nil {
		t.Cities = map[string]int{}
	}
	if t.Fares == nil {
		t.Fares = map[string]int64{}
	}
	for key, price := range t.Fares {
		if price < 0 {
			return utils.FareTable{}, fmt.Errorf("fare %q is negative", key)
		}
	}
	return t, nil
}
