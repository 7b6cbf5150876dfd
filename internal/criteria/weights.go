package criteria

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights maps criterion keys to their scoring weights.
type Weights map[Key]float64

// DefaultWeights returns the built-in catalog weights.
func DefaultWeights() Weights {
	w := make(Weights, len(catalog))
	for _, d := range catalog {
		w[d.Key] = d.Weight
	}
	return w
}

// LoadWeights reads a YAML weights file and merges it over the catalog
// defaults. Keys outside the fixed set are rejected; non-positive weights
// are rejected. An empty path returns the defaults.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	if path == "" {
		return w, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading weights file: %w", err)
	}
	var overrides map[string]float64
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing weights file: %w", err)
	}
	for name, weight := range overrides {
		k := Key(name)
		if !IsValid(k) {
			return nil, &UnknownKeyError{Key: k}
		}
		if weight <= 0 {
			return nil, fmt.Errorf("weight for %s must be positive, got %v", k, weight)
		}
		w[k] = weight
	}
	return w, nil
}

// WeightedMean computes the weight-adjusted mean of the given per-criterion
// scores. Criteria missing from scores are skipped. Returns 0 for an empty
// input.
func WeightedMean(scores map[Key]float64, w Weights) float64 {
	var sum, totalWeight float64
	for k, score := range scores {
		weight, ok := w[k]
		if !ok {
			weight = 1.0
		}
		sum += score * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return sum / totalWeight
}
