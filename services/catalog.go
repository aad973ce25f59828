package services

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"
)

// NutrientFacts is the per-serving nutrient profile of one catalog entry.
type NutrientFacts struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DefaultNutrientFacts is substituted when a classified label has no catalog
// entry, so an unseen label never blocks the pipeline.
var DefaultNutrientFacts = NutrientFacts{Calories: 250, Protein: 8, Carbs: 35, Fat: 10}

// Catalog maps a normalized food key (lowercase, underscore separated) to its
// nutrient facts. Loaded once at startup and read-only afterwards.
type Catalog map[string]NutrientFacts

// LoadCatalog reads the catalog JSON. A missing or unparseable file degrades
// to an empty catalog so every lookup falls back to defaults; startup never
// fails on catalog problems.
func LoadCatalog(path string, log *zap.SugaredLogger) Catalog {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warnw("nutrient catalog unavailable, lookups will use defaults",
			"path", path, "error", err)
		return Catalog{}
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		log.Warnw("nutrient catalog unreadable, lookups will use defaults",
			"path", path, "error", err)
		return Catalog{}
	}

	log.Infow("nutrient catalog loaded", "path", path, "foods", len(c))
	return c
}
