package services

import (
	"strings"

	"go.uber.org/zap"
)

// Provenance of a resolved nutrient profile.
const (
	SourceCatalog = "catalog"
	SourceDefault = "default"
)

const defaultHealthTip = "Eat in moderation and stay active!"

// healthTips keyed by normalized catalog key.
var healthTips = map[string]string{
	"biryani":        "Try using brown rice and less oil for a healthier version.",
	"dosa":           "Pair with chutney instead of oily sambar for fewer calories.",
	"samosa":         "Air fry instead of deep frying to reduce fat.",
	"idli":           "Light and healthy breakfast option, rich in carbs and easy to digest.",
	"pulao":          "Add more veggies and less ghee for better nutrition.",
	"butter_chicken": "Use grilled chicken and low-fat yogurt for a lighter recipe.",
	"poha":           "Add peanuts for protein but control oil quantity.",
	"besan_laddu":    "Use jaggery instead of sugar and ghee in moderation.",
	"chole_bhature":  "Limit portion size - high in calories but delicious!",
	"vada_pav":       "Enjoy occasionally; opt for air-fried version to cut fat.",
}

// NutrientService resolves a classification label to nutrient facts with an
// explicit catalog-or-default provenance.
type NutrientService struct {
	catalog Catalog
	log     *zap.SugaredLogger
}

func NewNutrientService(catalog Catalog, log *zap.SugaredLogger) *NutrientService {
	return &NutrientService{catalog: catalog, log: log}
}

// NormalizeKey turns a label into a catalog key: lowercase, spaces become
// underscores.
func NormalizeKey(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "_")
}

// Resolve never fails: a catalog miss falls back to DefaultNutrientFacts and
// is logged so catalog gaps can be found and fixed.
func (s *NutrientService) Resolve(label string) (NutrientFacts, string) {
	key := NormalizeKey(label)
	if facts, ok := s.catalog[key]; ok {
		return facts, SourceCatalog
	}
	s.log.Warnw("food not in nutrient catalog, using default values",
		"key", key, "label", label)
	return DefaultNutrientFacts, SourceDefault
}

// HealthTip returns the tip for a label, or a generic one.
func (s *NutrientService) HealthTip(label string) string {
	if tip, ok := healthTips[NormalizeKey(label)]; ok {
		return tip
	}
	return defaultHealthTip
}
