package plan

import (
	"encoding/json"
	"strings"

	"github.com/skindiary/careplan-backend/internal/types"
)

type Focus string

const (
	FocusAcne         Focus = "acne"
	FocusPores        Focus = "pores"
	FocusDryness      Focus = "dryness"
	FocusPigmentation Focus = "pigmentation"
	FocusWrinkles     Focus = "wrinkles"
	FocusGeneral      Focus = "general"
)

type BudgetTier string

const (
	BudgetLow     BudgetTier = "budget"
	BudgetMid     BudgetTier = "mid"
	BudgetPremium BudgetTier = "premium"
	BudgetAny     BudgetTier = "any"
)

type Complexity string

const (
	ComplexityMinimal Complexity = "minimal"
	ComplexityMedium  Complexity = "medium"
	ComplexityMaximal Complexity = "maximal"
)

// Classification is the canonical, request-scoped view of a profile plus
// questionnaire answers. It is created fresh for every generation and
// never persisted.
type Classification struct {
	SkinType     string
	Sensitivity  string
	AcneLevel    string
	AgeGroup     string
	PrimaryFocus Focus
	Concerns     []string
	Goals        []string
	MainGoals    []string
	Exclusions   []string
	Budget       BudgetTier
	Complexity   Complexity
	Pregnant     bool
}

// focusMatchers is the fixed priority order for primary focus selection.
// First matcher that hits either goals or concerns wins.
var focusMatchers = []struct {
	focus    Focus
	keywords []string
}{
	{FocusAcne, []string{"акне", "высыпан", "acne", "breakout"}},
	{FocusPores, []string{"поры", "расширенные поры", "pore"}},
	{FocusDryness, []string{"сухост", "сухая", "обезвожен", "dry", "dehydrat"}},
	{FocusPigmentation, []string{"пигмент", "pigment", "dark spot"}},
	{FocusWrinkles, []string{"морщин", "антивозраст", "wrinkle", "anti-age", "antiage"}},
}

// Classify folds the stored profile and raw answers into a Classification.
// It never fails: absent fields degrade to normal skin type, low
// sensitivity and a general focus.
func Classify(profile *types.SkinProfile, answers map[string]any) Classification {
	cls := Classification{
		SkinType:     "normal",
		Sensitivity:  "low",
		AcneLevel:    "none",
		AgeGroup:     "",
		PrimaryFocus: FocusGeneral,
		Budget:       BudgetAny,
		Complexity:   ComplexityMedium,
	}

	var markers types.MedicalMarkers
	if profile != nil {
		if profile.SkinType != "" {
			cls.SkinType = strings.ToLower(profile.SkinType)
		}
		if profile.SensitivityLevel != "" {
			cls.Sensitivity = strings.ToLower(profile.SensitivityLevel)
		}
		if profile.AcneLevel != "" {
			cls.AcneLevel = strings.ToLower(profile.AcneLevel)
		}
		cls.AgeGroup = profile.AgeGroup
		cls.Pregnant = profile.Pregnant
		if len(profile.MedicalMarkers) > 0 {
			// Malformed markers degrade to empty, same as absent.
			_ = json.Unmarshal(profile.MedicalMarkers, &markers)
		}
	}

	cls.Goals = append(answerStrings(answers, "goals"), markers.Goals...)
	cls.Concerns = answerStrings(answers, "concerns")
	cls.Exclusions = normalizeAll(append(
		append(answerStrings(answers, "exclusions"), answerStrings(answers, "allergies")...),
		markers.Contraindications...))

	if answerBool(answers, "pregnant") {
		cls.Pregnant = true
	}

	cls.PrimaryFocus = pickPrimaryFocus(cls.Goals, cls.Concerns)
	cls.MainGoals = deriveMainGoals(cls.Goals, cls.Concerns)
	cls.Budget = parseBudget(answerString(answers, "budget"))
	cls.Complexity = ParseComplexity(answerString(answers, "step_preference"))

	return cls
}

// ComplexityOverride returns the stored dermatologist override, if any.
// The caller applies it after template selection; see PlanService.
func ComplexityOverride(profile *types.SkinProfile) (Complexity, bool) {
	if profile == nil || len(profile.MedicalMarkers) == 0 {
		return "", false
	}
	var markers types.MedicalMarkers
	if err := json.Unmarshal(profile.MedicalMarkers, &markers); err != nil {
		return "", false
	}
	switch Complexity(strings.ToLower(markers.ComplexityOverride)) {
	case ComplexityMinimal:
		return ComplexityMinimal, true
	case ComplexityMedium:
		return ComplexityMedium, true
	case ComplexityMaximal:
		return ComplexityMaximal, true
	}
	return "", false
}

// RetinolExcluded reports whether the exclusion list mentions retinol in
// any form.
func (c Classification) RetinolExcluded() bool {
	for _, e := range c.Exclusions {
		if strings.Contains(e, "ретинол") || strings.Contains(e, "retinol") {
			return true
		}
	}
	return false
}

func pickPrimaryFocus(goals, concerns []string) Focus {
	haystack := normalizeAll(append(append([]string{}, goals...), concerns...))
	for _, m := range focusMatchers {
		for _, item := range haystack {
			for _, kw := range m.keywords {
				if strings.Contains(item, kw) {
					return m.focus
				}
			}
		}
	}
	return FocusGeneral
}

func deriveMainGoals(goals, concerns []string) []string {
	all := normalizeAll(append(append([]string{}, goals...), concerns...))
	concernsNorm := normalizeAll(concerns)

	containsAny := func(items []string, keywords ...string) bool {
		for _, item := range items {
			for _, kw := range keywords {
				if strings.Contains(item, kw) {
					return true
				}
			}
		}
		return false
	}

	var main []string
	if containsAny(all, "акне", "высыпан", "acne") {
		main = append(main, "acne")
	}
	if containsAny(all, "пигмент", "pigment") {
		main = append(main, "pigmentation")
	}
	if containsAny(all, "морщин", "антивозраст", "wrinkle", "antiage", "anti-age") {
		main = append(main, "antiage")
	}
	if containsAny(concernsNorm, "барьер", "чувствительн", "barrier", "sensitiv") {
		main = append(main, "barrier")
	}
	if containsAny(concernsNorm, "обезвожен", "сухост", "dehydrat", "dry") {
		main = append(main, "dehydration")
	}
	if len(main) == 0 {
		main = []string{"general"}
	}
	return main
}

// ParseComplexity parses the free-text step-count preference by substring
// match; anything unrecognized is medium.
func ParseComplexity(preference string) Complexity {
	p := strings.ToLower(preference)
	switch {
	case strings.Contains(p, "минимал") || strings.Contains(p, "minimal"):
		return ComplexityMinimal
	case strings.Contains(p, "максимал") || strings.Contains(p, "maximal"):
		return ComplexityMaximal
	default:
		return ComplexityMedium
	}
}

func parseBudget(raw string) BudgetTier {
	b := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(b, "бюджет") || strings.Contains(b, "budget") || strings.Contains(b, "эконом"):
		return BudgetLow
	case strings.Contains(b, "средн") || strings.Contains(b, "mid"):
		return BudgetMid
	case strings.Contains(b, "премиум") || strings.Contains(b, "premium"):
		return BudgetPremium
	default:
		return BudgetAny
	}
}

func answerStrings(answers map[string]any, key string) []string {
	if answers == nil {
		return nil
	}
	var out []string
	switch v := answers[key].(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case string:
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func answerString(answers map[string]any, key string) string {
	if answers == nil {
		return ""
	}
	if s, ok := answers[key].(string); ok {
		return s
	}
	return ""
}

func answerBool(answers map[string]any, key string) bool {
	if answers == nil {
		return false
	}
	switch v := answers[key].(type) {
	case bool:
		return v
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "true" || s == "yes" || s == "да"
	}
	return false
}

func normalizeAll(items []string) []string {
	var out []string
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
