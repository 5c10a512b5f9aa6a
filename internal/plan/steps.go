package plan

import "math"

// WeekSteps holds the effective morning and evening step lists for every
// day of one week.
type WeekSteps struct {
	Morning []StepCategory
	Evening []StepCategory
}

// pregnancyDisallowed lists categories never shown to a pregnant user,
// regardless of what the template says.
var pregnancyDisallowed = map[StepCategory]struct{}{
	CategorySerumRetinol: {},
}

// BuildWeekSteps derives the subset of template steps shown during the
// given week (1..4). Mandatory steps are always present; additional steps
// are introduced progressively so the count per day is non-decreasing
// from week 1 to week 4 by construction.
func BuildWeekSteps(tpl Template, cls Classification, weekNumber int) WeekSteps {
	return WeekSteps{
		Morning: buildList(tpl.Morning, cls, weekNumber, true),
		Evening: buildList(tpl.Evening, cls, weekNumber, false),
	}
}

func buildList(templateSteps []StepCategory, cls Classification, weekNumber int, withSPF bool) []StepCategory {
	cleanser := CategoryCleanserGentle
	spf := CategorySPF50Face
	haveCleanser, haveSPF := false, false
	var additional []StepCategory
	for _, c := range templateSteps {
		base, ok := BaseStepOf(c)
		if !ok {
			continue
		}
		switch base {
		case BaseCleanser:
			if !haveCleanser {
				cleanser = c
				haveCleanser = true
			}
		case BaseSPF:
			if !haveSPF {
				spf = c
				haveSPF = true
			}
		default:
			additional = append(additional, c)
		}
	}

	// progressionFactor is 0, 1/3, 2/3, 1 across weeks 1-4. Week 1 shows
	// at least one additional step; week 4 shows all of them.
	factor := float64(weekNumber-1) / 3.0
	limit := int(math.Round(1 + factor*float64(maxInt(len(additional)-1, 0))))
	if limit > len(additional) {
		limit = len(additional)
	}

	list := make([]StepCategory, 0, limit+2)
	list = append(list, cleanser)
	list = append(list, additional[:limit]...)
	if withSPF {
		list = append(list, spf)
	}
	list = dedupCategories(list)

	filtered := list[:0:0]
	for _, c := range list {
		if StepAllowed(c, cls) {
			filtered = append(filtered, c)
		}
	}

	// Re-enforce mandatory presence in case the disallow filter removed
	// the template's cleanser or SPF variant.
	if !containsBase(filtered, BaseCleanser) {
		filtered = append([]StepCategory{substituteTable[BaseCleanser]}, filtered...)
	}
	if withSPF && !containsBase(filtered, BaseSPF) {
		filtered = append(filtered, substituteTable[BaseSPF])
	}
	return filtered
}

// StepAllowed applies the profile-level disallow rules (pregnancy,
// retinol allergy) to a step category.
func StepAllowed(c StepCategory, cls Classification) bool {
	if cls.Pregnant {
		if _, banned := pregnancyDisallowed[c]; banned {
			return false
		}
	}
	if cls.RetinolExcluded() && c == CategorySerumRetinol {
		return false
	}
	return true
}

func dedupCategories(list []StepCategory) []StepCategory {
	seen := make(map[StepCategory]struct{}, len(list))
	out := list[:0:0]
	for _, c := range list {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func containsBase(list []StepCategory, base BaseStep) bool {
	for _, c := range list {
		if b, ok := BaseStepOf(c); ok && b == base {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
