package plan

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/skindiary/careplan-backend/internal/types"
)

// AxisScore is one dermatological axis score as produced by the scoring
// service. The engine never recomputes these; they pass through opaquely.
type AxisScore struct {
	Axis        string `json:"axis"`
	Value       int    `json:"value"`
	Level       string `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Recommendations is the scoring service's narrative advice block.
type Recommendations struct {
	HeroActives []string `json:"hero_actives"`
	MustHave    []string `json:"must_have"`
	Avoid       []string `json:"avoid"`
}

type ProfileSummary struct {
	SkinType     string   `json:"skin_type"`
	Sensitivity  string   `json:"sensitivity"`
	AcneLevel    string   `json:"acne_level"`
	PrimaryFocus Focus    `json:"primary_focus"`
	TopConcerns  []string `json:"top_concerns"`
	AgeGroup     string   `json:"age_group"`
}

type InfographicPoint struct {
	Week  int `json:"week"`
	Value int `json:"value"`
}

type InfographicAxis struct {
	Axis   string             `json:"axis"`
	Points []InfographicPoint `json:"points"`
}

// Legacy structures kept for callers that predate plan28. Derived, never
// authoritative.
type LegacyStep struct {
	Step      string     `json:"step"`
	ProductID *uuid.UUID `json:"product_id"`
}

type LegacyDay struct {
	Day     int          `json:"day"`
	Morning []LegacyStep `json:"morning"`
	Evening []LegacyStep `json:"evening"`
}

type LegacyWeek struct {
	Week int         `json:"week"`
	Days []LegacyDay `json:"days"`
}

type ProductRef struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand"`
	StepCategory string    `json:"step_category"`
}

// GeneratedPlan is the full output contract handed to the cache and the
// caller. Plan28 is authoritative; Weeks is the derived legacy view.
type GeneratedPlan struct {
	Profile                      ProfileSummary    `json:"profile"`
	SkinScores                   []AxisScore       `json:"skin_scores"`
	DermatologistRecommendations *Recommendations  `json:"dermatologist_recommendations,omitempty"`
	Weeks                        []LegacyWeek      `json:"weeks"`
	Infographic                  []InfographicAxis `json:"infographic"`
	Products                     []ProductRef      `json:"products"`
	Warnings                     []string          `json:"warnings,omitempty"`
	Plan28                       *Plan28           `json:"plan28"`
}

// infographicImprovement is the fraction of each axis value projected to
// improve over the 4 weeks of the plan.
const infographicImprovement = 0.4

// BuildGeneratedPlan assembles the output record around an already
// produced Plan28. The catalog map resolves product IDs back to rows for
// the flattened product list.
func BuildGeneratedPlan(cls Classification, p28 *Plan28, scores []AxisScore, recs *Recommendations, catalog map[uuid.UUID]types.Product) *GeneratedPlan {
	return &GeneratedPlan{
		Profile:                      summarizeProfile(cls),
		SkinScores:                   scores,
		DermatologistRecommendations: recs,
		Weeks:                        deriveLegacyWeeks(p28),
		Infographic:                  projectInfographic(scores),
		Products:                     flattenProducts(p28, catalog),
		Warnings:                     buildWarnings(cls),
		Plan28:                       p28,
	}
}

func summarizeProfile(cls Classification) ProfileSummary {
	top := cls.Concerns
	if len(top) > 3 {
		top = top[:3]
	}
	return ProfileSummary{
		SkinType:     cls.SkinType,
		Sensitivity:  cls.Sensitivity,
		AcneLevel:    cls.AcneLevel,
		PrimaryFocus: cls.PrimaryFocus,
		TopConcerns:  top,
		AgeGroup:     cls.AgeGroup,
	}
}

// projectInfographic emits 4 weekly points per axis, each a monotonic
// percentage improvement toward the neutral zero over the plan's 4 weeks.
func projectInfographic(scores []AxisScore) []InfographicAxis {
	axes := make([]InfographicAxis, 0, len(scores))
	for _, s := range scores {
		points := make([]InfographicPoint, 0, 4)
		for w := 1; w <= 4; w++ {
			drop := int(math.Round(float64(s.Value) * infographicImprovement * float64(w) / 4.0))
			points = append(points, InfographicPoint{Week: w, Value: s.Value - drop})
		}
		axes = append(axes, InfographicAxis{Axis: s.Axis, Points: points})
	}
	return axes
}

func deriveLegacyWeeks(p28 *Plan28) []LegacyWeek {
	weeks := make([]LegacyWeek, 4)
	for i := range weeks {
		weeks[i].Week = i + 1
	}
	for _, day := range p28.Days {
		w := (day.DayIndex - 1) / 7
		weeks[w].Days = append(weeks[w].Days, LegacyDay{
			Day:     day.DayIndex,
			Morning: legacySteps(day.Morning),
			Evening: legacySteps(day.Evening),
		})
	}
	return weeks
}

func legacySteps(steps []DayStep) []LegacyStep {
	out := make([]LegacyStep, 0, len(steps))
	for _, s := range steps {
		base, ok := BaseStepOf(s.StepCategory)
		if !ok {
			continue
		}
		out = append(out, LegacyStep{Step: string(base), ProductID: s.ProductID})
	}
	return out
}

func flattenProducts(p28 *Plan28, catalog map[uuid.UUID]types.Product) []ProductRef {
	seen := make(map[uuid.UUID]struct{})
	var refs []ProductRef
	add := func(id uuid.UUID) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		p, ok := catalog[id]
		if !ok {
			return
		}
		cat := p.StepCategory
		if cat == "" {
			cat = p.LegacyStep
		}
		refs = append(refs, ProductRef{ID: p.ID, Name: p.Name, Brand: p.BrandName, StepCategory: cat})
	}
	for _, day := range p28.Days {
		for _, list := range [][]DayStep{day.Morning, day.Evening, day.Weekly} {
			for _, s := range list {
				if s.ProductID != nil {
					add(*s.ProductID)
				}
				for _, alt := range s.Alternatives {
					add(alt)
				}
			}
		}
	}
	return refs
}

func buildWarnings(cls Classification) []string {
	var warnings []string
	if cls.Pregnant {
		warnings = append(warnings, "Products marked unsafe during pregnancy were excluded from this plan.")
	}
	if cls.RetinolExcluded() {
		warnings = append(warnings, "Retinol-based products were excluded because of a reported allergy or exclusion.")
	}
	if len(cls.Exclusions) > 0 {
		warnings = append(warnings, fmt.Sprintf("Excluded ingredients applied to product selection: %d", len(cls.Exclusions)))
	}
	return warnings
}
