package plan

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/skindiary/careplan-backend/internal/logger"
)

// PlanDays is the fixed length of a generated plan.
const PlanDays = 28

// Phase is the coarse pacing label the presentation layer shows for a
// band of days. Bands are a pure function of the day index.
type Phase string

const (
	PhaseIntroduction Phase = "introduction"
	PhaseAdaptation   Phase = "adaptation"
	PhaseMaintenance  Phase = "maintenance"
	PhaseResults      Phase = "results"
)

// PhaseForDay maps a day index (1..28) to its phase band.
func PhaseForDay(dayIndex int) Phase {
	switch {
	case dayIndex <= 7:
		return PhaseIntroduction
	case dayIndex <= 14:
		return PhaseAdaptation
	case dayIndex <= 21:
		return PhaseMaintenance
	default:
		return PhaseResults
	}
}

// DayStep binds a step category to a concrete product plus up to three
// ranked alternatives. Alternatives never contain the chosen product.
type DayStep struct {
	StepCategory StepCategory `json:"step_category"`
	ProductID    *uuid.UUID   `json:"product_id"`
	Alternatives []uuid.UUID  `json:"alternatives,omitempty"`
}

type DayPlan struct {
	DayIndex         int       `json:"day_index"`
	Phase            Phase     `json:"phase"`
	IsWeeklyFocusDay bool      `json:"is_weekly_focus_day"`
	Morning          []DayStep `json:"morning"`
	Evening          []DayStep `json:"evening"`
	Weekly           []DayStep `json:"weekly,omitempty"`
}

type Plan28 struct {
	UserID        uuid.UUID `json:"user_id"`
	SkinProfileID uuid.UUID `json:"skin_profile_id"`
	Days          []DayPlan `json:"days"`
	MainGoals     []string  `json:"main_goals"`
}

// Assembler unrolls the 28 individual day plans. It is a single-pass,
// stateless transformation: no partial or interrupted states exist.
type Assembler struct {
	log      *logger.Logger
	cls      Classification
	tpl      Template
	resolver *Resolver
}

func NewAssembler(log *logger.Logger, cls Classification, tpl Template, resolver *Resolver) *Assembler {
	return &Assembler{
		log:      log.With("component", "DayAssembler"),
		cls:      cls,
		tpl:      tpl,
		resolver: resolver,
	}
}

// Assemble produces the full 28-day plan for one user and profile.
func (a *Assembler) Assemble(ctx context.Context, userID, profileID uuid.UUID) (*Plan28, error) {
	weeks := [5]WeekSteps{}
	for w := 1; w <= 4; w++ {
		weeks[w] = BuildWeekSteps(a.tpl, a.cls, w)
	}

	weekly := dedupCategories(allowedOnly(a.tpl.Weekly, a.cls))

	days := make([]DayPlan, 0, PlanDays)
	for day := 1; day <= PlanDays; day++ {
		week := (day-1)/7 + 1
		morning, err := a.bindSteps(ctx, weeks[week].Morning, true)
		if err != nil {
			return nil, fmt.Errorf("day %d morning: %w", day, err)
		}
		evening, err := a.bindSteps(ctx, weeks[week].Evening, false)
		if err != nil {
			return nil, fmt.Errorf("day %d evening: %w", day, err)
		}

		dp := DayPlan{
			DayIndex:         day,
			Phase:            PhaseForDay(day),
			IsWeeklyFocusDay: WeeklyFocusDay(day, a.cls.Complexity, len(weekly) > 0),
			Morning:          morning,
			Evening:          evening,
		}
		if dp.IsWeeklyFocusDay {
			steps, err := a.bindSteps(ctx, weekly, false)
			if err != nil {
				return nil, fmt.Errorf("day %d weekly: %w", day, err)
			}
			dp.Weekly = steps
		}
		days = append(days, dp)
	}

	return &Plan28{
		UserID:        userID,
		SkinProfileID: profileID,
		Days:          days,
		MainGoals:     a.cls.MainGoals,
	}, nil
}

// bindSteps resolves each category to its top-ranked product and the next
// three alternatives. A non-mandatory category with no product is simply
// dropped from the day; an empty cleanser (or morning SPF) escalates,
// because the plan could no longer satisfy its mandatory-step invariant.
func (a *Assembler) bindSteps(ctx context.Context, cats []StepCategory, morning bool) ([]DayStep, error) {
	steps := make([]DayStep, 0, len(cats))
	for _, cat := range cats {
		products := a.resolver.ProductsForStep(ctx, cat)
		if len(products) == 0 {
			if isMandatory(cat, morning) {
				return nil, fmt.Errorf("%w: %s", ErrEmptyCatalogForRequiredStep, cat)
			}
			a.log.Debug("Dropping step with no bound product", "category", cat)
			continue
		}
		chosen := products[0]
		alts := make([]uuid.UUID, 0, 3)
		for _, p := range products[1:] {
			if p.ID == chosen.ID {
				continue
			}
			if containsUUID(alts, p.ID) {
				continue
			}
			alts = append(alts, p.ID)
			if len(alts) == 3 {
				break
			}
		}
		id := chosen.ID
		steps = append(steps, DayStep{
			StepCategory: cat,
			ProductID:    &id,
			Alternatives: alts,
		})
	}
	return steps, nil
}

func isMandatory(cat StepCategory, morning bool) bool {
	base, ok := BaseStepOf(cat)
	if !ok {
		return false
	}
	if base == BaseCleanser {
		return true
	}
	return morning && base == BaseSPF
}

// WeeklyFocusDay is the deterministic deep-care day rule: sparser for
// minimal complexity, denser for maximal. No randomness.
func WeeklyFocusDay(dayIndex int, complexity Complexity, hasWeeklySteps bool) bool {
	if !hasWeeklySteps {
		return false
	}
	switch complexity {
	case ComplexityMinimal:
		return dayIndex%7 == 6
	case ComplexityMaximal:
		m := dayIndex % 7
		return m == 3 || m == 6
	default:
		// Medium gets one per week plus an extra push in the final week.
		return dayIndex%7 == 6 || dayIndex == 24
	}
}

func allowedOnly(cats []StepCategory, cls Classification) []StepCategory {
	out := make([]StepCategory, 0, len(cats))
	for _, c := range cats {
		if StepAllowed(c, cls) {
			out = append(out, c)
		}
	}
	return out
}

func containsUUID(list []uuid.UUID, id uuid.UUID) bool {
	for _, item := range list {
		if item == id {
			return true
		}
	}
	return false
}
