package plan

import "testing"

func TestBuildWeekStepsProgressiveIntroduction(t *testing.T) {
	// Three additional morning steps beyond cleanser and SPF.
	tpl := Template{
		Morning: []StepCategory{
			CategoryCleanserBalancing,
			CategoryTonerExfoliating,
			CategorySerumNiacinamide,
			CategoryMoisturizerLight,
			CategorySPF50Face,
		},
		Evening: []StepCategory{CategoryCleanserBalancing, CategoryMoisturizerLight},
	}
	cls := Classification{SkinType: "oily", Budget: BudgetAny}

	wantMorning := map[int]int{1: 3, 2: 4, 3: 4, 4: 5}
	prev := 0
	for week := 1; week <= 4; week++ {
		ws := BuildWeekSteps(tpl, cls, week)
		if got := len(ws.Morning); got != wantMorning[week] {
			t.Fatalf("week %d morning steps: want=%d got=%d (%v)", week, wantMorning[week], got, ws.Morning)
		}
		if len(ws.Morning) < prev {
			t.Fatalf("week %d morning count decreased: %d < %d", week, len(ws.Morning), prev)
		}
		prev = len(ws.Morning)

		if ws.Morning[0] != CategoryCleanserBalancing {
			t.Fatalf("week %d morning must open with the cleanser, got %v", week, ws.Morning)
		}
		if last := ws.Morning[len(ws.Morning)-1]; last != CategorySPF50Face {
			t.Fatalf("week %d morning must close with SPF, got %v", week, ws.Morning)
		}
		if containsBase(ws.Evening, BaseSPF) {
			t.Fatalf("week %d evening must not contain SPF: %v", week, ws.Evening)
		}
	}
}

func TestBuildWeekStepsAdditionalOrderFollowsTemplate(t *testing.T) {
	tpl := Template{
		Morning: []StepCategory{
			CategoryCleanserGentle,
			CategoryTonerHydrating,
			CategorySerumHydrating,
			CategorySPF50Face,
		},
	}
	cls := Classification{SkinType: "normal", Budget: BudgetAny}

	week1 := BuildWeekSteps(tpl, cls, 1).Morning
	want := []StepCategory{CategoryCleanserGentle, CategoryTonerHydrating, CategorySPF50Face}
	if len(week1) != len(want) {
		t.Fatalf("week 1 morning: want=%v got=%v", want, week1)
	}
	for i := range want {
		if week1[i] != want[i] {
			t.Fatalf("week 1 morning position %d: want=%s got=%s", i, want[i], week1[i])
		}
	}
}

func TestBuildWeekStepsMandatoryDefaultsForEmptyTemplate(t *testing.T) {
	cls := Classification{SkinType: "normal", Budget: BudgetAny}
	ws := BuildWeekSteps(Template{}, cls, 1)

	if len(ws.Morning) != 2 || ws.Morning[0] != CategoryCleanserGentle || ws.Morning[1] != CategorySPF50Face {
		t.Fatalf("morning defaults: want=[cleanser_gentle spf_50_face] got=%v", ws.Morning)
	}
	if len(ws.Evening) != 1 || ws.Evening[0] != CategoryCleanserGentle {
		t.Fatalf("evening defaults: want=[cleanser_gentle] got=%v", ws.Evening)
	}
}

func TestBuildWeekStepsPregnancyDropsRetinol(t *testing.T) {
	tpl := Template{
		Evening: []StepCategory{CategoryCleanserCream, CategorySerumRetinol, CategoryMoisturizerRich},
	}
	cls := Classification{SkinType: "normal", Budget: BudgetAny, Pregnant: true}

	for week := 1; week <= 4; week++ {
		evening := BuildWeekSteps(tpl, cls, week).Evening
		for _, c := range evening {
			if c == CategorySerumRetinol {
				t.Fatalf("week %d evening contains retinol for pregnant user: %v", week, evening)
			}
		}
		if !containsBase(evening, BaseCleanser) {
			t.Fatalf("week %d evening lost its cleanser: %v", week, evening)
		}
	}
}

func TestBuildWeekStepsRetinolExclusion(t *testing.T) {
	tpl := Template{
		Evening: []StepCategory{CategoryCleanserCream, CategorySerumRetinol, CategoryMoisturizerRich},
	}
	cls := Classification{SkinType: "normal", Budget: BudgetAny, Exclusions: []string{"ретинол"}}

	evening := BuildWeekSteps(tpl, cls, 4).Evening
	for _, c := range evening {
		if c == CategorySerumRetinol {
			t.Fatalf("evening contains retinol despite exclusion: %v", evening)
		}
	}
}

func TestBuildWeekStepsDeduplicates(t *testing.T) {
	tpl := Template{
		Morning: []StepCategory{
			CategoryCleanserGentle,
			CategorySerumHydrating,
			CategorySerumHydrating,
			CategorySPF50Face,
		},
	}
	cls := Classification{SkinType: "normal", Budget: BudgetAny}

	morning := BuildWeekSteps(tpl, cls, 4).Morning
	seen := map[StepCategory]int{}
	for _, c := range morning {
		seen[c]++
		if seen[c] > 1 {
			t.Fatalf("duplicate category %s in %v", c, morning)
		}
	}
}
