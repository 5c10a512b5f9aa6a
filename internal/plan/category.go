package plan

// BaseStep is the coarse family a step category belongs to. Legacy catalog
// rows are tagged with a base step directly.
type BaseStep string

const (
	BaseCleanser    BaseStep = "cleanser"
	BaseToner       BaseStep = "toner"
	BaseSerum       BaseStep = "serum"
	BaseTreatment   BaseStep = "treatment"
	BaseMoisturizer BaseStep = "moisturizer"
	BaseSPF         BaseStep = "spf"
	BaseMask        BaseStep = "mask"
	BaseLipCare     BaseStep = "lip_care"
)

// StepCategory is the fine-grained tag identifying a specific product role
// within a routine. The set is closed; every category maps to exactly one
// base step via baseStepTable.
type StepCategory string

const (
	CategoryCleanserGentle    StepCategory = "cleanser_gentle"
	CategoryCleanserBalancing StepCategory = "cleanser_balancing"
	CategoryCleanserCream     StepCategory = "cleanser_cream"

	CategoryTonerHydrating   StepCategory = "toner_hydrating"
	CategoryTonerExfoliating StepCategory = "toner_exfoliating"
	CategoryTonerSoothing    StepCategory = "toner_soothing"

	CategorySerumHydrating   StepCategory = "serum_hydrating"
	CategorySerumNiacinamide StepCategory = "serum_niacinamide"
	CategorySerumVitaminC    StepCategory = "serum_vitamin_c"
	CategorySerumRetinol     StepCategory = "serum_retinol"
	CategorySerumPeptide     StepCategory = "serum_peptide"

	CategoryTreatmentAcneSpot     StepCategory = "treatment_acne_spot"
	CategoryTreatmentAzelaic      StepCategory = "treatment_azelaic"
	CategoryTreatmentPigmentation StepCategory = "treatment_pigmentation"

	CategoryMoisturizerLight   StepCategory = "moisturizer_light"
	CategoryMoisturizerRich    StepCategory = "moisturizer_rich"
	CategoryMoisturizerBarrier StepCategory = "moisturizer_barrier"

	CategorySPF50Face StepCategory = "spf_50_face"
	CategorySPF30Face StepCategory = "spf_30_face"

	CategoryMaskClay        StepCategory = "mask_clay"
	CategoryMaskHydrating   StepCategory = "mask_hydrating"
	CategoryMaskExfoliating StepCategory = "mask_exfoliating"

	CategoryLipBalm StepCategory = "lip_care_balm"
)

var baseStepTable = map[StepCategory]BaseStep{
	CategoryCleanserGentle:    BaseCleanser,
	CategoryCleanserBalancing: BaseCleanser,
	CategoryCleanserCream:     BaseCleanser,

	CategoryTonerHydrating:   BaseToner,
	CategoryTonerExfoliating: BaseToner,
	CategoryTonerSoothing:    BaseToner,

	CategorySerumHydrating:   BaseSerum,
	CategorySerumNiacinamide: BaseSerum,
	CategorySerumVitaminC:    BaseSerum,
	CategorySerumRetinol:     BaseSerum,
	CategorySerumPeptide:     BaseSerum,

	CategoryTreatmentAcneSpot:     BaseTreatment,
	CategoryTreatmentAzelaic:      BaseTreatment,
	CategoryTreatmentPigmentation: BaseTreatment,

	CategoryMoisturizerLight:   BaseMoisturizer,
	CategoryMoisturizerRich:    BaseMoisturizer,
	CategoryMoisturizerBarrier: BaseMoisturizer,

	CategorySPF50Face: BaseSPF,
	CategorySPF30Face: BaseSPF,

	CategoryMaskClay:        BaseMask,
	CategoryMaskHydrating:   BaseMask,
	CategoryMaskExfoliating: BaseMask,

	CategoryLipBalm: BaseLipCare,
}

// substituteTable designates the category-level fallback tried when a
// category (and its base-step bucket) has no eligible product.
var substituteTable = map[BaseStep]StepCategory{
	BaseCleanser:    CategoryCleanserGentle,
	BaseToner:       CategoryTonerHydrating,
	BaseSerum:       CategorySerumHydrating,
	BaseTreatment:   CategoryTreatmentAzelaic,
	BaseMoisturizer: CategoryMoisturizerLight,
	BaseSPF:         CategorySPF50Face,
	BaseMask:        CategoryMaskHydrating,
	BaseLipCare:     CategoryLipBalm,
}

// BaseStepOf returns the base step of a category, or false for a tag
// outside the closed set.
func BaseStepOf(c StepCategory) (BaseStep, bool) {
	b, ok := baseStepTable[c]
	return b, ok
}

// SubstituteFor returns the designated fallback category for c. The
// substitute of a category is never the category itself unless c already
// is the designated default for its base step.
func SubstituteFor(c StepCategory) (StepCategory, bool) {
	b, ok := baseStepTable[c]
	if !ok {
		return "", false
	}
	return substituteTable[b], true
}

// ParseStepCategory validates a stored tag against the closed set.
func ParseStepCategory(s string) (StepCategory, bool) {
	c := StepCategory(s)
	_, ok := baseStepTable[c]
	return c, ok
}

// ParseBaseStep validates a legacy base-step tag.
func ParseBaseStep(s string) (BaseStep, bool) {
	switch b := BaseStep(s); b {
	case BaseCleanser, BaseToner, BaseSerum, BaseTreatment, BaseMoisturizer, BaseSPF, BaseMask, BaseLipCare:
		return b, true
	}
	return "", false
}

// AllCategoriesOf lists every category belonging to a base step, in a
// stable order.
func AllCategoriesOf(b BaseStep) []StepCategory {
	var out []StepCategory
	for _, c := range allCategories {
		if baseStepTable[c] == b {
			out = append(out, c)
		}
	}
	return out
}

// allCategories keeps a deterministic iteration order; map iteration over
// baseStepTable is not stable.
var allCategories = []StepCategory{
	CategoryCleanserGentle, CategoryCleanserBalancing, CategoryCleanserCream,
	CategoryTonerHydrating, CategoryTonerExfoliating, CategoryTonerSoothing,
	CategorySerumHydrating, CategorySerumNiacinamide, CategorySerumVitaminC, CategorySerumRetinol, CategorySerumPeptide,
	CategoryTreatmentAcneSpot, CategoryTreatmentAzelaic, CategoryTreatmentPigmentation,
	CategoryMoisturizerLight, CategoryMoisturizerRich, CategoryMoisturizerBarrier,
	CategorySPF50Face, CategorySPF30Face,
	CategoryMaskClay, CategoryMaskHydrating, CategoryMaskExfoliating,
	CategoryLipBalm,
}
