package plan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skindiary/careplan-backend/internal/logger"
	"github.com/skindiary/careplan-backend/internal/types"
)

// ErrEmptyCatalogForRequiredStep is returned when a mandatory step
// (cleanser or SPF) resolves to zero products after every fallback tier.
var ErrEmptyCatalogForRequiredStep = errors.New("catalog empty for required step")

// DefaultSubstitutionWindow bounds how long after the last classification
// the resolver will still swap out deactivated-brand products. Older
// profiles keep their assignments.
const DefaultSubstitutionWindow = 7 * 24 * time.Hour

// ProductQuery describes an on-demand Catalog Store lookup used by the
// last fallback tier and the mandatory-step guarantee. Only published,
// brand-active rows qualify; ordering is hero, priority, recency.
type ProductQuery struct {
	BaseStep   BaseStep
	Categories []StepCategory
	// SkinType, when set, restricts to products listing that skin type.
	// IncludeEmptySkinTypes additionally admits products with no
	// skin-type restriction.
	SkinType              string
	IncludeEmptySkinTypes bool
}

// ProductQuerier is the Catalog Store boundary the resolver falls back to
// when its in-memory batch has nothing for a required category.
type ProductQuerier interface {
	QueryProducts(ctx context.Context, q ProductQuery) ([]types.Product, error)
}

// ResolverConfig carries the request-scoped policy knobs.
type ResolverConfig struct {
	// ProfileAge is the time since the profile's last classification.
	ProfileAge time.Duration
	// SubstitutionWindow overrides DefaultSubstitutionWindow when > 0.
	SubstitutionWindow time.Duration
}

// Resolver turns the eligible product batch into a stepCategory → ranked
// products index and guarantees every template step resolves to at least
// one product. It is request-scoped: built once per generation, never
// shared across calls.
type Resolver struct {
	log     *logger.Logger
	cls     Classification
	querier ProductQuerier
	cfg     ResolverConfig
	// index keys are step category tags and base-step tags; a product is
	// registered under both when they differ.
	index map[string][]types.Product
}

func NewResolver(log *logger.Logger, cls Classification, batch []types.Product, querier ProductQuerier, cfg ResolverConfig) *Resolver {
	resolverLog := log.With("component", "CatalogResolver")
	eligible := make([]types.Product, 0, len(batch))
	for _, p := range batch {
		if Eligible(p, cls) {
			eligible = append(eligible, p)
		}
	}
	rankProducts(eligible, cls)
	return &Resolver{
		log:     resolverLog,
		cls:     cls,
		querier: querier,
		cfg:     cfg,
		index:   buildIndex(eligible),
	}
}

// Eligible is the filtering predicate applied to every batch product. SPF
// products skip the skin-type check so sun protection is never filtered
// down to nothing over a skin-type mismatch.
func Eligible(p types.Product, cls Classification) bool {
	if !p.Published {
		return false
	}
	base, ok := productBaseStep(p)
	if !ok {
		return false
	}
	if base != BaseSPF && len(p.SkinTypes) > 0 && !containsFold(p.SkinTypes, cls.SkinType) {
		return false
	}
	if cls.Budget != BudgetAny && p.Price > 0 && !withinBudget(p.Price, cls.Budget) {
		return false
	}
	return SafeFor(p, cls)
}

// SafeFor checks only the safety rules: exclusions, pregnancy and retinol
// allergy. Fallback-tier results must still be safe even when skin-type
// and budget constraints are relaxed.
func SafeFor(p types.Product, cls Classification) bool {
	for _, excl := range cls.Exclusions {
		for _, ing := range p.Ingredients {
			if strings.Contains(strings.ToLower(ing), excl) {
				return false
			}
		}
	}
	if cls.Pregnant && containsFold(p.AvoidIf, "pregnant") {
		return false
	}
	if cls.RetinolExcluded() {
		if containsFold(p.AvoidIf, "retinol_allergy") {
			return false
		}
		for _, ing := range p.Ingredients {
			low := strings.ToLower(ing)
			if strings.Contains(low, "retinol") || strings.Contains(low, "ретинол") {
				return false
			}
		}
	}
	return true
}

var budgetCeiling = map[BudgetTier]int{
	BudgetLow: 1500,
	BudgetMid: 3500,
}

func withinBudget(price int, tier BudgetTier) bool {
	ceiling, ok := budgetCeiling[tier]
	if !ok {
		// premium and any have no ceiling
		return true
	}
	return price <= ceiling
}

// rankProducts sorts descending by concern match with the primary focus,
// hero flag, priority, then recency as the final tie-break.
func rankProducts(products []types.Product, cls Classification) {
	sort.SliceStable(products, func(i, j int) bool {
		pi, pj := products[i], products[j]
		mi, mj := matchesFocus(pi, cls.PrimaryFocus), matchesFocus(pj, cls.PrimaryFocus)
		if mi != mj {
			return mi
		}
		if pi.IsHero != pj.IsHero {
			return pi.IsHero
		}
		if pi.Priority != pj.Priority {
			return pi.Priority > pj.Priority
		}
		return pi.CreatedAt.After(pj.CreatedAt)
	})
}

func matchesFocus(p types.Product, focus Focus) bool {
	return containsFold(p.Concerns, string(focus))
}

// buildIndex is a pure fold over the ranked batch: each product registers
// under its native tag and, when distinct, under its base-step tag, so a
// lookup by either a fine-grained category or its base step succeeds.
func buildIndex(products []types.Product) map[string][]types.Product {
	index := make(map[string][]types.Product)
	for _, p := range products {
		native, base, ok := indexKeys(p)
		if !ok {
			continue
		}
		index[native] = append(index[native], p)
		if native != base {
			index[base] = append(index[base], p)
		}
	}
	return index
}

func indexKeys(p types.Product) (native, base string, ok bool) {
	if c, valid := ParseStepCategory(p.StepCategory); valid {
		b := baseStepTable[c]
		return string(c), string(b), true
	}
	if b, valid := ParseBaseStep(p.LegacyStep); valid {
		return string(b), string(b), true
	}
	return "", "", false
}

func productBaseStep(p types.Product) (BaseStep, bool) {
	if c, valid := ParseStepCategory(p.StepCategory); valid {
		return baseStepTable[c], true
	}
	return ParseBaseStep(p.LegacyStep)
}

// ProductsForStep resolves a category to its ranked products, walking the
// fallback tiers in order: exact category, base-step bucket, designated
// substitute category, the substitute's base-step bucket, then a live
// Catalog Store query whose result is registered into the index.
func (r *Resolver) ProductsForStep(ctx context.Context, cat StepCategory) []types.Product {
	base, known := BaseStepOf(cat)
	lookups := []string{string(cat)}
	if known {
		lookups = append(lookups, string(base))
		if sub, ok := SubstituteFor(cat); ok && sub != cat {
			subBase := baseStepTable[sub]
			lookups = append(lookups, string(sub), string(subBase))
		}
	}
	for _, key := range lookups {
		if bucket := r.index[key]; len(bucket) > 0 {
			return bucket
		}
	}
	if !known || r.querier == nil {
		return nil
	}

	q := ProductQuery{BaseStep: base, Categories: AllCategoriesOf(base)}
	if base != BaseSPF {
		q.SkinType = r.cls.SkinType
		q.IncludeEmptySkinTypes = true
	}
	fetched, err := r.querier.QueryProducts(ctx, q)
	if err != nil {
		r.log.Warn("Fallback catalog query failed", "category", cat, "error", err)
		return nil
	}
	safe := make([]types.Product, 0, len(fetched))
	for _, p := range fetched {
		if SafeFor(p, r.cls) {
			safe = append(safe, p)
		}
	}
	if len(safe) == 0 {
		return nil
	}
	r.log.Info("Registered fallback products for step", "category", cat, "count", len(safe))
	r.register(string(cat), safe)
	if string(base) != string(cat) {
		r.register(string(base), safe)
	}
	return safe
}

// IndexedProducts flattens the index into an ID → product map, used to
// resolve bound product IDs back to rows for the output contract.
func (r *Resolver) IndexedProducts() map[uuid.UUID]types.Product {
	out := make(map[uuid.UUID]types.Product)
	for _, bucket := range r.index {
		for _, p := range bucket {
			out[p.ID] = p
		}
	}
	return out
}

func (r *Resolver) register(key string, products []types.Product) {
	existing := r.index[key]
	for _, p := range products {
		if !containsProduct(existing, p.ID.String()) {
			existing = append(existing, p)
		}
	}
	r.index[key] = existing
}

// EnsureMandatory verifies the cleanser and SPF buckets after filtering
// and performs a best-effort Catalog Store lookup when one is empty, even
// if the registered product has no concern-tag relevance. SPF ignores the
// skin-type constraint entirely; cleanser prefers a skin-type match but
// retries without one.
func (r *Resolver) EnsureMandatory(ctx context.Context) error {
	for _, base := range []BaseStep{BaseCleanser, BaseSPF} {
		if len(r.index[string(base)]) > 0 {
			continue
		}
		if r.querier == nil {
			return fmt.Errorf("%w: %s", ErrEmptyCatalogForRequiredStep, base)
		}
		q := ProductQuery{BaseStep: base, Categories: AllCategoriesOf(base)}
		if base == BaseCleanser {
			q.SkinType = r.cls.SkinType
			q.IncludeEmptySkinTypes = true
		}
		found, err := r.queryMandatory(ctx, q)
		if err != nil {
			return err
		}
		if len(found) == 0 && base == BaseCleanser {
			// Retry ignoring skin type: any cleanser beats none.
			q.SkinType = ""
			q.IncludeEmptySkinTypes = false
			found, err = r.queryMandatory(ctx, q)
			if err != nil {
				return err
			}
		}
		if len(found) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyCatalogForRequiredStep, base)
		}
		r.log.Warn("Mandatory step bucket was empty after filtering, registered best-effort products", "base_step", base, "count", len(found))
		r.register(string(base), found)
		r.register(string(substituteTable[base]), found)
	}
	return nil
}

func (r *Resolver) queryMandatory(ctx context.Context, q ProductQuery) ([]types.Product, error) {
	fetched, err := r.querier.QueryProducts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("mandatory step query for %s: %w", q.BaseStep, err)
	}
	safe := make([]types.Product, 0, len(fetched))
	for _, p := range fetched {
		if SafeFor(p, r.cls) {
			safe = append(safe, p)
		}
	}
	return safe, nil
}

// SubstituteInactiveBrands replaces deactivated-brand candidates in place:
// first a same-base-step active-brand product sharing a skin-type or
// concern tag, then any same-base-step active-brand product, else the
// original is kept. The whole pass is skipped when the profile is older
// than the substitution window, so a mid-plan user is not silently moved
// onto different products.
func (r *Resolver) SubstituteInactiveBrands() {
	window := r.cfg.SubstitutionWindow
	if window <= 0 {
		window = DefaultSubstitutionWindow
	}
	if r.cfg.ProfileAge > window {
		r.log.Debug("Profile older than substitution window, keeping existing assignments", "profile_age", r.cfg.ProfileAge, "window", window)
		return
	}
	for key, bucket := range r.index {
		for i, p := range bucket {
			if p.BrandActive {
				continue
			}
			repl, ok := r.findReplacement(p)
			if !ok {
				r.log.Warn("No active-brand replacement found, keeping product", "product", p.Name, "brand", p.BrandName, "bucket", key)
				continue
			}
			bucket[i] = repl
		}
	}
}

func (r *Resolver) findReplacement(p types.Product) (types.Product, bool) {
	base, ok := productBaseStep(p)
	if !ok {
		return types.Product{}, false
	}
	candidates := r.index[string(base)]
	// First pass: shared skin-type or concern tag.
	for _, c := range candidates {
		if c.BrandActive && c.ID != p.ID && sharesTag(c, p) {
			return c, true
		}
	}
	for _, c := range candidates {
		if c.BrandActive && c.ID != p.ID {
			return c, true
		}
	}
	return types.Product{}, false
}

func sharesTag(a, b types.Product) bool {
	for _, st := range a.SkinTypes {
		if containsFold(b.SkinTypes, st) {
			return true
		}
	}
	for _, cn := range a.Concerns {
		if containsFold(b.Concerns, cn) {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func containsProduct(list []types.Product, id string) bool {
	for _, p := range list {
		if p.ID.String() == id {
			return true
		}
	}
	return false
}
