package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	redisclient "github.com/skindiary/careplan-backend/internal/clients/redis"
	"github.com/skindiary/careplan-backend/internal/clients/scoring"
	"github.com/skindiary/careplan-backend/internal/logger"
	"github.com/skindiary/careplan-backend/internal/plan"
	"github.com/skindiary/careplan-backend/internal/repos"
	"github.com/skindiary/careplan-backend/internal/types"
)

// ErrMissingProfile means the user has never completed the questionnaire;
// the caller surfaces a "complete the questionnaire" outcome.
var ErrMissingProfile = errors.New("no skin profile for user")

// ErrNoCachedPlan means no plan exists for the user's latest profile
// version.
var ErrNoCachedPlan = errors.New("no cached plan")

type PlanService interface {
	// GeneratePlan produces (or returns the cached) 28-day plan for the
	// user's latest profile version.
	GeneratePlan(ctx context.Context, userID uuid.UUID, questionnaireID string) (*plan.GeneratedPlan, error)
	// GetCachedPlan returns the cached plan for the latest profile
	// version without generating.
	GetCachedPlan(ctx context.Context, userID uuid.UUID) (*plan.GeneratedPlan, error)
}

type planService struct {
	db                 *gorm.DB
	log                *logger.Logger
	profileRepo        repos.SkinProfileRepo
	answerRepo         repos.QuestionnaireAnswerRepo
	productRepo        repos.ProductRepo
	cache              redisclient.PlanCache
	scoringClient      scoring.Client
	substitutionWindow time.Duration
}

func NewPlanService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.SkinProfileRepo,
	answerRepo repos.QuestionnaireAnswerRepo,
	productRepo repos.ProductRepo,
	cache redisclient.PlanCache,
	scoringClient scoring.Client,
	substitutionWindow time.Duration,
) PlanService {
	serviceLog := log.With("service", "PlanService")
	return &planService{
		db:                 db,
		log:                serviceLog,
		profileRepo:        profileRepo,
		answerRepo:         answerRepo,
		productRepo:        productRepo,
		cache:              cache,
		scoringClient:      scoringClient,
		substitutionWindow: substitutionWindow,
	}
}

func (s *planService) GeneratePlan(ctx context.Context, userID uuid.UUID, questionnaireID string) (*plan.GeneratedPlan, error) {
	profile, err := s.profileRepo.GetLatestByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return nil, ErrMissingProfile
	}

	if cached := s.cachedPlan(ctx, userID, profile.Version); cached != nil {
		s.log.Debug("Returning cached plan", "user_id", userID, "version", profile.Version)
		return cached, nil
	}

	var (
		answers map[string]any
		batch   []types.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var aErr error
		answers, aErr = s.answerRepo.GetAnswerMap(gctx, nil, userID, questionnaireID)
		if aErr != nil {
			return fmt.Errorf("fetch answers: %w", aErr)
		}
		return nil
	})
	g.Go(func() error {
		var pErr error
		batch, pErr = s.productRepo.ListPublished(gctx, nil)
		if pErr != nil {
			return fmt.Errorf("fetch product batch: %w", pErr)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores, recs := s.fetchScores(ctx, answers)

	cls := plan.Classify(profile, answers)
	tpl := plan.SelectTemplate(cls.SkinType, cls.MainGoals, cls.Sensitivity, cls.Complexity)
	// The stored complexity override is applied after the template is
	// already selected from the answer-derived value: it changes the
	// weekly-focus cadence but not the template. Observed behavior of the
	// previous generation flow, kept intentionally.
	if override, ok := plan.ComplexityOverride(profile); ok {
		cls.Complexity = override
	}

	resolver := plan.NewResolver(s.log, cls, batch, s.querier(), plan.ResolverConfig{
		ProfileAge:         time.Since(profile.UpdatedAt),
		SubstitutionWindow: s.substitutionWindow,
	})
	if err := resolver.EnsureMandatory(ctx); err != nil {
		return nil, err
	}
	resolver.SubstituteInactiveBrands()

	assembler := plan.NewAssembler(s.log, cls, tpl, resolver)
	p28, err := assembler.Assemble(ctx, userID, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("assemble plan: %w", err)
	}

	generated := plan.BuildGeneratedPlan(cls, p28, scores, recs, resolver.IndexedProducts())

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, profile.Version, generated); err != nil {
			// Cache write failure never fails the generation.
			s.log.Warn("Failed to cache generated plan", "user_id", userID, "version", profile.Version, "error", err)
		}
	}
	s.log.Info("Generated plan", "user_id", userID, "version", profile.Version, "template", tpl.ID, "focus", cls.PrimaryFocus)
	return generated, nil
}

func (s *planService) GetCachedPlan(ctx context.Context, userID uuid.UUID) (*plan.GeneratedPlan, error) {
	profile, err := s.profileRepo.GetLatestByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return nil, ErrMissingProfile
	}
	cached := s.cachedPlan(ctx, userID, profile.Version)
	if cached == nil {
		return nil, ErrNoCachedPlan
	}
	return cached, nil
}

func (s *planService) cachedPlan(ctx context.Context, userID uuid.UUID, version int) *plan.GeneratedPlan {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, userID, version)
	if err != nil {
		s.log.Warn("Plan cache read failed, regenerating", "user_id", userID, "version", version, "error", err)
		return nil
	}
	return cached
}

func (s *planService) fetchScores(ctx context.Context, answers map[string]any) ([]plan.AxisScore, *plan.Recommendations) {
	if s.scoringClient == nil {
		return nil, nil
	}
	scores, err := s.scoringClient.Score(ctx, answers)
	if err != nil {
		s.log.Warn("Scoring service failed, proceeding without scores", "error", err)
		return nil, nil
	}
	recs, err := s.scoringClient.Recommend(ctx, scores, answers)
	if err != nil {
		s.log.Warn("Recommendation fetch failed, proceeding without narrative advice", "error", err)
		return scores, nil
	}
	return scores, recs
}

// querier adapts ProductRepo to the engine's Catalog Store boundary.
func (s *planService) querier() plan.ProductQuerier {
	return &productQuerier{repo: s.productRepo}
}

type productQuerier struct {
	repo repos.ProductRepo
}

func (q *productQuerier) QueryProducts(ctx context.Context, query plan.ProductQuery) ([]types.Product, error) {
	categories := make([]string, 0, len(query.Categories))
	for _, c := range query.Categories {
		categories = append(categories, string(c))
	}
	return q.repo.QueryByBaseStep(ctx, nil, string(query.BaseStep), categories, query.SkinType, query.IncludeEmptySkinTypes)
}
