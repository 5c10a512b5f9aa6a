package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skindiary/careplan-backend/internal/plan"
	"github.com/skindiary/careplan-backend/internal/requestdata"
	"github.com/skindiary/careplan-backend/internal/services"
)

type PlanHandler struct {
	planService services.PlanService
}

func NewPlanHandler(planService services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type generatePlanRequest struct {
	QuestionnaireID string `json:"questionnaire_id"`
}

func (ph *PlanHandler) GeneratePlan(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	// The body is optional; an absent body falls back to the default
	// questionnaire.
	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.QuestionnaireID == "" {
		req.QuestionnaireID = "skin_v1"
	}

	generated, err := ph.planService.GeneratePlan(c.Request.Context(), rd.UserID, req.QuestionnaireID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	RespondOK(c, generated)
}

func (ph *PlanHandler) GetPlan(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	generated, err := ph.planService.GetCachedPlan(c.Request.Context(), rd.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNoCachedPlan) {
			RespondError(c, http.StatusNotFound, "no_plan", err)
			return
		}
		respondPlanError(c, err)
		return
	}
	RespondOK(c, generated)
}

// respondPlanError maps the generation error taxonomy onto user-visible
// outcomes: "complete the questionnaire" and "could not generate plan".
// Raw internals never leak.
func respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingProfile):
		RespondError(c, http.StatusConflict, "missing_profile", errors.New("complete the questionnaire first"))
	case errors.Is(err, plan.ErrEmptyCatalogForRequiredStep):
		RespondError(c, http.StatusBadGateway, "plan_generation_failed", errors.New("could not generate plan"))
	default:
		RespondError(c, http.StatusInternalServerError, "internal", errors.New("could not generate plan"))
	}
}
