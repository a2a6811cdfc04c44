package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripweaver/internal/models/request_models"
	"tripweaver/internal/repositories"
	"tripweaver/internal/services"
	"tripweaver/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
	planRepo    repositories.PlanRepository
}

func NewPlanController(planService services.PlanServiceInterface, planRepo repositories.PlanRepository) *PlanController {
	return &PlanController{
		planService: planService,
		planRepo:    planRepo,
	}
}

// GeneratePlanHandler runs the full generation pipeline and persists the
// result. A failed save does not invalidate a successfully generated plan;
// the plan is returned with a warning instead.
func (p *PlanController) GeneratePlanHandler(c *gin.Context) {
	var req request_models.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Missing required parameters: destination, startDate, endDate")
		return
	}

	accountID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid account")
		return
	}

	plan, err := p.planService.GeneratePlan(c.Request.Context(), req, nil)
	if err != nil {
		p.respondGenerationError(c, err)
		return
	}

	planID, saveErr := p.planRepo.SavePlan(c.Request.Context(), accountID, plan)
	if saveErr != nil {
		log.Printf("plan save failed: %v", saveErr)
		utils.RespondSuccessWithWarning(c, plan, "Travel plan generated", "Plan generated but could not be saved")
		return
	}
	plan.ID = planID.String()

	utils.RespondSuccess(c, plan, "Travel plan generated")
}

func (p *PlanController) respondGenerationError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var dayErr *services.DayGenerationError
	var genErr *services.GenerationError

	switch {
	case errors.Is(err, utils.ErrInvalidInput):
		utils.RespondError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &validationErr):
		utils.RespondError(c, http.StatusInternalServerError, "Generated plan failed validation, please try again")
	case errors.As(err, &dayErr):
		utils.RespondError(c, http.StatusInternalServerError, "Failed to generate the itinerary, please try again or shorten the trip")
	case errors.As(err, &genErr):
		utils.RespondError(c, http.StatusInternalServerError, "Failed to generate the plan, please try again")
	default:
		utils.HandleServiceError(c, err)
	}
}

func (p *PlanController) ParseRequestHandler(c *gin.Context) {
	var req request_models.ParseTravelRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "text is required")
		return
	}

	parsed, err := p.planService.ParseTravelRequest(c.Request.Context(), req.Text)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, parsed, "Travel request parsed")
}

func (p *PlanController) ListPlansHandler(c *gin.Context) {
	accountID := c.GetString("user_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	records, err := p.planRepo.ListPlansByAccount(c.Request.Context(), accountID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, utils.ErrDatabaseError)
		return
	}

	utils.RespondSuccess(c, records, "Plans retrieved")
}

func (p *PlanController) GetPlanHandler(c *gin.Context) {
	record, err := p.planRepo.GetPlanByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrDatabaseError)
		return
	}
	if record == nil || record.AccountID.String() != c.GetString("user_id") {
		utils.RespondError(c, http.StatusNotFound, "Plan not found")
		return
	}

	utils.RespondSuccess(c, record, "Plan retrieved")
}
