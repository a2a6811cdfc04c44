package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tripweaver/internal/models/request_models"
	"tripweaver/internal/models/response_models"
	"tripweaver/pkg/jsonrepair"
	"tripweaver/pkg/llm"
	mem "tripweaver/pkg/memcache"
	"tripweaver/pkg/utils"
)

const (
	maxDayAttempts = 3
	maxPlanDays    = 30
)

// ProgressFunc receives fire-and-forget progress notifications. It never
// affects control flow; a nil callback is valid.
type ProgressFunc func(current, total int, message string)

type PlanServiceInterface interface {
	GeneratePlan(ctx context.Context, input request_models.GeneratePlanRequest, onProgress ProgressFunc) (*response_models.TravelPlan, error)
	ParseTravelRequest(ctx context.Context, text string) (*response_models.ParsedTravelRequest, error)
}

type PlanService struct {
	chatClient llm.ChatClient
	cache      *mem.PlanCache

	// base unit of the linear per-day backoff (1x, 2x, 3x)
	retryDelay time.Duration
}

func NewPlanService(chatClient llm.ChatClient, cache *mem.PlanCache) PlanServiceInterface {
	return &PlanService{
		chatClient: chatClient,
		cache:      cache,
		retryDelay: time.Second,
	}
}

// GeneratePlan drives the staged pipeline: overview, then each day in order,
// then the summary, then a full structural validation of the assembled plan.
// Days are generated strictly sequentially because each day's prompt depends
// on the accepted prior days. No partial plan is ever returned.
func (s *PlanService) GeneratePlan(ctx context.Context, input request_models.GeneratePlanRequest, onProgress ProgressFunc) (*response_models.TravelPlan, error) {
	totalDays, err := validateGenerateInput(input)
	if err != nil {
		return nil, err
	}

	// The cache holds marshaled plans, never live pointers. Every hit decodes
	// a fresh value so callers can set the record ID or otherwise mutate their
	// plan without leaking into other requests.
	cacheKey := planCacheKey(input)
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			if data, ok := cached.([]byte); ok {
				var plan response_models.TravelPlan
				if err := json.Unmarshal(data, &plan); err == nil {
					log.Printf("plan cache hit for %s (%d days)", input.Destination, totalDays)
					return &plan, nil
				}
			}
		}
	}

	notify(onProgress, 0, totalDays+1, "正在生成计划概要...")
	title, err := s.generateOverview(ctx, input, totalDays)
	if err != nil {
		return nil, &GenerationError{Stage: "overview", Err: err}
	}
	log.Printf("overview generated: %s", title)

	overviewJSON, _ := json.Marshal(map[string]string{"title": title})
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt()},
		{Role: llm.RoleUser, Content: OverviewUserTurn(input, totalDays)},
		{Role: llm.RoleAssistant, Content: string(overviewJSON)},
	}

	itinerary := make([]response_models.ItineraryDay, 0, totalDays)
	for day := 1; day <= totalDays; day++ {
		notify(onProgress, day, totalDays+1, fmt.Sprintf("正在生成第 %d 天行程...", day))

		dayItinerary, err := s.generateDay(ctx, history, input, day, totalDays, itinerary)
		if err != nil {
			return nil, err
		}
		log.Printf("day %d/%d generated (%d activities)", day, totalDays, len(dayItinerary.Activities))

		itinerary = append(itinerary, dayItinerary)
		dayJSON, _ := json.Marshal(dayItinerary)
		history = append(history, llm.Message{Role: llm.RoleAssistant, Content: string(dayJSON)})
	}

	notify(onProgress, totalDays+1, totalDays+1, "正在生成行程总结...")
	summary, err := s.generateSummary(ctx, history, itinerary)
	if err != nil {
		return nil, &GenerationError{Stage: "summary", Err: err}
	}

	plan := &response_models.TravelPlan{
		Title:       title,
		Destination: input.Destination,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Days:        totalDays,
		Budget:      input.Budget,
		Preferences: input.Preferences,
		Itinerary:   itinerary,
		Summary:     summary,
	}

	if result := ValidatePlan(plan); !result.Valid {
		log.Printf("final plan validation failed: %v", result.Errors)
		return nil, &ValidationError{Errors: result.Errors}
	}

	if s.cache != nil {
		if data, err := json.Marshal(plan); err == nil {
			s.cache.Set(cacheKey, data)
		}
	}
	return plan, nil
}

// generateOverview requests a short plan title. Overview failures are not
// retried; they surface immediately.
func (s *PlanService) generateOverview(ctx context.Context, input request_models.GeneratePlanRequest, totalDays int) (string, error) {
	raw, err := s.chatClient.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "你是专业的旅行规划师，只返回JSON格式。"},
		{Role: llm.RoleUser, Content: OverviewTitlePrompt(input, totalDays)},
	}, llm.Options{Temperature: 0.8, MaxTokens: 100})
	if err != nil {
		return "", err
	}

	parsed, err := jsonrepair.Parse(raw)
	if err != nil {
		return "", err
	}

	title, _ := parsed["title"].(string)
	if title == "" {
		return "", errors.New("overview response missing title")
	}
	return title, nil
}

// generateDay runs one model call + parse + pre-check cycle for a single day,
// retrying with linear backoff up to maxDayAttempts before failing
// permanently.
func (s *PlanService) generateDay(
	ctx context.Context,
	history []llm.Message,
	input request_models.GeneratePlanRequest,
	day, totalDays int,
	priorDays []response_models.ItineraryDay,
) (response_models.ItineraryDay, error) {
	prompt := DayPrompt(input, day, totalDays, priorDays)
	messages := append(append([]llm.Message{}, history...), llm.Message{Role: llm.RoleUser, Content: prompt})

	var lastErr error
	for attempt := 1; attempt <= maxDayAttempts; attempt++ {
		dayItinerary, err := s.requestDay(ctx, messages)
		if err == nil {
			return dayItinerary, nil
		}

		lastErr = err
		log.Printf("day %d attempt %d/%d failed: %v", day, attempt, maxDayAttempts, err)

		if attempt < maxDayAttempts {
			select {
			case <-ctx.Done():
				return response_models.ItineraryDay{}, &DayGenerationError{Day: day, Attempts: attempt, Err: ctx.Err()}
			case <-time.After(time.Duration(attempt) * s.retryDelay):
			}
		}
	}

	return response_models.ItineraryDay{}, &DayGenerationError{Day: day, Attempts: maxDayAttempts, Err: lastErr}
}

// requestDay performs one attempt: chat, repair-parse, and the minimal
// pre-check (day, date, non-empty activities). The full structural validation
// runs once at the plan level.
func (s *PlanService) requestDay(ctx context.Context, messages []llm.Message) (response_models.ItineraryDay, error) {
	var zero response_models.ItineraryDay

	raw, err := s.chatClient.Chat(ctx, messages, llm.Options{Temperature: 0.7, MaxTokens: 800})
	if err != nil {
		return zero, err
	}

	parsed, err := jsonrepair.Parse(raw)
	if err != nil {
		return zero, err
	}

	if parsed["day"] == nil || parsed["date"] == nil {
		return zero, errors.New("day response missing required fields")
	}
	activities, ok := parsed["activities"].([]any)
	if !ok || len(activities) == 0 {
		return zero, errors.New("day response has no activities")
	}

	dayJSON, err := json.Marshal(parsed)
	if err != nil {
		return zero, err
	}
	var dayItinerary response_models.ItineraryDay
	if err := json.Unmarshal(dayJSON, &dayItinerary); err != nil {
		return zero, err
	}
	return dayItinerary, nil
}

// generateSummary requests highlights/tips over the completed itinerary.
// Like the overview, it carries no retry budget.
func (s *PlanService) generateSummary(ctx context.Context, history []llm.Message, itinerary []response_models.ItineraryDay) (*response_models.PlanSummary, error) {
	messages := append(append([]llm.Message{}, history...), llm.Message{Role: llm.RoleUser, Content: SummaryPrompt(itinerary)})

	raw, err := s.chatClient.Chat(ctx, messages, llm.Options{Temperature: 0.7, MaxTokens: 500})
	if err != nil {
		return nil, err
	}

	parsed, err := jsonrepair.Parse(raw)
	if err != nil {
		return nil, err
	}

	summaryJSON, err := json.Marshal(parsed)
	if err != nil {
		return nil, err
	}
	var summary response_models.PlanSummary
	if err := json.Unmarshal(summaryJSON, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ParseTravelRequest extracts a structured travel request from free-form
// text. Any model or parse failure degrades to a low-confidence result
// instead of an error so the caller can still prompt for missing fields.
func (s *PlanService) ParseTravelRequest(ctx context.Context, text string) (*response_models.ParsedTravelRequest, error) {
	if strings.TrimSpace(text) == "" {
		return nil, utils.ErrInvalidInput
	}

	fallback := &response_models.ParsedTravelRequest{
		SpecialRequirements: text,
		Travelers:           1,
		Pace:                "moderate",
		Confidence:          "low",
		MissingFields:       []string{"destination", "dates"},
	}

	today := utils.Today()
	tomorrow := utils.Tomorrow()

	raw, err := s.chatClient.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: ParseRequestSystemPrompt()},
		{Role: llm.RoleUser, Content: ParseRequestUserPrompt(text, today, tomorrow)},
	}, llm.Options{Temperature: 0.1, MaxTokens: 500})
	if err != nil {
		log.Printf("request parsing model call failed: %v", err)
		return fallback, nil
	}

	parsed, err := jsonrepair.Parse(raw)
	if err != nil {
		log.Printf("request parsing failed: %v", err)
		return fallback, nil
	}

	var extracted struct {
		Destination         string   `json:"destination"`
		Days                int      `json:"days"`
		Budget              *float64 `json:"budget"`
		Travelers           int      `json:"travelers"`
		Interests           []string `json:"interests"`
		Pace                string   `json:"pace"`
		SpecialRequirements string   `json:"specialRequirements"`
	}
	extractedJSON, _ := json.Marshal(parsed)
	if err := json.Unmarshal(extractedJSON, &extracted); err != nil {
		log.Printf("request parsing decode failed: %v", err)
		return fallback, nil
	}

	var startDate, endDate string
	if extracted.Days > 0 {
		startDate = tomorrow
		end, derr := utils.DateForDay(tomorrow, extracted.Days)
		if derr == nil {
			endDate = end
		}
	}

	var missing []string
	if extracted.Destination == "" {
		missing = append(missing, "destination")
	}
	if startDate == "" {
		missing = append(missing, "dates")
	}

	confidence := "low"
	switch {
	case extracted.Destination != "" && startDate != "" && endDate != "":
		confidence = "high"
	case extracted.Destination != "" || (startDate != "" && endDate != ""):
		confidence = "medium"
	}

	result := &response_models.ParsedTravelRequest{
		Destination:         extracted.Destination,
		StartDate:           startDate,
		EndDate:             endDate,
		Days:                extracted.Days,
		Budget:              extracted.Budget,
		Travelers:           extracted.Travelers,
		Interests:           extracted.Interests,
		Pace:                extracted.Pace,
		SpecialRequirements: extracted.SpecialRequirements,
		Confidence:          confidence,
		MissingFields:       missing,
	}
	if result.Travelers <= 0 {
		result.Travelers = 1
	}
	if result.Pace == "" {
		result.Pace = "moderate"
	}
	if result.Interests == nil {
		result.Interests = []string{}
	}
	if result.SpecialRequirements == "" {
		result.SpecialRequirements = text
	}
	return result, nil
}

func notify(onProgress ProgressFunc, current, total int, message string) {
	if onProgress != nil {
		onProgress(current, total, message)
	}
}

func validateGenerateInput(input request_models.GeneratePlanRequest) (int, error) {
	if input.Destination == "" || input.StartDate == "" || input.EndDate == "" {
		return 0, fmt.Errorf("%w: destination, startDate and endDate are required", utils.ErrInvalidInput)
	}
	totalDays, err := utils.DayCount(input.StartDate, input.EndDate)
	if err != nil {
		return 0, fmt.Errorf("%w: dates must be ISO dates (YYYY-MM-DD)", utils.ErrInvalidInput)
	}
	if totalDays < 1 {
		return 0, fmt.Errorf("%w: endDate must not precede startDate", utils.ErrInvalidInput)
	}
	if totalDays > maxPlanDays {
		return 0, fmt.Errorf("%w: plans are limited to %d days", utils.ErrInvalidInput, maxPlanDays)
	}
	if input.Budget != nil && *input.Budget < 0 {
		return 0, fmt.Errorf("%w: budget must be non-negative", utils.ErrInvalidInput)
	}
	if input.Travelers != nil && *input.Travelers < 1 {
		return 0, fmt.Errorf("%w: travelers must be positive", utils.ErrInvalidInput)
	}
	if input.Preferences != nil {
		switch input.Preferences.Pace {
		case "", "relaxed", "moderate", "fast":
		default:
			return 0, fmt.Errorf("%w: pace must be relaxed, moderate or fast", utils.ErrInvalidInput)
		}
	}
	return totalDays, nil
}

func planCacheKey(input request_models.GeneratePlanRequest) string {
	preferencesJSON, _ := json.Marshal(input.Preferences)
	return mem.Key(
		input.Destination,
		input.StartDate,
		input.EndDate,
		budgetText(input.Budget),
		string(preferencesJSON),
		input.SpecialRequirements,
	)
}
