package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tripweaver/internal/models/request_models"
	"tripweaver/pkg/llm"
	mem "tripweaver/pkg/memcache"
	"tripweaver/pkg/utils"
)

type chatStep struct {
	content string
	err     error
}

type mockChatClient struct {
	steps []chatStep
	calls int
	opts  []llm.Options
}

func (m *mockChatClient) Chat(_ context.Context, _ []llm.Message, opts llm.Options) (string, error) {
	m.opts = append(m.opts, opts)
	if m.calls >= len(m.steps) {
		return "", fmt.Errorf("unexpected chat call %d", m.calls+1)
	}
	step := m.steps[m.calls]
	m.calls++
	return step.content, step.err
}

func newTestPlanService(client llm.ChatClient) *PlanService {
	return &PlanService{
		chatClient: client,
		cache:      mem.NewPlanCache(time.Minute),
		retryDelay: time.Millisecond,
	}
}

func threeDayRequest() request_models.GeneratePlanRequest {
	return request_models.GeneratePlanRequest{
		Destination: "北京",
		StartDate:   "2024-01-01",
		EndDate:     "2024-01-03",
	}
}

func oneDayRequest() request_models.GeneratePlanRequest {
	return request_models.GeneratePlanRequest{
		Destination: "上海",
		StartDate:   "2024-05-10",
		EndDate:     "2024-05-10",
	}
}

func dayResponse(day int, date string) string {
	return fmt.Sprintf(
		`{"day":%d,"date":%q,"title":"第%d天行程","activities":[{"time":"09:00","title":"上午游览","description":"参观景点","location":"市中心","type":"attraction"}]}`,
		day, date, day)
}

const (
	overviewResponse = `{"title":"北京经典三日游"}`
	summaryResponse  = `{"highlights":["故宫","长城"],"tips":["提前购票"],"warnings":["冬季注意保暖"],"packingList":["保暖外套"]}`
)

func TestGeneratePlan_FullPipeline(t *testing.T) {
	client := &mockChatClient{steps: []chatStep{
		{content: overviewResponse},
		{content: dayResponse(1, "2024-01-01")},
		{content: dayResponse(2, "2024-01-02")},
		{content: dayResponse(3, "2024-01-03")},
		{content: summaryResponse},
	}}
	service := newTestPlanService(client)

	type progressEvent struct {
		current, total int
	}
	var events []progressEvent
	plan, err := service.GeneratePlan(context.Background(), threeDayRequest(), func(current, total int, _ string) {
		events = append(events, progressEvent{current, total})
	})
	require.NoError(t, err)
	require.Equal(t, 5, client.calls)

	require.Equal(t, "北京经典三日游", plan.Title)
	require.Equal(t, "北京", plan.Destination)
	require.Equal(t, 3, plan.Days)
	require.Len(t, plan.Itinerary, 3)
	for i, day := range plan.Itinerary {
		require.Equal(t, i+1, day.Day)
	}
	require.Equal(t, "2024-01-01", plan.Itinerary[0].Date)
	require.Equal(t, "2024-01-03", plan.Itinerary[2].Date)
	require.NotNil(t, plan.Summary)
	require.Equal(t, []string{"故宫", "长城"}, plan.Summary.Highlights)

	require.Equal(t, []progressEvent{{0, 4}, {1, 4}, {2, 4}, {3, 4}, {4, 4}}, events)

	require.Equal(t, llm.Options{Temperature: 0.8, MaxTokens: 100}, client.opts[0])
	require.Equal(t, llm.Options{Temperature: 0.7, MaxTokens: 800}, client.opts[1])
	require.Equal(t, llm.Options{Temperature: 0.7, MaxTokens: 500}, client.opts[4])
}

func TestGeneratePlan_NilProgressCallback(t *testing.T) {
	client := &mockChatClient{steps: []chatStep{
		{content: overviewResponse},
		{content: dayResponse(1, "2024-05-10")},
		{content: summaryResponse},
	}}
	service := newTestPlanService(client)

	plan, err := service.GeneratePlan(context.Background(), oneDayRequest(), nil)
	require.NoError(t, err)
	require.Len(t, plan.Itinerary, 1)
}

func TestGeneratePlan_DayRetryRecovers(t *testing.T) {
	client := &mockChatClient{steps: []chatStep{
		{content: overviewResponse},
		{content: "抱歉，我无法生成行程。"},
		{content: dayResponse(1, "2024-05-10")},
		{content: summaryResponse},
	}}
	service := newTestPlanService(client)

	plan, err := service.GeneratePlan(context.Background(), oneDayRequest(), nil)
	require.NoError(t, err)
	require.Equal(t, 4, client.calls)
	require.Len(t, plan.Itinerary, 1)
}

func TestGeneratePlan_DayRetryExhausted(t *testing.T) {
	client := &mockChatClient{steps: []chatStep{
		{content: overviewResponse},
		{content: "not json"},
		{content: "still not json"},
		{content: "never json"},
	}}
	service := newTestPlanService(client)

	plan, err := service.GeneratePlan(context.Background(), threeDayRequest(), nil)
	require.Nil(t, plan)

	var dayErr *DayGenerationError
	require.ErrorAs(t, err, &dayErr)
	require.Equal(t, 1, dayErr.Day)
	require.Equal(t, 3, dayErr.Attempts)

	// no further days or summary are attempted after a permanent day failure
	require.Equal(t, 4, client.calls)
}

func TestGeneratePlan_LaterDayFailureReturnsNoPlan(t *testing.T) {
	client := &mockChatClient{steps: []chatStep{
		{content: overviewResponse},
		{content: dayResponse(1, "2024-01-01")},
		{content: "not json"},
		{content: "not json"},
		{content: "not json"},
	}}
	service := newTestPlanService(client)

	plan, err := service.GeneratePlan(context.Background(), threeDayRequest(), nil)
	require.Nil(t, plan)

	var dayErr *DayGenerationError
	require.ErrorAs(t, err, &dayErr)
	require.Equal(t, 2, dayErr.Day)
	require.Equal(t, 5, client.calls)
}

func TestGeneratePlan_OverviewFailure(t *testing.T) {
	client := &mockChatClient{steps: []chatStep{
		{err: errors.New("model unavailable")},
	}}
	service := newTestPlanService(client)

	plan, err := service.GeneratePlan(context.Background(), threeDayRequest(), nil)
	require.Nil(t, plan)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	require.Equal(t, "overview", genErr.Stage)
	require.Equal(t, 1, client.calls)
}

func TestGeneratePlan_SummaryFailure(t *testing.T) {
	client := &mockChatClient{steps: []chatStep{
		{content: overviewResponse},
		{content: dayResponse(1, "2024-05-10")},
		{err: errors.New("model unavailable")},
	}}
	service := newTestPlanService(client)

	plan, err := service.GeneratePlan(context.Background(), oneDayRequest(), nil)
	require.Nil(t, plan)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	require.Equal(t, "summary", genErr.Stage)
}

func TestGeneratePlan_FinalValidationRejectsBadDay(t *testing.T) {
	client := &mockChatClient{steps: []chatStep{
		{content: overviewResponse},
		{content: `{"day":1,"date":"","title":"第1天","activities":[{"time":"09:00","title":"游览"}]}`},
		{content: summaryResponse},
	}}
	service := newTestPlanService(client)

	plan, err := service.GeneratePlan(context.Background(), oneDayRequest(), nil)
	require.Nil(t, plan)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Errors, "day 1 missing field date")
}

func TestGeneratePlan_RepairsFencedDayResponse(t *testing.T) {
	fenced := "```json\n" + dayResponse(1, "2024-05-10") + "\n```"
	client := &mockChatClient{steps: []chatStep{
		{content: overviewResponse},
		{content: fenced},
		{content: summaryResponse},
	}}
	service := newTestPlanService(client)

	plan, err := service.GeneratePlan(context.Background(), oneDayRequest(), nil)
	require.NoError(t, err)
	require.Equal(t, "2024-05-10", plan.Itinerary[0].Date)
}

func TestGeneratePlan_CacheHit(t *testing.T) {
	client := &mockChatClient{steps: []chatStep{
		{content: overviewResponse},
		{content: dayResponse(1, "2024-05-10")},
		{content: summaryResponse},
	}}
	service := newTestPlanService(client)

	first, err := service.GeneratePlan(context.Background(), oneDayRequest(), nil)
	require.NoError(t, err)
	require.Equal(t, 3, client.calls)

	second, err := service.GeneratePlan(context.Background(), oneDayRequest(), nil)
	require.NoError(t, err)
	require.Equal(t, 3, client.calls)
	require.Equal(t, first, second)
}

func TestGeneratePlan_CacheHitIsIsolated(t *testing.T) {
	client := &mockChatClient{steps: []chatStep{
		{content: overviewResponse},
		{content: dayResponse(1, "2024-05-10")},
		{content: summaryResponse},
	}}
	service := newTestPlanService(client)

	first, err := service.GeneratePlan(context.Background(), oneDayRequest(), nil)
	require.NoError(t, err)

	// callers mutate their plan after generation, e.g. stamping the saved
	// record ID; that must never leak into later cache hits
	first.ID = "record-id-of-another-account"
	first.Itinerary[0].Title = "被篡改的标题"

	second, err := service.GeneratePlan(context.Background(), oneDayRequest(), nil)
	require.NoError(t, err)
	require.Equal(t, 3, client.calls)
	require.NotSame(t, first, second)
	require.Empty(t, second.ID)
	require.Equal(t, "第1天行程", second.Itinerary[0].Title)
}

func TestGeneratePlan_InputValidation(t *testing.T) {
	service := newTestPlanService(&mockChatClient{})

	cases := []struct {
		name  string
		input request_models.GeneratePlanRequest
	}{
		{"missing destination", request_models.GeneratePlanRequest{StartDate: "2024-01-01", EndDate: "2024-01-02"}},
		{"malformed dates", request_models.GeneratePlanRequest{Destination: "北京", StartDate: "01/01/2024", EndDate: "01/02/2024"}},
		{"end before start", request_models.GeneratePlanRequest{Destination: "北京", StartDate: "2024-01-05", EndDate: "2024-01-01"}},
		{"too many days", request_models.GeneratePlanRequest{Destination: "北京", StartDate: "2024-01-01", EndDate: "2024-03-01"}},
		{"invalid pace", request_models.GeneratePlanRequest{
			Destination: "北京", StartDate: "2024-01-01", EndDate: "2024-01-02",
			Preferences: &request_models.TravelPreferences{Pace: "sprint"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := service.GeneratePlan(context.Background(), tc.input, nil)
			require.Nil(t, plan)
			require.ErrorIs(t, err, utils.ErrInvalidInput)
		})
	}
}

func TestParseTravelRequest_EmptyText(t *testing.T) {
	service := newTestPlanService(&mockChatClient{})

	parsed, err := service.ParseTravelRequest(context.Background(), "   ")
	require.Nil(t, parsed)
	require.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestParseTravelRequest_FallbackOnModelFailure(t *testing.T) {
	client := &mockChatClient{steps: []chatStep{
		{err: errors.New("model unavailable")},
	}}
	service := newTestPlanService(client)

	parsed, err := service.ParseTravelRequest(context.Background(), "我想去一个温暖的地方")
	require.NoError(t, err)
	require.Equal(t, "low", parsed.Confidence)
	require.Equal(t, 1, parsed.Travelers)
	require.Equal(t, "moderate", parsed.Pace)
	require.Equal(t, []string{"destination", "dates"}, parsed.MissingFields)
	require.Equal(t, "我想去一个温暖的地方", parsed.SpecialRequirements)
}

func TestParseTravelRequest_Extracted(t *testing.T) {
	client := &mockChatClient{steps: []chatStep{
		{content: `{"destination":"东京","days":3,"travelers":2,"interests":["美食","动漫"],"pace":"relaxed"}`},
	}}
	service := newTestPlanService(client)

	parsed, err := service.ParseTravelRequest(context.Background(), "下周想和朋友去东京玩三天，喜欢美食和动漫")
	require.NoError(t, err)
	require.Equal(t, "东京", parsed.Destination)
	require.Equal(t, 3, parsed.Days)
	require.Equal(t, 2, parsed.Travelers)
	require.Equal(t, "relaxed", parsed.Pace)
	require.Equal(t, "high", parsed.Confidence)
	require.Empty(t, parsed.MissingFields)

	tomorrow := utils.Tomorrow()
	require.Equal(t, tomorrow, parsed.StartDate)
	end, err := utils.DateForDay(tomorrow, 3)
	require.NoError(t, err)
	require.Equal(t, end, parsed.EndDate)
}

func TestParseTravelRequest_MissingDestination(t *testing.T) {
	client := &mockChatClient{steps: []chatStep{
		{content: `{"days":2}`},
	}}
	service := newTestPlanService(client)

	parsed, err := service.ParseTravelRequest(context.Background(), "想出去玩两天")
	require.NoError(t, err)
	require.Equal(t, "medium", parsed.Confidence)
	require.Equal(t, []string{"destination"}, parsed.MissingFields)
}
