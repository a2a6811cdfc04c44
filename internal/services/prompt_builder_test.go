package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tripweaver/internal/models/request_models"
	"tripweaver/internal/models/response_models"
)

func TestOverviewTitlePrompt(t *testing.T) {
	budget := 5000.0
	prompt := OverviewTitlePrompt(request_models.GeneratePlanRequest{
		Destination: "成都",
		StartDate:   "2024-06-01",
		EndDate:     "2024-06-03",
		Budget:      &budget,
	}, 3)

	require.Contains(t, prompt, "成都")
	require.Contains(t, prompt, "3天")
	require.Contains(t, prompt, "5000元")
}

func TestOverviewTitlePrompt_FlexibleBudget(t *testing.T) {
	prompt := OverviewTitlePrompt(request_models.GeneratePlanRequest{
		Destination: "成都",
	}, 3)
	require.Contains(t, prompt, "灵活")
}

func TestDayPrompt_FirstDay(t *testing.T) {
	prompt := DayPrompt(request_models.GeneratePlanRequest{
		Destination: "西安",
		StartDate:   "2024-06-01",
		EndDate:     "2024-06-03",
	}, 1, 3, nil)

	require.Contains(t, prompt, "第 1 天")
	require.Contains(t, prompt, "共3天")
	require.Contains(t, prompt, "2024-06-01")
	require.NotContains(t, prompt, "前几天已安排")
}

func TestDayPrompt_ReferencesPriorDaysByTitle(t *testing.T) {
	prior := []response_models.ItineraryDay{
		{
			Day:   1,
			Title: "古城探秘",
			Activities: []response_models.Activity{
				{Title: "兵马俑"}, {Title: "城墙骑行"},
			},
		},
	}
	prompt := DayPrompt(request_models.GeneratePlanRequest{
		Destination: "西安",
		StartDate:   "2024-06-01",
		EndDate:     "2024-06-03",
	}, 2, 3, prior)

	require.Contains(t, prompt, "前几天已安排")
	require.Contains(t, prompt, "第1天：古城探秘（2个活动）")
	// prior day content is summarized, never replayed in full
	require.NotContains(t, prompt, "兵马俑")

	// the day date advances from the start date
	require.Contains(t, prompt, "2024-06-02")
}

func TestDayPrompt_EnumeratesActivityTypes(t *testing.T) {
	prompt := DayPrompt(request_models.GeneratePlanRequest{
		Destination: "西安",
		StartDate:   "2024-06-01",
		EndDate:     "2024-06-01",
	}, 1, 1, nil)

	for _, activityType := range response_models.ActivityTypes {
		require.Contains(t, prompt, activityType)
	}
}

func TestSummaryPrompt(t *testing.T) {
	cost := 800.0
	itinerary := []response_models.ItineraryDay{
		{Day: 1, Title: "初到重庆", Activities: make([]response_models.Activity, 4), EstimatedCost: &cost},
		{Day: 2, Title: "山城漫步", Activities: make([]response_models.Activity, 3)},
	}

	prompt := SummaryPrompt(itinerary)
	require.Contains(t, prompt, "基于以上2天行程")
	require.Contains(t, prompt, "第1天：初到重庆（4个活动，预计800元）")
	require.Contains(t, prompt, "第2天：山城漫步（3个活动，预计灵活）")
}

func TestParseRequestUserPrompt_EmbedsDates(t *testing.T) {
	prompt := ParseRequestUserPrompt("想去大理住几天", "2024-07-01", "2024-07-02")
	require.Contains(t, prompt, "想去大理住几天")
	require.Contains(t, prompt, "今天是 2024-07-01")
	require.Contains(t, prompt, "默认为明天（2024-07-02）")
}
