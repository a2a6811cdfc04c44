package services

import (
	"fmt"
	"strings"

	"tripweaver/internal/models/request_models"
	"tripweaver/internal/models/response_models"
	"tripweaver/pkg/utils"
)

// Prompt builders are pure functions over the request and generation stage so
// every prompt is reproducible in tests.

func SystemPrompt() string {
	return `你是一位专业的旅行规划师。

重要要求：
1. 必须严格返回有效的 JSON 格式
2. 所有字段名和字符串值必须使用双引号
3. 数字和布尔值不加引号
4. 不要在 JSON 中使用中文标点符号（如：、，）
5. 确保 JSON 格式正确可解析

使用简体中文内容，但保持标准 JSON 格式。`
}

func budgetText(budget *float64) string {
	if budget == nil {
		return "灵活"
	}
	return fmt.Sprintf("%.0f元", *budget)
}

func OverviewTitlePrompt(input request_models.GeneratePlanRequest, totalDays int) string {
	return fmt.Sprintf(`为以下旅行生成一个吸引人的标题：

目的地：%s
天数：%d天
预算：%s

只返回JSON格式：
{
  "title": "行程标题（简洁有吸引力）"
}`, input.Destination, totalDays, budgetText(input.Budget))
}

// OverviewUserTurn is the user turn recorded in conversation history so later
// stages see what was asked for.
func OverviewUserTurn(input request_models.GeneratePlanRequest, totalDays int) string {
	return fmt.Sprintf("我需要为%s制定%d天旅行计划，预算%s。", input.Destination, totalDays, budgetText(input.Budget))
}

// DayPrompt builds the per-day generation prompt. Prior days are referenced by
// title only; replaying full day payloads per request would grow the prompt
// unboundedly and drift the model.
func DayPrompt(input request_models.GeneratePlanRequest, day, totalDays int, priorDays []response_models.ItineraryDay) string {
	// input.StartDate is validated before any prompt is built
	dateStr, _ := utils.DateForDay(input.StartDate, day)

	previousSummary := ""
	if len(priorDays) > 0 {
		var lines []string
		for _, d := range priorDays {
			lines = append(lines, fmt.Sprintf("第%d天：%s（%d个活动）", d.Day, d.Title, len(d.Activities)))
		}
		previousSummary = "\n\n前几天已安排：\n" + strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`现在生成第 %d 天的详细行程（共%d天）。%s

要求：
- 日期：%s
- 安排 3-5 个活动
- 时间合理分配
- 控制在预算内

只返回JSON格式：
{
  "day": %d,
  "date": "%s",
  "title": "第%d天主题",
  "activities": [
    {
      "time": "09:00",
      "title": "活动名称",
      "description": "详细描述",
      "location": "地点",
      "cost": 100,
      "type": "attraction",
      "tips": ["建议1", "建议2"]
    }
  ],
  "estimatedCost": 500
}

注意：
1. 所有字段名和字符串值必须加双引号
2. type只能是：%s
3. 不要输出代码块标记，直接输出 JSON
4. 确保JSON格式完全正确`,
		day, totalDays, previousSummary, dateStr,
		day, dateStr, day,
		strings.Join(response_models.ActivityTypes, ", "))
}

func SummaryPrompt(itinerary []response_models.ItineraryDay) string {
	var lines []string
	for _, d := range itinerary {
		cost := "灵活"
		if d.EstimatedCost != nil {
			cost = fmt.Sprintf("%.0f元", *d.EstimatedCost)
		}
		lines = append(lines, fmt.Sprintf("第%d天：%s（%d个活动，预计%s）", d.Day, d.Title, len(d.Activities), cost))
	}

	return fmt.Sprintf(`基于以上%d天行程，生成一份总结：

%s

只返回JSON格式：
{
  "highlights": ["亮点1", "亮点2", "亮点3"],
  "tips": ["建议1", "建议2", "建议3"]
}

注意：所有字段和字符串必须加双引号`, len(itinerary), strings.Join(lines, "\n"))
}

func ParseRequestSystemPrompt() string {
	return `你是旅行需求解析器。从用户的自然语言描述中提取旅行信息。

严格规则：
1. 只返回纯JSON，从{开始到}结束
2. 所有键和字符串值必须双引号
3. 数字不加引号
4. 不要任何其他文字或解释

返回格式：
{
  "destination": "目的地（如果提到）",
  "days": 天数（数字，如果提到）,
  "budget": 预算（数字，单位元，如果提到）,
  "travelers": 人数（数字，如果提到，默认1）,
  "interests": ["兴趣1", "兴趣2"],
  "pace": "relaxed/moderate/fast（如果提到节奏）",
  "specialRequirements": "其他特殊需求"
}

如果某个字段没有提到，设置为null。`
}

// ParseRequestUserPrompt embeds today's date and the default start date
// (tomorrow) so the model resolves relative dates deterministically.
func ParseRequestUserPrompt(text, today, tomorrow string) string {
	return fmt.Sprintf(`解析这段旅行需求：

"%s"

提示：
- 今天是 %s
- 如果没有明确说明开始日期，默认为明天（%s）
- 从描述中识别目的地、天数、预算、兴趣爱好等信息
- interests 可能包含：history（历史文化）、nature（自然风光）、food（美食）、shopping（购物）、photography（摄影）、adventure（探险）、relaxation（休闲放松）、nightlife（夜生活）

直接返回JSON：`, text, today, tomorrow)
}
