package response_models

import "tripweaver/internal/models/request_models"

// ActivityTypes enumerates the allowed values of Activity.Type.
var ActivityTypes = []string{
	"attraction", "meal", "transportation", "accommodation",
	"shopping", "entertainment", "other",
}

type Activity struct {
	Time        string   `json:"time"`
	EndTime     string   `json:"endTime,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"`
	Address     string   `json:"address,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
	Type        string   `json:"type"`
	Tips        []string `json:"tips,omitempty"`
	BookingInfo string   `json:"bookingInfo,omitempty"`
}

type ItineraryDay struct {
	Day           int        `json:"day"`
	Date          string     `json:"date"`
	Title         string     `json:"title"`
	Activities    []Activity `json:"activities"`
	EstimatedCost *float64   `json:"estimatedCost,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

type PlanSummary struct {
	Highlights  []string `json:"highlights,omitempty"`
	Tips        []string `json:"tips,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	PackingList []string `json:"packingList,omitempty"`
}

type TravelPlan struct {
	ID          string                            `json:"id,omitempty"`
	Title       string                            `json:"title"`
	Destination string                            `json:"destination"`
	StartDate   string                            `json:"startDate"`
	EndDate     string                            `json:"endDate"`
	Days        int                               `json:"days"`
	Budget      *float64                          `json:"budget,omitempty"`
	Preferences *request_models.TravelPreferences `json:"preferences,omitempty"`
	Itinerary   []ItineraryDay                    `json:"itinerary"`
	Summary     *PlanSummary                      `json:"summary,omitempty"`
}

// ParsedTravelRequest is the structured result of natural-language request
// parsing; Confidence and MissingFields tell the caller whether the request
// is complete enough to generate from.
type ParsedTravelRequest struct {
	Destination         string   `json:"destination,omitempty"`
	StartDate           string   `json:"startDate,omitempty"`
	EndDate             string   `json:"endDate,omitempty"`
	Days                int      `json:"days,omitempty"`
	Budget              *float64 `json:"budget,omitempty"`
	Travelers           int      `json:"travelers"`
	Interests           []string `json:"interests"`
	Pace                string   `json:"pace"`
	SpecialRequirements string   `json:"specialRequirements,omitempty"`
	Confidence          string   `json:"confidence"` // high | medium | low
	MissingFields       []string `json:"missingFields"`
}
