package request_models

type TravelPreferences struct {
	Interests      []string `json:"interests,omitempty"`
	Pace           string   `json:"pace,omitempty"` // relaxed | moderate | fast
	Accommodation  []string `json:"accommodation,omitempty"`
	Transportation []string `json:"transportation,omitempty"`
	Dietary        []string `json:"dietary,omitempty"`
}

type GeneratePlanRequest struct {
	Destination         string             `json:"destination" binding:"required"`
	StartDate           string             `json:"startDate" binding:"required"`
	EndDate             string             `json:"endDate" binding:"required"`
	Budget              *float64           `json:"budget,omitempty"`
	Travelers           *int               `json:"travelers,omitempty"`
	Preferences         *TravelPreferences `json:"preferences,omitempty"`
	SpecialRequirements string             `json:"specialRequirements,omitempty"`
}

type ParseTravelRequestInput struct {
	Text string `json:"text" binding:"required"`
}
