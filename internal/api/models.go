package api

// StartSessionRequest is the body of POST /sessions.
// An empty sentence asks the server to draw one.
type StartSessionRequest struct {
	Difficulty int    `json:"difficulty" validate:"required,gte=1,lte=100"`
	Language   string `json:"language"   validate:"omitempty,min=2,max=16"`
	Sentence   string `json:"sentence"   validate:"omitempty,max=500"`
}

// PointerRequest is the body of POST /sessions/{id}/pointer.
// Coordinates are in grid units.
type PointerRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

// PlaceStoneRequest is the body of POST /sessions/{id}/stones.
// The grid cell may lie outside the board; such stones are always wrong.
type PlaceStoneRequest struct {
	ClickX *float64 `json:"click_x" validate:"required"`
	ClickY *float64 `json:"click_y" validate:"required"`
	GridX  *int     `json:"grid_x"  validate:"required"`
	GridY  *int     `json:"grid_y"  validate:"required"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
