package handlers

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// StatusResponse wraps list/map payloads the way the board client expects
// them: a status string plus the data itself.
type StatusResponse struct {
	Status string      `json:"status" example:"success"`
	Data   interface{} `json:"data"`
}
