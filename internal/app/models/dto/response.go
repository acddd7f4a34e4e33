package dto

// HealthResponse is returned by the health probe.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// CountResponse reports how many rows an operation produced.
type CountResponse struct {
	Count int `json:"count" example:"42"`
}
