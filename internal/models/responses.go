package models

type StatusResponse struct {
	Status string `json:"status"`
}
