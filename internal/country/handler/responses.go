package handler

import "countries/internal/country/models"

type MessageResponse struct {
	Message string `json:"message"`
}

type BulkCreateResponse struct {
	Message   string            `json:"message"`
	Countries []*models.Country `json:"countries"`
}
