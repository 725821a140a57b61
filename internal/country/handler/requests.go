package handler

import (
	"countries/internal/country/models"
	dErrors "countries/pkg/domain-errors"
)

// BulkCreateRequest is the body of POST /api/countries/bulk.
type BulkCreateRequest []models.CountryInput

// Validate checks every entry and reports the first invalid one by index.
func (r *BulkCreateRequest) Validate() error {
	if r == nil || *r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body must be a JSON array of countries")
	}
	for i := range *r {
		if err := (*r)[i].Validate(); err != nil {
			msg := err.Error()
			if de, ok := dErrors.As(err); ok {
				msg = de.Message
			}
			return dErrors.Newf(dErrors.CodeValidation, "country %d: %s", i, msg)
		}
	}
	return nil
}
