package dto

import "cinda/internal/domain/opportunity"

type OpportunityListResponse struct {
	Opportunities []opportunity.Opportunity `json:"opportunities"`
	Total         int                       `json:"total"`
}
