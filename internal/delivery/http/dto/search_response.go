package dto

import (
	"cinda/internal/domain/course"
	"cinda/internal/domain/opportunity"
	ucsearch "cinda/internal/usecase/search"
)

type SearchResults struct {
	Courses       []course.Course           `json:"courses,omitempty"`
	Opportunities []opportunity.Opportunity `json:"opportunities,omitempty"`
	Users         []PublicUser              `json:"users,omitempty"`
}

type SearchResponse struct {
	Query        string              `json:"query"`
	Category     string              `json:"category"`
	Results      SearchResults       `json:"results"`
	TotalResults int                 `json:"totalResults"`
	Pagination   ucsearch.Pagination `json:"pagination"`
}

func NewSearchResponse(r ucsearch.Result) SearchResponse {
	res := SearchResponse{
		Query:        r.Query,
		Category:     r.Category,
		TotalResults: r.TotalResults,
		Pagination:   r.Pagination,
		Results: SearchResults{
			Courses:       r.Courses,
			Opportunities: r.Opportunities,
		},
	}
	if r.Users != nil {
		res.Results.Users = make([]PublicUser, 0, len(r.Users))
		for _, u := range r.Users {
			res.Results.Users = append(res.Results.Users, NewPublicUser(u))
		}
	}
	return res
}
