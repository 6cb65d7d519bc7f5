package opportunity

import (
	"strings"
	"time"
)

type Type string

const (
	TypeGrant         Type = "GRANT"
	TypeJob           Type = "JOB"
	TypeCompetition   Type = "COMPETITION"
	TypeCollaboration Type = "COLLABORATION"
	TypeInternship    Type = "INTERNSHIP"
)

var Types = []Type{TypeGrant, TypeJob, TypeCompetition, TypeCollaboration, TypeInternship}

func (t Type) Valid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

func ParseType(s string) (Type, bool) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}

type Details struct {
	Funding  string `json:"funding,omitempty" bson:"funding,omitempty"`
	Location string `json:"location,omitempty" bson:"location,omitempty"`
	Duration string `json:"duration,omitempty" bson:"duration,omitempty"`
	Category string `json:"category,omitempty" bson:"category,omitempty"`
}

type Application struct {
	UserID      string            `json:"user" bson:"user"`
	Status      ApplicationStatus `json:"status" bson:"status"`
	CoverLetter string            `json:"coverLetter,omitempty" bson:"coverLetter,omitempty"`
	AppliedAt   time.Time         `json:"appliedAt" bson:"appliedAt"`
}

type Opportunity struct {
	ID           string        `json:"id" bson:"_id"`
	Type         Type          `json:"type" bson:"type"`
	Title        string        `json:"title" bson:"title"`
	Company      string        `json:"company" bson:"company"`
	Description  string        `json:"description" bson:"description"`
	Details      Details       `json:"details" bson:"details"`
	Deadline     time.Time     `json:"deadline" bson:"deadline"`
	Applications []Application `json:"applications" bson:"applications"`
	IsActive     bool          `json:"isActive" bson:"isActive"`
	CreatedAt    time.Time     `json:"createdAt" bson:"createdAt"`
}

// Filter selects opportunities for listing. Only active postings are listed.
type Filter struct {
	Type   Type
	Search string
}

func (f Filter) Matches(o Opportunity) bool {
	if !o.IsActive {
		return false
	}
	if f.Type != "" && o.Type != f.Type {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		return strings.Contains(strings.ToLower(o.Title), q) ||
			strings.Contains(strings.ToLower(o.Description), q) ||
			strings.Contains(strings.ToLower(o.Company), q)
	}
	return true
}
