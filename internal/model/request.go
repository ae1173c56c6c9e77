package model

import "time"

// RequestProvider is a provider row persisted as part of an access request.
type RequestProvider struct {
	Name              string
	PrimaryDocument   string
	SecondaryDocument string
	CompanyOverride   string
}

// AccessRequest is a solicitação: a batch of providers plus the access window
// being requested for them. Only providers with no detected savings are
// persisted on a request.
type AccessRequest struct {
	AccessStart time.Time
	AccessEnd   time.Time
	CreatedAt   time.Time
	ID          string
	RequestedBy string
	Company     string
	Providers   []RequestProvider
}
