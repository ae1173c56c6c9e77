package model

// SubmittedProvider is a provider entry pending classification. LocalID is
// assigned by the caller and stays stable for the life of the form; it is
// never persisted.
type SubmittedProvider struct {
	LocalID           string
	Name              string
	PrimaryDocument   string
	SecondaryDocument string
	CompanyOverride   string
}

// HasDocument reports whether at least one document field is filled.
func (p SubmittedProvider) HasDocument() bool {
	return p.PrimaryDocument != "" || p.SecondaryDocument != ""
}

// Complete reports whether the entry carries enough data to be screened.
func (p SubmittedProvider) Complete() bool {
	return p.Name != "" && p.HasDocument()
}
