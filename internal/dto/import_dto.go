package dto

// GoogleDocImportRequest asks for a Google Doc to be fetched and reshaped
// into an essay draft.
type GoogleDocImportRequest struct {
	DocURL        string `json:"doc_url" validate:"required"`
	ProviderToken string `json:"provider_token"`
}

// ImportedComment is one unresolved document comment.
type ImportedComment struct {
	Excerpt string `json:"excerpt"`
	Comment string `json:"comment"`
}

// ImportResponse is the reshaped essay draft returned by the import
// endpoints.
type ImportResponse struct {
	EssayText string            `json:"essay_text"`
	Comments  []ImportedComment `json:"comments"`
	DocTitle  string            `json:"doc_title"`
	SourceURL string            `json:"source_url,omitempty"`
}
