// FILE: internal/dto/research_dto.go
package dto

type ResearchRequest struct {
	Query   string `json:"query" validate:"required,min=2"`
	UseMaps bool   `json:"use_maps"`
}

type CitationResponse struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

type ResearchResponse struct {
	Text      string             `json:"text"`
	Citations []CitationResponse `json:"citations"`
	UsedFix   bool               `json:"used_fix"`
}
