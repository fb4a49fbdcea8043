// FILE: internal/dto/catalog_dto.go
package dto

type ListArticlesRequest struct {
	Level    int    `query:"level" validate:"omitempty,oneof=100 200 300 400"`
	Category string `query:"category" validate:"omitempty"`
}

type ArticleResponse struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Content     string `json:"content,omitempty"`
	IsPremium   bool   `json:"is_premium"`
	Author      string `json:"author"`
	ReadTime    string `json:"read_time"`
	Image       string `json:"image"`
	Level       int    `json:"level"`
	Semester    int    `json:"semester"`
	Locked      bool   `json:"locked"`
}

type NoteResponse struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Lecturer    string `json:"lecturer"`
	Level       int    `json:"level"`
	Description string `json:"description"`
	Content     string `json:"content,omitempty"`
	Price       int    `json:"price"`
	IsVerified  bool   `json:"is_verified"`
	CourseCode  string `json:"course_code"`
	Purchased   bool   `json:"purchased"`
}

type CaseFileResponse struct {
	Id         string   `json:"id"`
	Title      string   `json:"title"`
	Difficulty string   `json:"difficulty"`
	Summary    string   `json:"summary"`
	Evidence   []string `json:"evidence"`
	Location   string   `json:"location"`
	Date       string   `json:"date"`
}

type SummarizeRequest struct {
	ItemId string `json:"item_id" validate:"required"`
}

type SummarizeResponse struct {
	ItemId  string `json:"item_id"`
	Summary string `json:"summary"`
	Cached  bool   `json:"cached"`
}

type SynthesizeRequest struct {
	ItemId string `json:"item_id" validate:"required"`
}
