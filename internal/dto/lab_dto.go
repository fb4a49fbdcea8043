// FILE: internal/dto/lab_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateLabSessionRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=analysis image_analysis imaging ballistics"`
}

type CreateLabSessionResponse struct {
	Id   uuid.UUID `json:"id"`
	Mode string    `json:"mode"`
}

type LabSubmitRequest struct {
	Prompt string `json:"prompt"`
}

type SwitchModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=analysis image_analysis imaging ballistics"`
}

type AttachImageRequest struct {
	Data     string `json:"data" validate:"required,base64"`
	MimeType string `json:"mime_type" validate:"required"`
	FileName string `json:"file_name"`
}

type AttachCaseRequest struct {
	CaseId string `json:"case_id" validate:"required"`
}

type LabMessageResponse struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	ImageData string    `json:"image_data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type LabTranscriptResponse struct {
	Id       uuid.UUID            `json:"id"`
	Mode     string               `json:"mode"`
	Busy     bool                 `json:"busy"`
	CaseId   string               `json:"case_id,omitempty"`
	Messages []LabMessageResponse `json:"messages"`
}

// LabStreamEvent is one frame of the server-sent event stream. Kind is
// one of "chunk", "image", "done", "error".
type LabStreamEvent struct {
	Kind  string `json:"kind"`
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
	Code  string `json:"code,omitempty"`
}
