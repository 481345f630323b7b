package api

import "github.com/akolanti/ragdocs/internal/domain/commonModels"

type UploadResponse struct {
	DocId    string `json:"doc_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Filename string `json:"filename" example:"notes.txt"`
	Chunks   int    `json:"chunks" example:"3"`
	Status   string `json:"status" example:"indexed"`
}

type DeleteResponse struct {
	DocId   string `json:"doc_id"`
	Deleted bool   `json:"deleted"`
}

type ResetResponse struct {
	Reset    bool `json:"reset"`
	FastPath bool `json:"fast_path"`
}

type AskResponse struct {
	Answer string                   `json:"answer"`
	K      int                      `json:"k"`
	Chunks int                      `json:"chunks"`
	Model  string                   `json:"model,omitempty"`
	Usage  *commonModels.TokenUsage `json:"usage,omitempty"`
}

type ListResponse struct {
	Documents []commonModels.DocumentRecord `json:"documents"`
}

type ErrorResponse struct {
	Id     string `json:"id,omitempty"`
	Code   int    `json:"code" example:"400"`
	Detail string `json:"detail" example:"Unsupported file type"`
}

// requests---------------------

type AskRequest struct {
	Question string `json:"question" validate:"required"`
	K        int    `json:"k,omitempty"`
}
