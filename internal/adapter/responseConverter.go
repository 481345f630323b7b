package adapter

import (
	"github.com/akolanti/ragdocs/internal/api"
	"github.com/akolanti/ragdocs/internal/domain/commonModels"
)

func ToUploadResponse(result commonModels.IngestResult) api.UploadResponse {
	return api.UploadResponse{
		DocId:    result.DocId,
		Filename: result.Filename,
		Chunks:   result.Chunks,
		Status:   result.Status,
	}
}

func ToAskResponse(result commonModels.AskResult) api.AskResponse {
	return api.AskResponse{
		Answer: result.Answer,
		K:      result.K,
		Chunks: result.Chunks,
		Model:  result.Model,
		Usage:  result.Usage,
	}
}

func ToDeleteResponse(docId string) api.DeleteResponse {
	return api.DeleteResponse{
		DocId:   docId,
		Deleted: true,
	}
}

func ToResetResponse(fastPath bool) api.ResetResponse {
	return api.ResetResponse{
		Reset:    true,
		FastPath: fastPath,
	}
}

func ToListResponse(records []commonModels.DocumentRecord) api.ListResponse {
	if records == nil {
		records = []commonModels.DocumentRecord{}
	}
	return api.ListResponse{Documents: records}
}

func BadRequest(id string, detail string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Id:     id,
		Code:   code,
		Detail: detail,
	}
}
