package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/akolanti/ragdocs/internal/adapter"
	"github.com/akolanti/ragdocs/internal/adapter/utils"
	"github.com/akolanti/ragdocs/internal/api"
	"github.com/akolanti/ragdocs/internal/config"
	"github.com/akolanti/ragdocs/internal/rag"
	"github.com/akolanti/ragdocs/internal/rag/ingest"
	"github.com/akolanti/ragdocs/pkg/logger_i"
)

// in-memory form buffer before spilling to disk
const maxMultipartMemory = 32 << 20 //32mb

// headroom for multipart framing around the file payload
const multipartOverhead = 1 << 20

var (
	logRH        *logger_i.Logger
	ragService   rag.Service
	maxBodyBytes int64
)

// InitRagHandler injects the service once at startup; handlers are plain
// functions so the middleware wrapper can stay a simple HandlerFunc chain.
func InitRagHandler(service rag.Service, cfg *config.Config) {
	ragService = service
	maxBodyBytes = cfg.MaxUploadBytes + multipartOverhead
	logRH = logger_i.NewLogger("Request Handler")
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// HealthHandler godoc
// @Summary      Liveness check
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// UploadHandler godoc
// @Summary      Upload a document for indexing
// @Description  Receives a file via multipart/form-data, extracts and chunks its text, embeds the chunks and indexes them. Synchronous: the response carries the final chunk count.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "The .txt, .md or .pdf file to index"
// @Success      200  {object}  api.UploadResponse  "Document indexed"
// @Failure      400  {object}  api.ErrorResponse   "Unsupported type, empty file or size exceeded"
// @Failure      422  {object}  api.ErrorResponse   "File could not be read or yielded no text"
// @Failure      500  {object}  api.ErrorResponse   "Embedding or index failure"
// @Router       /files/ [post]
func UploadHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	// oversized bodies are cut off while streaming, not buffered then rejected
	request.Body = http.MaxBytesReader(w, request.Body, maxBodyBytes)
	if err := request.ParseMultipartForm(maxMultipartMemory); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := request.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file, expected multipart field 'file'")
		return
	}
	defer func(body io.Closer) {
		if err := body.Close(); err != nil {
			logRH.Error("Couldn't close the upload reader :", err)
		}
	}(fileReader)

	result, err := ragService.IngestDocument(request.Context(), ingest.Upload{
		Filename: fileMetadata.Filename,
		Reader:   fileReader,
	})
	if err != nil {
		writeServiceError(w, fileMetadata.Filename, err)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToUploadResponse(result))
}

// AskHandler godoc
// @Summary      Ask a question over the indexed documents
// @Description  Embeds the question, retrieves the top-k chunks and asks the remote model. With no retrieved context the fixed refusal sentence is returned without a model call.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        request  body      api.AskRequest  true  "Question and optional retrieval size"
// @Success      200      {object}  api.AskResponse
// @Failure      400      {object}  api.ErrorResponse  "Missing or blank question"
// @Failure      500      {object}  api.ErrorResponse  "Provider not configured"
// @Failure      502      {object}  api.ErrorResponse  "Upstream model failure"
// @Router       /ask/ [post]
func AskHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.AskRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logRH.Error("Couldn't close the Ask handler reader :", err)
		}
	}(request.Body)

	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil {
		logRH.Warn("Bad Ask Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	result, err := ragService.Ask(request.Context(), requestData.Question, requestData.K)
	if err != nil {
		writeServiceError(w, "", err)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAskResponse(result))
}

// DeleteHandler godoc
// @Summary      Delete a document
// @Description  Removes the document's vectors from the index first, then its folder on disk. Vector removal failure aborts the deletion.
// @Tags         Documents
// @Produce      json
// @Param        doc_id  path      string  true  "Document ID"
// @Success      200     {object}  api.DeleteResponse
// @Failure      404     {object}  api.ErrorResponse  "Unknown document"
// @Failure      500     {object}  api.ErrorResponse  "Vector deletion failure"
// @Router       /files/{doc_id} [delete]
func DeleteHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	docId := utils.GetChiURLParam(request, "doc_id")
	if docId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "doc_id is required")
		return
	}

	existed, err := ragService.DeleteDocument(request.Context(), docId)
	if err != nil {
		writeServiceError(w, docId, err)
		return
	}
	if !existed {
		WriteErrorResponse(w, http.StatusNotFound, docId, "Document not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToDeleteResponse(docId))
}

// ListHandler godoc
// @Summary      List indexed documents
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.ListResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /files/ [get]
func ListHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	records, err := ragService.ListDocuments(request.Context())
	if err != nil {
		writeServiceError(w, "", err)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToListResponse(records))
}

// ResetHandler godoc
// @Summary      Reset the whole knowledge base
// @Description  Drops and recreates the vector collection, wipes stored documents and the registry. Falls back to per-document deletes when the collection drop fails.
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.ResetResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /files/ [delete]
func ResetHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	fastPath, err := ragService.ResetAll(request.Context())
	if err != nil {
		writeServiceError(w, "", err)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToResetResponse(fastPath))
}
