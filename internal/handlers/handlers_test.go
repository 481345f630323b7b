package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/akolanti/ragdocs/internal/api"
	"github.com/akolanti/ragdocs/internal/config"
	"github.com/akolanti/ragdocs/internal/domain/commonModels"
	"github.com/akolanti/ragdocs/internal/domain/ragerr"
	"github.com/akolanti/ragdocs/internal/handlers"
	"github.com/akolanti/ragdocs/internal/rag"
	"github.com/akolanti/ragdocs/internal/rag/ingest"
	"github.com/akolanti/ragdocs/internal/rag/llm"
)

// mockService implements rag.Service
type mockService struct {
	OnIngest func(ctx context.Context, up ingest.Upload) (commonModels.IngestResult, error)
	OnAsk    func(ctx context.Context, question string, kOverride int) (commonModels.AskResult, error)
	OnDelete func(ctx context.Context, docId string) (bool, error)
	OnReset  func(ctx context.Context) (bool, error)
	OnList   func(ctx context.Context) ([]commonModels.DocumentRecord, error)
}

func (m *mockService) IngestDocument(ctx context.Context, up ingest.Upload) (commonModels.IngestResult, error) {
	if m.OnIngest != nil {
		return m.OnIngest(ctx, up)
	}
	return commonModels.IngestResult{DocId: "doc-1", Filename: up.Filename, Chunks: 2, Status: "indexed"}, nil
}

func (m *mockService) Ask(ctx context.Context, question string, kOverride int) (commonModels.AskResult, error) {
	if m.OnAsk != nil {
		return m.OnAsk(ctx, question, kOverride)
	}
	return commonModels.AskResult{Answer: "an answer", K: 4, Chunks: 2, Model: "test-model"}, nil
}

func (m *mockService) DeleteDocument(ctx context.Context, docId string) (bool, error) {
	if m.OnDelete != nil {
		return m.OnDelete(ctx, docId)
	}
	return true, nil
}

func (m *mockService) ResetAll(ctx context.Context) (bool, error) {
	if m.OnReset != nil {
		return m.OnReset(ctx)
	}
	return true, nil
}

func (m *mockService) ListDocuments(ctx context.Context) ([]commonModels.DocumentRecord, error) {
	if m.OnList != nil {
		return m.OnList(ctx)
	}
	return nil, nil
}

var _ rag.Service = (*mockService)(nil)

func newRouter(t *testing.T, svc *mockService) *chi.Mux {
	t.Helper()
	handlers.InitRagHandler(svc, &config.Config{MaxUploadBytes: 1 << 20})

	r := chi.NewRouter()
	r.Post("/files/", handlers.UploadHandler)
	r.Get("/files/", handlers.ListHandler)
	r.Delete("/files/", handlers.ResetHandler)
	r.Delete("/files/{doc_id}", handlers.DeleteHandler)
	r.Post("/ask/", handlers.AskHandler)
	r.Get("/health", handlers.HealthHandler)
	return r
}

func doRequest(t *testing.T, router *chi.Mux, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, "test-trace")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func multipartUpload(t *testing.T, field string, filename string, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("writing form file failed: %v", err)
	}
	w.Close()
	return &body, w.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router := newRouter(t, &mockService{})
		body, contentType := multipartUpload(t, "file", "notes.txt", "some text")

		req := httptest.NewRequest(http.MethodPost, "/files/", body)
		req.Header.Set("Content-Type", contentType)
		rec := doRequest(t, router, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status got %d, want 200: %s", rec.Code, rec.Body.String())
		}
		var resp api.UploadResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.DocId != "doc-1" || resp.Chunks != 2 || resp.Status != "indexed" {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("Missing_File_Field", func(t *testing.T) {
		router := newRouter(t, &mockService{})
		body, contentType := multipartUpload(t, "wrongfield", "notes.txt", "some text")

		req := httptest.NewRequest(http.MethodPost, "/files/", body)
		req.Header.Set("Content-Type", contentType)
		rec := doRequest(t, router, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status got %d, want 400", rec.Code)
		}
	})

	t.Run("Error_Status_Mapping", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want int
		}{
			{"Unsupported_Type", ragerr.ErrUnsupportedType, http.StatusBadRequest},
			{"Size_Exceeded", ragerr.ErrSizeExceeded, http.StatusBadRequest},
			{"Empty_File", ragerr.ErrEmptyInput, http.StatusBadRequest},
			{"No_Content", ragerr.ErrNoContent, http.StatusUnprocessableEntity},
			{"Extraction_Failure", &ragerr.ExtractionError{Err: errors.New("bad pdf")}, http.StatusUnprocessableEntity},
			{"Embedding_Failure", &ragerr.EmbeddingError{Err: errors.New("api down")}, http.StatusInternalServerError},
			{"Upsert_Failure", &ragerr.UpsertError{Err: errors.New("qdrant down")}, http.StatusInternalServerError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				router := newRouter(t, &mockService{
					OnIngest: func(ctx context.Context, up ingest.Upload) (commonModels.IngestResult, error) {
						return commonModels.IngestResult{}, tt.err
					},
				})
				body, contentType := multipartUpload(t, "file", "notes.txt", "text")

				req := httptest.NewRequest(http.MethodPost, "/files/", body)
				req.Header.Set("Content-Type", contentType)
				rec := doRequest(t, router, req)

				if rec.Code != tt.want {
					t.Errorf("status got %d, want %d", rec.Code, tt.want)
				}
				var resp api.ErrorResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("decoding error response: %v", err)
				}
				if resp.Code != tt.want {
					t.Errorf("body code got %d, want %d", resp.Code, tt.want)
				}
			})
		}
	})

	// 500-class responses must name the failed stage only; the underlying
	// error stays in the log.
	t.Run("Internal_Detail_Not_Leaked", func(t *testing.T) {
		const secret = "qdrant at 10.0.0.7 refused"

		tests := []struct {
			name       string
			err        error
			wantDetail string
		}{
			{"Embedding", &ragerr.EmbeddingError{Err: errors.New(secret)}, "Embedding failed"},
			{"Upsert", &ragerr.UpsertError{Err: errors.New(secret)}, "Index upsert failed"},
			{"Unclassified", errors.New(secret), "Unexpected error"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				router := newRouter(t, &mockService{
					OnIngest: func(ctx context.Context, up ingest.Upload) (commonModels.IngestResult, error) {
						return commonModels.IngestResult{}, tt.err
					},
				})
				body, contentType := multipartUpload(t, "file", "notes.txt", "text")

				req := httptest.NewRequest(http.MethodPost, "/files/", body)
				req.Header.Set("Content-Type", contentType)
				rec := doRequest(t, router, req)

				if rec.Code != http.StatusInternalServerError {
					t.Fatalf("status got %d, want 500", rec.Code)
				}
				if strings.Contains(rec.Body.String(), secret) {
					t.Errorf("internal error detail leaked to client: %s", rec.Body.String())
				}
				var resp api.ErrorResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("decoding error response: %v", err)
				}
				if resp.Detail != tt.wantDetail {
					t.Errorf("detail got %q, want %q", resp.Detail, tt.wantDetail)
				}
			})
		}
	})

	t.Run("Oversized_Body_Cut_Off", func(t *testing.T) {
		ingestCalled := false
		svc := &mockService{
			OnIngest: func(ctx context.Context, up ingest.Upload) (commonModels.IngestResult, error) {
				ingestCalled = true
				return commonModels.IngestResult{}, nil
			},
		}
		router := newRouter(t, svc)
		// shrink the body cap well below the upload size
		handlers.InitRagHandler(svc, &config.Config{MaxUploadBytes: 64})

		body, contentType := multipartUpload(t, "file", "big.txt", strings.Repeat("x", 4<<20))

		req := httptest.NewRequest(http.MethodPost, "/files/", body)
		req.Header.Set("Content-Type", contentType)
		rec := doRequest(t, router, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status got %d, want 400", rec.Code)
		}
		if ingestCalled {
			t.Error("oversized body must be rejected before the pipeline runs")
		}
	})
}

func TestAskHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router := newRouter(t, &mockService{})

		req := httptest.NewRequest(http.MethodPost, "/ask/", strings.NewReader(`{"question":"what?"}`))
		rec := doRequest(t, router, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status got %d, want 200", rec.Code)
		}
		var resp api.AskResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.Answer != "an answer" || resp.K != 4 {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("Malformed_JSON", func(t *testing.T) {
		router := newRouter(t, &mockService{})

		req := httptest.NewRequest(http.MethodPost, "/ask/", strings.NewReader(`{"question":`))
		rec := doRequest(t, router, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status got %d, want 400", rec.Code)
		}
	})

	t.Run("Error_Status_Mapping", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want int
		}{
			{"Blank_Question", ragerr.ErrInvalidInput, http.StatusBadRequest},
			{"Missing_Config", ragerr.ErrMissingConfig, http.StatusInternalServerError},
			{"Upstream_Error", &ragerr.UpstreamError{Status: 429, Body: "rate limited"}, http.StatusBadGateway},
			{"Upstream_Timeout", ragerr.ErrUpstreamTimeout, http.StatusBadGateway},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				router := newRouter(t, &mockService{
					OnAsk: func(ctx context.Context, q string, k int) (commonModels.AskResult, error) {
						return commonModels.AskResult{}, tt.err
					},
				})

				req := httptest.NewRequest(http.MethodPost, "/ask/", strings.NewReader(`{"question":"q"}`))
				rec := doRequest(t, router, req)

				if rec.Code != tt.want {
					t.Errorf("status got %d, want %d", rec.Code, tt.want)
				}
			})
		}
	})

	t.Run("Refusal_Passthrough", func(t *testing.T) {
		router := newRouter(t, &mockService{
			OnAsk: func(ctx context.Context, q string, k int) (commonModels.AskResult, error) {
				return commonModels.AskResult{Answer: llm.RefusalAnswer, K: 4, Chunks: 0}, nil
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/ask/", strings.NewReader(`{"question":"unknown?"}`))
		rec := doRequest(t, router, req)

		var resp api.AskResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.Answer != llm.RefusalAnswer {
			t.Errorf("refusal sentence altered: %q", resp.Answer)
		}
	})
}

func TestDeleteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router := newRouter(t, &mockService{})

		req := httptest.NewRequest(http.MethodDelete, "/files/doc-1", nil)
		rec := doRequest(t, router, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status got %d, want 200", rec.Code)
		}
		var resp api.DeleteResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if !resp.Deleted || resp.DocId != "doc-1" {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("Unknown_Document", func(t *testing.T) {
		router := newRouter(t, &mockService{
			OnDelete: func(ctx context.Context, docId string) (bool, error) {
				return false, nil
			},
		})

		req := httptest.NewRequest(http.MethodDelete, "/files/ghost", nil)
		rec := doRequest(t, router, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status got %d, want 404", rec.Code)
		}
	})

	t.Run("Vector_Failure", func(t *testing.T) {
		router := newRouter(t, &mockService{
			OnDelete: func(ctx context.Context, docId string) (bool, error) {
				return false, errors.New("vector deletion failed: qdrant down")
			},
		})

		req := httptest.NewRequest(http.MethodDelete, "/files/doc-1", nil)
		rec := doRequest(t, router, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status got %d, want 500", rec.Code)
		}
	})
}

func TestResetAndListHandlers(t *testing.T) {
	t.Run("Reset", func(t *testing.T) {
		router := newRouter(t, &mockService{
			OnReset: func(ctx context.Context) (bool, error) { return false, nil },
		})

		req := httptest.NewRequest(http.MethodDelete, "/files/", nil)
		rec := doRequest(t, router, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status got %d, want 200", rec.Code)
		}
		var resp api.ResetResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if !resp.Reset || resp.FastPath {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("List_Empty_Is_Array", func(t *testing.T) {
		router := newRouter(t, &mockService{})

		req := httptest.NewRequest(http.MethodGet, "/files/", nil)
		rec := doRequest(t, router, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status got %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"documents":[]`) {
			t.Errorf("empty listing must be an array, got %s", rec.Body.String())
		}
	})
}
