package commonModels

import "time"

// Document is an ingested upload. A re-upload is always a new Document with a
// fresh Id; documents are never mutated in place.
type Document struct {
	Id         string    `json:"doc_id"`
	Filename   string    `json:"filename"`
	Folder     string    `json:"folder"`
	IngestedAt time.Time `json:"ingested_at"`
}

// DocChunk is the unit stored in the vector index: a bounded span of extracted
// text plus the metadata that makes delete-by-document possible.
type DocChunk struct {
	Doc     Document
	ChunkId string `json:"chunk_id"`
	Text    string `json:"text"`
	Ord     int    `json:"ord"`
	Page    int    `json:"page"`
}

// ChunkMatch is one retrieval hit, payload plus similarity score.
type ChunkMatch struct {
	Text     string  `json:"text"`
	DocId    string  `json:"doc_id"`
	Filename string  `json:"filename"`
	Ord      int     `json:"ord"`
	Page     int     `json:"page"`
	Score    float32 `json:"score"`
}

// TokenUsage mirrors the usage block of the chat completion response.
type TokenUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// IngestResult is the outcome of a successful ingestion.
type IngestResult struct {
	DocId    string `json:"doc_id"`
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
	Status   string `json:"status"`
}

// AskResult is the outcome of a question-answering call.
type AskResult struct {
	Answer string      `json:"answer"`
	K      int         `json:"k"`
	Chunks int         `json:"chunks"`
	Model  string      `json:"model"`
	Usage  *TokenUsage `json:"usage"`
}

// DocumentRecord is the registry entry kept per ingested document.
type DocumentRecord struct {
	DocId      string    `json:"doc_id"`
	Filename   string    `json:"filename"`
	Chunks     int       `json:"chunks"`
	IngestedAt time.Time `json:"ingested_at"`
}
