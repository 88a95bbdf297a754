package ingest

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dcamposl/ragdocs/internal/chunker"
	"github.com/dcamposl/ragdocs/internal/extract"
	"github.com/dcamposl/ragdocs/internal/storage"
)

// Status is the lifecycle state of an ingestion job. Every job ends in
// SUCCEEDED or FAILED.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

// Stable error codes recorded per document and returned to clients.
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeSourceNotFound   = "SOURCE_URL_NOT_FOUND"
	CodeDownloadTimeout  = "DOWNLOAD_TIMEOUT"
	CodeCorruptedFile    = "CORRUPTED_FILE"
	CodeInvalidExtension = "INVALID_EXTENSION"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeEmptyDocument    = "EMPTY_DOCUMENT"
	CodeProcessingError  = "PROCESSING_ERROR"
)

// DocumentError records one failed document inside an otherwise live job.
type DocumentError struct {
	Filename string `json:"filename"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Summary counts what the job saw and produced.
type Summary struct {
	DocumentsFound  int `json:"documents_found"`
	DocumentsLoaded int `json:"documents_loaded"`
	DocumentsFailed int `json:"documents_failed"`
	ChunksCreated   int `json:"chunks_created"`
}

// EmbeddingStats describe how the chunks were embedded.
type EmbeddingStats struct {
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	Batches    int    `json:"batches"`
}

// Job is the durable record of one ingestion run.
type Job struct {
	ID             string          `json:"processing_id"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	SourceURL      string          `json:"source_url"`
	CollectionName string          `json:"collection_name"`
	Summary        Summary         `json:"summary"`
	Errors         []DocumentError `json:"errors"`
	ChunkingStats  *chunker.Stats  `json:"chunking_stats,omitempty"`
	Embedding      *EmbeddingStats `json:"embedding,omitempty"`
	ResultRef      string          `json:"result_ref,omitempty"`
}

// NewJobID returns a fresh processing id: "proc_" plus twelve hex
// characters of a UUID.
func NewJobID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "proc_" + hex[:12]
}

// errEmptyDocument marks a file that downloaded and decoded fine but
// yielded no text worth chunking.
var errEmptyDocument = errors.New("no extractable text")

// ValidationError rejects a request before any job is created.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// codeForError maps pipeline failures to stable per-document codes.
func codeForError(err error) string {
	switch {
	case errors.Is(err, storage.ErrDownloadTimeout):
		return CodeDownloadTimeout
	case errors.Is(err, storage.ErrInvalidExtension):
		return CodeInvalidExtension
	case errors.Is(err, storage.ErrFileTooLarge):
		return CodeFileTooLarge
	case errors.Is(err, storage.ErrSourceNotFound):
		return CodeSourceNotFound
	case errors.Is(err, extract.ErrCorrupt):
		return CodeCorruptedFile
	case errors.Is(err, errEmptyDocument):
		return CodeEmptyDocument
	default:
		return CodeProcessingError
	}
}
