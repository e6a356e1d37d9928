package dto

// UploadResult reports the outcome of one attendance CSV ingestion run.
// Warnings carry per-row problems for partially accepted files.
type UploadResult struct {
	UploadID      string   `json:"upload_id"`
	FileName      string   `json:"file_name"`
	InsertedCount int      `json:"inserted_count"`
	Warnings      []string `json:"warnings,omitempty"`
	Message       string   `json:"message"`
}
