package models

import "time"

// EvidenceFile represents the evidence_files table: a document uploaded in
// support of an answer. Files are stored under a random name; the original
// name is kept for download headers.
type EvidenceFile struct {
	FileID       int        `gorm:"primaryKey;column:file_id" json:"file_id"`
	AnswerID     int        `gorm:"column:answer_id" json:"answer_id"`
	OriginalName string     `gorm:"column:original_name" json:"original_name"`
	StoredPath   string     `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64      `gorm:"column:file_size" json:"file_size"`
	MimeType     string     `gorm:"column:mime_type" json:"mime_type"`
	UploadedBy   int        `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time  `gorm:"column:uploaded_at" json:"uploaded_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Uploader User `gorm:"foreignKey:UploadedBy;references:UserID" json:"uploader,omitempty"`
}

func (EvidenceFile) TableName() string {
	return "evidence_files"
}

// Helper methods for file validation
func (f *EvidenceFile) IsValidDocumentType() bool {
	validTypes := []string{
		"application/pdf",
		"image/jpeg",
		"image/png",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}
	for _, validType := range validTypes {
		if f.MimeType == validType {
			return true
		}
	}
	return false
}

func (f *EvidenceFile) GetFileSizeInMB() float64 {
	return float64(f.FileSize) / (1024 * 1024)
}
