package repository

import (
	"time"

	"attendance/internal/model"
)

// CredentialRepository is the local key/value session storage.
type CredentialRepository interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
	Delete(key string) error
}

// UploadRepository records the outcome of every admitted frame upload.
type UploadRepository interface {
	Insert(u *model.UploadRecord) (int64, error)
	Recent(limit int) ([]model.UploadRecord, error)
	CountByStatus(since time.Time) (map[string]int, error)
	DeleteBefore(t time.Time) (int64, error)
}
