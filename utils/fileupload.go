package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxMeshFileSize is 50MB in bytes; detailed meshes get big
	MaxMeshFileSize = 50 * 1024 * 1024
	// AllowedMeshFormat is binary or ASCII STL
	AllowedMeshFormat = ".stl"
)

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateMeshFile validates the uploaded mesh file format and size
func ValidateMeshFile(fileHeader *multipart.FileHeader) error {
	// Check file size
	if fileHeader.Size > MaxMeshFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxMeshFileSize/(1024*1024)),
		}
	}

	if fileHeader.Size == 0 {
		return &FileUploadError{
			Code:    "EMPTY_FILE",
			Message: "Uploaded file is empty",
		}
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != AllowedMeshFormat {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("Only %s files are allowed", AllowedMeshFormat),
		}
	}

	return nil
}
