package dto

// UploadStatusEvent is one frame on the upload-notify push channel.
type UploadStatusEvent struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const (
	UploadStatusUploading = "uploading"
	UploadStatusUploaded  = "file-uploaded"
)
