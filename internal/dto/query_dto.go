package dto

type StageQueryResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	FileName      string `json:"fileName"`
	SavedFilePath string `json:"savedFilePath"`
}
