package dto

type StatusContentResponse struct {
	Content string `json:"content"`
}

type StatusErrorResponse struct {
	Error string `json:"error"`
}
