package serverutils

// BaseResponse is the envelope every endpoint returns. Clients branch on
// Success, not on the HTTP status code.
type BaseResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func SuccessResponse(message string) BaseResponse {
	return BaseResponse{Success: true, Message: message}
}

func ErrorResponse(message string) BaseResponse {
	return BaseResponse{Success: false, Message: message}
}
