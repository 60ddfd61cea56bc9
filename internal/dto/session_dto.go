package dto

type GenerateSessionResponse struct {
	SessionId string `json:"sessionId"`
}
