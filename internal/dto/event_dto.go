package dto

// DatasetIngestedMessage is the bus payload consumed by the indexer trigger.
type DatasetIngestedMessage struct {
	SessionId string `json:"session_id"`
}
