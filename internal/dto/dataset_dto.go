package dto

type UploadDatasetResponse struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	CoverFiles []string `json:"coverFiles"`
	MusicFiles []string `json:"musicFiles"`
}

// DatasetItem is one projected mapper row. Similarity fields marshal to
// null until a query has annotated the mapper.
type DatasetItem struct {
	Song            string   `json:"song"`
	Cover           string   `json:"cover"`
	AudioSimilarity *float64 `json:"audio_similarity"`
	ImageDistance   *float64 `json:"image_distance"`
}

type GetDatasetResponse struct {
	Success bool          `json:"success"`
	Dataset []DatasetItem `json:"dataset"`
}
