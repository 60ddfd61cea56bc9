package entity

// MapperEntry is one audio↔cover pairing in the session mapper. The
// similarity fields are nil until the retrieval engine has annotated the
// mapper, and go back to nil when a query is reverted. Beyond existence
// checks on the referenced files, the pairing semantics are opaque here.
type MapperEntry struct {
	AudioFile       string   `json:"audio_file" validate:"required"`
	PicName         string   `json:"pic_name" validate:"required"`
	AudioSimilarity *float64 `json:"audio_similarity,omitempty"`
	ImageDistance   *float64 `json:"image_distance,omitempty"`
}
