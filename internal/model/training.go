package model

// TrainingPair is one prompt/response line of the fine-tuning export
type TrainingPair struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}
