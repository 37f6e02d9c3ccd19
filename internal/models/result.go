package models

import "encoding/json"

// Result is one persisted model response tied to a (prompt, model) pair.
// SavedAt is the persistence timestamp, not the API completion time.
// Metadata is an opaque JSON payload (token counts, latency, api type).
type Result struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PromptID uint   `gorm:"column:prompt_id;not null;index:idx_results_prompt_id" json:"promptId"`
	ModelID  uint   `gorm:"column:model_id;not null;index:idx_results_model_id" json:"modelId"`
	Response string `gorm:"column:response;not null" json:"response"`
	SavedAt  string `gorm:"column:saved_at;not null;index:idx_results_saved_at" json:"savedAt"`
	Metadata string `gorm:"column:metadata" json:"metadata,omitempty"`

	Prompt *Prompt `gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE" json:"-"`
	Model  *Model  `gorm:"foreignKey:ModelID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Result) TableName() string { return "results" }

// SetMetadata marshals an arbitrary payload into the metadata column.
func (r *Result) SetMetadata(payload map[string]any) error {
	if len(payload) == 0 {
		r.Metadata = ""
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	r.Metadata = string(data)
	return nil
}

// MetadataMap unmarshals the metadata column; nil when empty or invalid.
func (r *Result) MetadataMap() map[string]any {
	if r.Metadata == "" {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Metadata), &payload); err != nil {
		return nil
	}
	return payload
}
