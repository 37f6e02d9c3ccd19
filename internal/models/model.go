package models

// Model is a configured external AI endpoint. APIID names the environment
// variable (or keyring entry) holding the API key; the secret itself is
// never stored.
type Model struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null;uniqueIndex:idx_models_name" json:"name"`
	APIURL    string `gorm:"column:api_url;not null" json:"apiUrl"`
	APIID     string `gorm:"column:api_id;not null" json:"apiId"`
	ModelType string `gorm:"column:model_type;not null" json:"modelType"`
	IsActive  bool   `gorm:"column:is_active;not null;default:true;index:idx_models_is_active" json:"isActive"`
	CreatedAt string `gorm:"column:created_at;not null" json:"createdAt"`
}

func (Model) TableName() string { return "models" }
