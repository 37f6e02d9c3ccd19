package models

// Setting is an opaque key-value pair with last-write-wins semantics.
type Setting struct {
	Key       string `gorm:"primaryKey;column:key;size:255" json:"key"`
	Value     string `gorm:"column:value;not null" json:"value"`
	UpdatedAt string `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (Setting) TableName() string { return "settings" }
