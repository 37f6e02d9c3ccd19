package models

import "strings"

// Prompt is a user-submitted query, the unit of work fanned out to models.
// Tags is a comma-joined list kept in a single indexed column.
type Prompt struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Date string `gorm:"column:date;not null;index:idx_prompts_date" json:"date"`
	Text string `gorm:"column:prompt;not null" json:"prompt"`
	Tags string `gorm:"column:tags;index:idx_prompts_tags" json:"tags,omitempty"`
}

func (Prompt) TableName() string { return "prompts" }

// TagList splits the stored tags, preserving order and dropping blanks.
func (p *Prompt) TagList() []string {
	if p.Tags == "" {
		return nil
	}
	parts := strings.Split(p.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// JoinTags normalizes a tag list into the stored representation.
func JoinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		cleaned = append(cleaned, tag)
	}
	return strings.Join(cleaned, ",")
}
