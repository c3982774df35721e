package types

// OrganizerCorrection 模型对单篇文档给出的修正.
type OrganizerCorrection struct {
	Brand         string `json:"brand"`
	Category      string `json:"category"`
	IsDuplicate   bool   `json:"is_duplicate"`
	DuplicateOfID string `json:"duplicate_of_id,omitempty"`
}

// OrganizerSuggestion 模型输出数组中的一项.
type OrganizerSuggestion struct {
	ID         string              `json:"id"`
	Correction OrganizerCorrection `json:"correction"`
}

// OrganizerSummary 一轮整理的统计结果.
type OrganizerSummary struct {
	Analyzed          int `json:"analyzed"`
	Updated           int `json:"updated"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	Failed            int `json:"failed"`
}
