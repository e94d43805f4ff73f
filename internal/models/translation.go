package models

type Translation struct {
	BaseModel
	Locale string `gorm:"uniqueIndex:idx_translations_locale_key;size:8;not null" json:"locale"`
	Key    string `gorm:"uniqueIndex:idx_translations_locale_key;size:255;not null" json:"key"`
	Value  string `gorm:"not null" json:"value"`
}
