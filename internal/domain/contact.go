package domain

import "time"

// ContactSubmission is an inbound contact-form message. Submissions are
// append-only: never updated or deleted once stored.
type ContactSubmission struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null;index" json:"email"`
	Company   string    `json:"company"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"created_at"`
}

// TableName specifies the table name for ContactSubmission
func (ContactSubmission) TableName() string {
	return "contact_submissions"
}

// BrandAssetType classifies an uploaded brand asset.
type BrandAssetType string

const (
	AssetMediaKit  BrandAssetType = "media_kit"
	AssetAnalytics BrandAssetType = "analytics"
	AssetExamples  BrandAssetType = "examples"
	AssetMoodboard BrandAssetType = "moodboard"
)

// Valid reports whether t is a known asset type.
func (t BrandAssetType) Valid() bool {
	switch t {
	case AssetMediaKit, AssetAnalytics, AssetExamples, AssetMoodboard:
		return true
	}
	return false
}

// BrandAsset is a creator-side file (media kit, analytics screenshot, ...)
// referenced by URL.
type BrandAsset struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	FileURL    string         `gorm:"not null" json:"file_url"`
	Type       BrandAssetType `gorm:"size:32;not null" json:"type"`
	UploadedAt time.Time      `json:"uploaded_at"`
}

// TableName specifies the table name for BrandAsset
func (BrandAsset) TableName() string {
	return "brand_assets"
}
