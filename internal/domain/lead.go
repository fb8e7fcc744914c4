package domain

import (
	"strings"
	"time"
)

// LeadStatus is a position in the partnership pipeline. Any status may be set
// from any other; closed_won and dead are terminal by convention only.
type LeadStatus string

const (
	StatusNew          LeadStatus = "new"
	StatusContacted    LeadStatus = "contacted"
	StatusReplied      LeadStatus = "replied"
	StatusNegotiating  LeadStatus = "negotiating"
	StatusContractSent LeadStatus = "contract_sent"
	StatusClosedWon    LeadStatus = "closed_won"
	StatusDead         LeadStatus = "dead"
)

// Statuses lists the pipeline in display order.
var Statuses = []LeadStatus{
	StatusNew,
	StatusContacted,
	StatusReplied,
	StatusNegotiating,
	StatusContractSent,
	StatusClosedWon,
	StatusDead,
}

// Valid reports whether s is a member of the status enumeration.
func (s LeadStatus) Valid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// LeadCategory is the brand vertical of a lead.
type LeadCategory string

const (
	CategoryBeauty    LeadCategory = "beauty"
	CategorySkincare  LeadCategory = "skincare"
	CategoryLifestyle LeadCategory = "lifestyle"
	CategoryHome      LeadCategory = "home"
	CategoryWellness  LeadCategory = "wellness"
	CategoryFashion   LeadCategory = "fashion"
	CategoryFood      LeadCategory = "food"
	CategoryTech      LeadCategory = "tech"
	CategoryOther     LeadCategory = "other"
)

// Categories lists every accepted category.
var Categories = []LeadCategory{
	CategoryBeauty,
	CategorySkincare,
	CategoryLifestyle,
	CategoryHome,
	CategoryWellness,
	CategoryFashion,
	CategoryFood,
	CategoryTech,
	CategoryOther,
}

// ParseCategory matches s case-insensitively against the category enumeration.
func ParseCategory(s string) (LeadCategory, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// LeadSource records how a lead entered the pipeline.
type LeadSource string

const (
	SourceAISearch   LeadSource = "ai-search"
	SourceInbound    LeadSource = "inbound"
	SourceUpload     LeadSource = "upload"
	SourceCompetitor LeadSource = "competitor"
	SourceManual     LeadSource = "manual"
)

// Sources lists every accepted source.
var Sources = []LeadSource{SourceAISearch, SourceInbound, SourceUpload, SourceCompetitor, SourceManual}

// Valid reports whether s is a member of the source enumeration.
func (s LeadSource) Valid() bool {
	for _, source := range Sources {
		if s == source {
			return true
		}
	}
	return false
}

// Socials holds the brand's social handles. Missing handles are empty strings.
type Socials struct {
	Instagram string `json:"instagram"`
	TikTok    string `json:"tiktok"`
	YouTube   string `json:"youtube"`
}

// Lead represents a prospective brand partnership
type Lead struct {
	ID           string       `gorm:"primaryKey;size:36" json:"id"`
	Seq          int64        `gorm:"not null;default:0;index" json:"-"`
	CompanyName  string       `gorm:"not null" json:"company_name"`
	ContactName  string       `json:"contact_name"`
	ContactEmail string       `gorm:"index" json:"contact_email"`
	Website      string       `json:"website"`
	Category     LeadCategory `gorm:"size:32;not null;default:'other'" json:"category"`
	Source       LeadSource   `gorm:"size:32;not null" json:"source"`
	Status       LeadStatus   `gorm:"size:32;not null;default:'new';index" json:"status"`
	Socials      Socials      `gorm:"embedded;embeddedPrefix:socials_" json:"socials"`
	AIPitch      string       `gorm:"type:text" json:"ai_pitch"`
	Notes        string       `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time    `gorm:"autoCreateTime:false;index" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// TableName specifies the table name for Lead
func (Lead) TableName() string {
	return "leads"
}

// MatchesSearch reports whether the company name or contact email contains
// query, case-insensitively. An empty query matches everything.
func (l *Lead) MatchesSearch(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.CompanyName), query) ||
		strings.Contains(strings.ToLower(l.ContactEmail), query)
}
