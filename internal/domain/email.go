package domain

import "time"

// EmailType is the stage of outreach a draft belongs to.
type EmailType string

const (
	EmailFirstOutreach EmailType = "first_outreach"
	EmailFollowup1     EmailType = "followup1"
	EmailFollowup2     EmailType = "followup2"
	EmailNegotiation   EmailType = "negotiation"
	EmailContract      EmailType = "contract"
)

// EmailTypes lists every accepted email type.
var EmailTypes = []EmailType{EmailFirstOutreach, EmailFollowup1, EmailFollowup2, EmailNegotiation, EmailContract}

// Valid reports whether t is a member of the email type enumeration.
func (t EmailType) Valid() bool {
	for _, et := range EmailTypes {
		if t == et {
			return true
		}
	}
	return false
}

// Email is a drafted outreach message. Emails hold the foreign key; a Lead
// keeps no back-reference.
type Email struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	LeadID    string     `gorm:"size:36;not null;index" json:"lead_id"`
	Subject   string     `json:"subject"`
	Body      string     `gorm:"type:text" json:"body"`
	Type      EmailType  `gorm:"size:32;not null" json:"type"`
	SentAt    *time.Time `json:"sent_at"`
	Opened    bool       `gorm:"default:false" json:"opened"`
	Replied   bool       `gorm:"default:false" json:"replied"`
	CreatedAt time.Time  `gorm:"autoCreateTime:false;index" json:"created_at"`
}

// TableName specifies the table name for Email
func (Email) TableName() string {
	return "emails"
}
