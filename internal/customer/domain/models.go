package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusActive   Status = "Active"
	StatusDeactive Status = "Deactive"
)

// DeletedPlaceholder replaces PII when a soft-deleted customer is rendered.
const DeletedPlaceholder = "Deleted Customer"

type Customer struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	Name           string       `gorm:"not null" json:"name"`
	Phone          string       `gorm:"not null" json:"phone"`
	Address        string       `json:"address"`
	STBNumber      string       `gorm:"column:stb_number;not null" json:"stb_number"`
	ConnectionDate string       `gorm:"type:date" json:"connection_date"`
	PackageName    string       `json:"package_name"`
	MonthlyRate    int64        `gorm:"not null" json:"monthly_rate"`
	PlanDuration   int          `gorm:"not null;default:1" json:"plan_duration"`
	Status         Status       `gorm:"type:text;not null;default:'Active'" json:"status"`
	IsDeleted      bool         `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt      *time.Time   `json:"deleted_at,omitempty"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// Active reports whether the customer currently accrues charges.
func (c Customer) Active() bool {
	return c.Status == StatusActive && !c.IsDeleted
}

// Redacted returns a presentation copy with PII scrubbed for soft-deleted
// customers. The stored row keeps its fields so payment history stays intact.
func (c Customer) Redacted() Customer {
	if !c.IsDeleted {
		return c
	}
	c.Name = DeletedPlaceholder
	c.Phone = ""
	c.Address = ""
	c.STBNumber = ""
	return c
}

// NormalizePhone strips whitespace and one country-code prefix so two
// spellings of the same number compare equal.
func NormalizePhone(phone string) string {
	cleaned := strings.Join(strings.Fields(phone), "")
	return strings.Replace(cleaned, "+91", "", 1)
}
