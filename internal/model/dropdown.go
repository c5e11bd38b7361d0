package model

import "time"

// Dropdown categories.
const (
	CategoryDistributor   = "distributor"
	CategoryCabinetType   = "cabinet_type"
	CategoryTLSConnection = "tls_connection"
	CategoryDetectionIO   = "detection_io"
)

// DropdownOption is one selectable value of a form dropdown.
type DropdownOption struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Category  string    `json:"-" gorm:"size:50;not null;uniqueIndex:idx_dropdown_category_name"`
	Name      string    `json:"name" gorm:"size:255;not null;uniqueIndex:idx_dropdown_category_name"`
	CreatedAt time.Time `json:"-"`
}

// DefaultDropdownOptions is the catalogue provisioned on a fresh database.
var DefaultDropdownOptions = map[string][]string{
	CategoryDistributor:   {"Distributor A", "Distributor B", "Distributor C", OtherOption},
	CategoryCabinetType:   {"Type A", "Type B", "Type C", OtherOption},
	CategoryTLSConnection: {"TLS 1.2", "TLS 1.3", OtherOption},
	CategoryDetectionIO:   {"I/O Type A", "I/O Type B", "I/O Type C", OtherOption},
}
