package model

import "time"

// OtherOption is the dropdown sentinel that makes the paired free-text field mandatory.
const OtherOption = "Other"

// Registration is one submitted installation request. Records are immutable
// once stored.
type Registration struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	IntersectionName   string    `json:"intersection_name" gorm:"size:255;not null"`
	EndUser            string    `json:"end_user" gorm:"size:255;not null"`
	Distributor        string    `json:"distributor" gorm:"size:255;not null"`
	CabinetType        string    `json:"cabinet_type" gorm:"size:255;not null"`
	CabinetTypeOther   *string   `json:"cabinet_type_other" gorm:"size:255"`
	TLSConnection      string    `json:"tls_connection" gorm:"column:tls_connection;size:255;not null"`
	TLSConnectionOther *string   `json:"tls_connection_other" gorm:"column:tls_connection_other;size:255"`
	DetectionIO        string    `json:"detection_io" gorm:"column:detection_io;size:255;not null"`
	DetectionIOOther   *string   `json:"detection_io_other" gorm:"column:detection_io_other;size:255"`
	PhasingText        *string   `json:"phasing_text" gorm:"type:text"`
	PhasingFilePath    *string   `json:"phasing_file_path" gorm:"size:255"`
	TimingFiles        []string  `json:"timing_files" gorm:"serializer:json;type:text"`
	ContactName        string    `json:"contact_name" gorm:"size:255;not null"`
	ContactEmail       string    `json:"contact_email" gorm:"size:255;not null"`
	ContactPhone       string    `json:"contact_phone" gorm:"size:50;not null"`
	CreatedAt          time.Time `json:"created_at"`
}
