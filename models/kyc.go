package models

// KYCDocument is an identity document submitted for verification. The file
// itself lives in R2; only the URL is stored. Review outcome is mirrored onto
// User.KYCStatus, which is what gates deposits and investments.
type KYCDocument struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	DocType     string    `gorm:"size:50;not null" json:"doc_type"`
	DocumentURL string    `gorm:"type:text;not null" json:"document_url"`
	Status      KYCStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AdminNote   string    `gorm:"type:text" json:"admin_note"`

	Timestamps
}

func (KYCDocument) TableName() string {
	return "kyc_documents"
}
