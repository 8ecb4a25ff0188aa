package models

// ContactMessageModel is an inbound message from the contact form.
type ContactMessageModel struct {
	Base
	Name    string `json:"name"    gorm:"size:191;not null"`
	Email   string `json:"email"   gorm:"size:191;not null"`
	Subject string `json:"subject" gorm:"size:191;not null"`
	Message string `json:"message" gorm:"type:text;not null"`
	IP      string `json:"-"`
}

func (ContactMessageModel) TableName() string { return "contact_messages" }

// FileReferenceModel tracks uploaded files.
type FileReferenceModel struct {
	Base
	FileURL  string `json:"file_url"  gorm:"index;not null"`
	FileName string `json:"file_name"`
	Storage  string `json:"storage"   gorm:"size:16"` // local | s3
	Size     int64  `json:"size"`
}

func (FileReferenceModel) TableName() string { return "file_references" }
