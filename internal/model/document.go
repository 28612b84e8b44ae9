package model

type DocumentCategory string

var documentCategoryLabels = map[DocumentCategory]string{
	"custody_agreement":       "Custody Agreement/Parenting Plan",
	"court_order":             "Court Order",
	"child_support_order":     "Child Support Order",
	"motion_filing":           "Motion/Filing",
	"attorney_correspondence": "Attorney Correspondence",
	"text_messages":           "Text Messages/Screenshots",
	"email_communication":     "Email Communication",
	"photos_evidence":         "Photos/Evidence",
	"video_evidence":          "Video Evidence",
	"audio_recording":         "Audio Recording",
	"witness_statement":       "Witness Statement",
	"police_report":           "Police Report",
	"medical_records":         "Medical Records",
	"therapy_records":         "Therapy/Counseling Records",
	"school_records":          "School Records",
	"financial_records":       "Financial Records",
	"income_verification":     "Income Verification",
	"expense_receipts":        "Expense Receipts",
	"calendar_proof":          "Calendar/Schedule Proof",
	"other":                   "Other Document",
}

func (c DocumentCategory) Valid() bool {
	_, ok := documentCategoryLabels[c]
	return ok
}

func (c DocumentCategory) Label() string {
	if l, ok := documentCategoryLabels[c]; ok {
		return l
	}
	return string(c)
}

type Document struct {
	DocumentID  string           `json:"document_id"`
	FileName    string           `json:"filename"`
	Category    DocumentCategory `json:"category"`
	Description string           `json:"description"`
	FileType    string           `json:"file_type"`
	FileSize    int64            `json:"file_size"`
	UploadedAt  string           `json:"uploaded_at,omitempty"`
	CreatedAt   string           `json:"created_at,omitempty"`
}

// Uploaded returns the upload timestamp, whichever field the backend filled.
func (d Document) Uploaded() string {
	if d.UploadedAt != "" {
		return d.UploadedAt
	}
	return d.CreatedAt
}

// DocumentContent is a downloaded document with its bytes decoded.
type DocumentContent struct {
	FileName string
	FileType string
	Data     []byte
}

type DocumentInput struct {
	Category    DocumentCategory
	Description string
}

func (in *DocumentInput) Validate() error {
	if in.Category == "" {
		in.Category = "court_order"
	}
	return checkEnum("category", in.Category, DocumentCategory.Valid)
}
