package entity

import (
	"database/sql/driver"
	"time"

	"github.com/goccy/go-json"
)

// Attachment is a file stored in object storage and referenced from a record
type Attachment struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	ObjectKey   string    `json:"object_key"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Attachments is stored as a jsonb array
type Attachments []Attachment

func (a Attachments) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Attachments) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	var out []Attachment
	if err := json.Unmarshal(bytes, &out); err != nil {
		return err
	}
	*a = out
	return nil
}

func (a Attachments) Find(id string) (Attachment, bool) {
	for _, att := range a {
		if att.ID == id {
			return att, true
		}
	}
	return Attachment{}, false
}

// ObjectKeys lists the storage keys of every attachment
func (a Attachments) ObjectKeys() []string {
	keys := make([]string, 0, len(a))
	for _, att := range a {
		keys = append(keys, att.ObjectKey)
	}
	return keys
}
