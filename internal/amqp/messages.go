package amqp

import (
	"encoding/json"
	"time"
)

// ReportExportedMessage announces a finished report export. Consumers fetch
// the full document from the archive or blob store by ExportID.
type ReportExportedMessage struct {
	ExportID           string    `json:"export_id"`
	GeneratedAt        time.Time `json:"generated_at"`
	TotalProjects      int       `json:"total_projects"`
	TotalBeneficiaries int       `json:"total_beneficiaries"`
	Path               string    `json:"path"`
}

// ToJSON converts the message to JSON bytes
func (m *ReportExportedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportExportedMessageFromJSON creates a message from JSON bytes
func ReportExportedMessageFromJSON(data []byte) (*ReportExportedMessage, error) {
	var msg ReportExportedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
