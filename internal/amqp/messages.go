package amqp

import (
	"encoding/json"
	"time"
)

// WorkbookProcessedMessage announces that a workbook finished extraction.
// Consumers fetch the consolidated records from the database by workbook
// name; the message carries only identifiers.
type WorkbookProcessedMessage struct {
	Workbook  string    `json:"workbook"`
	Years     []int     `json:"years"`
	Timestamp time.Time `json:"timestamp"`
}

func NewWorkbookProcessedMessage(workbook string, years []int) *WorkbookProcessedMessage {
	return &WorkbookProcessedMessage{
		Workbook:  workbook,
		Years:     years,
		Timestamp: time.Now(),
	}
}

func (m *WorkbookProcessedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func WorkbookProcessedMessageFromJSON(data []byte) (*WorkbookProcessedMessage, error) {
	var msg WorkbookProcessedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
