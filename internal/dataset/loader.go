// Package dataset loads email fixtures from disk.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/inboxlab/mailrag/internal/domain/email"
)

// record mirrors the on-disk JSON shape of one email.
type record struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Body    string `json:"body"`
}

// Load reads a JSON array of emails from path and validates each record.
// The file must hold at least one email; an email that fails domain
// validation aborts the load with its position in the error.
func Load(path string) ([]email.Email, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s holds no emails", path)
	}

	emails := make([]email.Email, 0, len(records))
	for i, rec := range records {
		e, err := email.New(rec.ID, rec.From, rec.To, rec.Subject, rec.Date, rec.Body)
		if err != nil {
			return nil, fmt.Errorf("dataset %s record %d: %w", path, i, err)
		}
		emails = append(emails, e)
	}
	return emails, nil
}
