package cache

import (
	"encoding/json"
	"time"

	"github.com/phantomworx/cq-intel/internal/entry"
)

// rawRecord mirrors Record with pointer fields so a decoded document can
// be checked for shape, not just coerced to zero values.
type rawRecord struct {
	Entries   *[]rawEntry `json:"entries"`
	Timestamp *int64      `json:"timestamp"`
	SourceURL *string     `json:"sourceUrl"`
}

type rawEntry struct {
	DateText *string `json:"dateText"`
	Date     *string `json:"date"`
	Content  *string `json:"content"`
}

// decodeRecord validates and rehydrates a persisted record. Validation
// requires object shape, a numeric timestamp, a string sourceUrl, an
// entries array, and string content and dateText on every entry. Entry
// dates are rehydrated from RFC 3339; null or unparseable dates become
// nil rather than failing the record.
func decodeRecord(data []byte) (*Record, bool) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}
	if raw.Timestamp == nil || raw.SourceURL == nil || raw.Entries == nil {
		return nil, false
	}

	entries := make([]entry.Entry, 0, len(*raw.Entries))
	for _, re := range *raw.Entries {
		if re.Content == nil || re.DateText == nil {
			return nil, false
		}

		var date *time.Time
		if re.Date != nil {
			if t, err := time.Parse(time.RFC3339, *re.Date); err == nil {
				date = &t
			}
		}

		entries = append(entries, entry.Entry{
			DateText: *re.DateText,
			Date:     date,
			Content:  *re.Content,
		})
	}

	return &Record{
		Entries:   entries,
		Timestamp: *raw.Timestamp,
		SourceURL: *raw.SourceURL,
	}, true
}
