// ABOUTME: Validator and repairer for untrusted document JSON
// ABOUTME: Never fails; returns a usable document tagged Valid, Repaired, or Default
package store

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/harperreed/yongu/models"
)

// Verdict tags how much repair an untrusted document needed.
type Verdict int

const (
	VerdictValid Verdict = iota
	VerdictRepaired
	VerdictDefault
)

func (v Verdict) String() string {
	switch v {
	case VerdictValid:
		return "valid"
	case VerdictRepaired:
		return "repaired"
	case VerdictDefault:
		return "default"
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

// Validated is the result of Validate. Document is never nil.
type Validated struct {
	Document *models.Document
	Verdict  Verdict
	Problems []string
}

func (v *Validated) repair(format string, args ...any) {
	if v.Verdict == VerdictValid {
		v.Verdict = VerdictRepaired
	}
	v.Problems = append(v.Problems, fmt.Sprintf(format, args...))
}

// Decode parses data as JSON and validates the result. Only JSON syntax
// errors are returned; structural problems are repaired.
func Decode(data []byte, now time.Time) (Validated, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Validated{}, err
	}
	return Validate(raw, now), nil
}

// Validate coerces an arbitrary parsed JSON value into a Document.
//
// A value that is not an object, or whose clients member is not a list,
// yields the empty default document. Every client object is kept: members
// are decoded one at a time and a mistyped member is coerced (a date-only
// string, a numeric string for lat) or reset to its zero value. Only list
// elements that are not objects at all are dropped.
func Validate(raw any, now time.Time) Validated {
	obj, ok := raw.(map[string]any)
	if !ok {
		return defaultDocument(now, "document is not an object")
	}

	list, ok := obj["clients"].([]any)
	if !ok {
		return defaultDocument(now, "clients is missing or not a list")
	}

	res := Validated{
		Document: &models.Document{Clients: make([]models.Contact, 0, len(list))},
		Verdict:  VerdictValid,
	}

	for i, item := range list {
		fields, ok := item.(map[string]any)
		if !ok {
			res.repair("client %d dropped: not an object", i)
			continue
		}
		contact, notes := decodeContact(fields)
		if len(notes) > 0 {
			res.repair("client %d (%s): %s", i, contact.ID, strings.Join(notes, ", "))
		}
		res.Document.Clients = append(res.Document.Clients, contact)
	}

	switch p := obj["profile"].(type) {
	case nil:
	case map[string]any:
		var profile models.Profile
		if notes := decodeFields(p, &profile); len(notes) > 0 {
			res.repair("profile: %s", strings.Join(notes, ", "))
		}
		res.Document.Profile = &profile
	default:
		res.repair("profile is not an object")
	}

	res.Document.LastUpdated = now
	switch ts := obj["lastUpdated"].(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			res.repair("lastUpdated %q is not a timestamp", ts)
		} else {
			res.Document.LastUpdated = parsed
		}
	case nil:
		res.repair("lastUpdated missing")
	default:
		res.repair("lastUpdated is not a string")
	}

	return res
}

func defaultDocument(now time.Time, problem string) Validated {
	return Validated{
		Document: models.NewDocument(now),
		Verdict:  VerdictDefault,
		Problems: []string{problem},
	}
}

func decodeContact(fields map[string]any) (models.Contact, []string) {
	var c models.Contact
	notes := decodeFields(fields, &c)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.Logs == nil {
		c.Logs = []models.LogEntry{}
	}
	return c, notes
}

// Members holding dates or coordinates get a second chance from a string.
var (
	dateFields  = []string{"statusUpdatedAt", "lastContactDate", "nextFollowUpDate", "date"}
	floatFields = []string{"lat", "lng"}
)

// decodeFields fills dst from obj one member at a time so that a single
// mistyped member never costs the whole record. It returns a note for every
// member that had to be coerced or reset.
func decodeFields(obj map[string]any, dst any) []string {
	var notes []string
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		val := obj[key]
		if remarshal(map[string]any{key: val}, dst) == nil {
			continue
		}
		if fixed, ok := coerceField(key, val); ok && remarshal(map[string]any{key: fixed}, dst) == nil {
			notes = append(notes, key+" coerced")
			continue
		}
		_ = remarshal(map[string]any{key: nil}, dst)
		notes = append(notes, key+" reset")
	}
	return notes
}

// coerceField converts a member that failed to decode into a shape its
// field accepts. A nil result with ok=true means "leave it unset".
func coerceField(key string, val any) (any, bool) {
	switch v := val.(type) {
	case string:
		s := strings.TrimSpace(v)
		switch {
		case s == "" && (slices.Contains(dateFields, key) || slices.Contains(floatFields, key)):
			return nil, true
		case slices.Contains(dateFields, key):
			t, err := dateparse.ParseIn(s, time.UTC)
			if err != nil {
				return nil, false
			}
			return t.Format(time.RFC3339Nano), true
		case slices.Contains(floatFields, key):
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, false
			}
			return f, true
		}
	case float64, bool:
		return fmt.Sprint(v), true
	case []any:
		if key == "logs" {
			return coerceLogs(v), true
		}
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch item.(type) {
			case string, float64, bool:
				out = append(out, fmt.Sprint(item))
			}
		}
		return out, true
	}
	return nil, false
}

func coerceLogs(items []any) []models.LogEntry {
	logs := make([]models.LogEntry, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var entry models.LogEntry
		decodeFields(fields, &entry)
		logs = append(logs, entry)
	}
	return logs
}

func remarshal(in any, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
