package domain

import (
	"encoding/json"
	"strings"
)

type Tier string

const (
	TierSpark Tier = "Kiln Spark"
	TierEmber Tier = "Kiln Ember"
	TierForge Tier = "Kiln Forge"
)

// ModeDev marks a license synthesized from the developer key.
const ModeDev = "dev"

// IsFree reports whether the tier is the free plan with daily caps.
func (t Tier) IsFree() bool {
	return t == TierSpark
}

type LicenseKey struct {
	Key string `json:"key"`
}

// License is the single persisted license record. JSON field names match the
// bridge wire shape consumed by existing UI code.
type License struct {
	Success   bool        `json:"success"`
	Dev       bool        `json:"dev,omitempty"`
	Tier      Tier        `json:"tier"`
	VariantID VariantID   `json:"variant_id,omitzero"`
	Mode      string      `json:"mode,omitempty"`
	Message   string      `json:"message,omitempty"`
	RenewsAt  string      `json:"renews_at,omitempty"`
	Key       *LicenseKey `json:"licenseKey,omitempty"`
}

// HasKey reports whether the record carries a usable key.
func (l License) HasKey() bool {
	return l.Key != nil && strings.TrimSpace(l.Key.Key) != ""
}

func (l License) KeyValue() string {
	if l.Key == nil {
		return ""
	}

	return l.Key.Key
}

func (l License) StatusLabel() string {
	if l.Dev {
		return "Developer Mode"
	}
	if strings.TrimSpace(l.Mode) == "" {
		return "Active"
	}

	return l.Mode
}

// MaskKey replaces every character but the last four with '*'.
func MaskKey(key string) string {
	if key == "" {
		return "Hidden"
	}

	runes := []rune(key)
	if len(runes) <= 4 {
		return key
	}

	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}

// VariantID is the plan variant reported by the Worker. It keeps the JSON
// kind it arrived with so the record is re-emitted unchanged.
type VariantID struct {
	Value   string
	Numeric bool
}

func NumberVariant(value string) VariantID {
	return VariantID{Value: value, Numeric: true}
}

func StringVariant(value string) VariantID {
	return VariantID{Value: value}
}

func (v VariantID) IsZero() bool {
	return v.Value == ""
}

func (v VariantID) String() string {
	return v.Value
}

func (v *VariantID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*v = VariantID{}
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringVariant(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = NumberVariant(n.String())

	return nil
}

func (v VariantID) MarshalJSON() ([]byte, error) {
	if v.IsZero() {
		return []byte("null"), nil
	}
	if v.Numeric && json.Valid([]byte(v.Value)) {
		return []byte(v.Value), nil
	}

	return json.Marshal(v.Value)
}
