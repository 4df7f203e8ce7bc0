package toml

import "fmt"

const currentSchemaVersion = 1

type licenseFileSchema struct {
	Version     int            `toml:"version"`
	LicenseData *licenseSchema `toml:"licenseData,omitempty"`
}

func (s *licenseFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s licenseFileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported license schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type licenseSchema struct {
	Success   bool   `toml:"success"`
	Dev       bool   `toml:"dev,omitempty"`
	Tier      string `toml:"tier"`
	VariantID string `toml:"variant_id,omitempty"`
	// VariantKind is "number" or "string", the JSON kind variant_id arrived as.
	VariantKind string `toml:"variant_kind,omitempty"`
	Mode        string `toml:"mode,omitempty"`
	Message     string `toml:"message,omitempty"`
	RenewsAt    string `toml:"renews_at,omitempty"`
	// Key is set only when no secret store is configured.
	Key       string `toml:"key,omitempty"`
	SecretRef string `toml:"secret_ref,omitempty"`
}

type settingsFileSchema struct {
	Version int               `toml:"version"`
	Values  map[string]string `toml:"values"`
}

func (s *settingsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.Values == nil {
		s.Values = map[string]string{}
	}
}

func (s settingsFileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported settings schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}
