package views

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
)

// SupportedSchemaRange is the manifest schema_version range this client
// can decode. Major bumps upstream change payload shapes, so anything at
// or past 2.0.0 is rejected rather than mis-rendered.
const SupportedSchemaRange = ">= 1.0.0, < 2.0.0"

// ManifestPath is the manifest's location under the content endpoint.
const ManifestPath = "views/manifest.json"

// Manifest is the endpoint's self-description: the schema version its
// payloads conform to and when the pipeline last regenerated them.
type Manifest struct {
	SchemaVersion string    `json:"schema_version"`
	GeneratedAt   time.Time `json:"generated_at"`
	Views         []string  `json:"views,omitempty"`
}

// ErrSchemaIncompatible matches any SchemaError via errors.Is, so
// callers can gate on schema compatibility without unpacking the
// version details.
var ErrSchemaIncompatible = errors.New("manifest schema incompatible")

// SchemaError reports an unusable manifest schema version.
type SchemaError struct {
	Version string
	Reason  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("manifest schema version %q: %s", e.Version, e.Reason)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaIncompatible
}

// ParseManifest decodes a manifest payload and validates its schema
// version against SupportedSchemaRange.
func ParseManifest(raw json.RawMessage) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}

	if m.SchemaVersion == "" {
		return Manifest{}, &SchemaError{Version: "", Reason: "missing"}
	}

	v, err := semver.NewVersion(m.SchemaVersion)
	if err != nil {
		return Manifest{}, &SchemaError{Version: m.SchemaVersion, Reason: "not valid semver"}
	}

	constraint, err := semver.NewConstraint(SupportedSchemaRange)
	if err != nil {
		return Manifest{}, fmt.Errorf("parsing supported range: %w", err)
	}

	if !constraint.Check(v) {
		return Manifest{}, &SchemaError{
			Version: m.SchemaVersion,
			Reason:  fmt.Sprintf("outside supported range %s", SupportedSchemaRange),
		}
	}

	return m, nil
}
