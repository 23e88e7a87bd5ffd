// Package savegame turns the state tree into a persisted blob and back,
// upgrading saves written by older builds along the way.
package savegame

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/talgya/tramp-freighter/internal/balance"
	"github.com/talgya/tramp-freighter/internal/galaxy"
	"github.com/talgya/tramp-freighter/internal/model"
)

var (
	ErrCorrupt             = errors.New("corrupt save")
	ErrIncompatibleVersion = errors.New("incompatible save version")
	ErrInvalid             = errors.New("invalid save")
)

//go:embed save.schema.json
var schemaText string

var saveSchema = jsonschema.MustCompileString("save.schema.json", schemaText)

// Serialize encodes the state tree as JSON.
func Serialize(s *model.State) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("serialize: %w", err)
	}
	return string(b), nil
}

// Deserialize decodes a current-format blob. It returns nil instead of an
// error when the blob is not a JSON state tree or carries no meta version.
func Deserialize(blob string) *model.State {
	var s model.State
	if err := json.Unmarshal([]byte(blob), &s); err != nil {
		return nil
	}
	if s.Meta.Version == "" {
		return nil
	}
	return &s
}

// Load runs the full pipeline: parse, version check, migration, schema check,
// decode, defaults and structural validation. Any failure means the save must
// be treated as absent; nothing is partially trusted.
func Load(blob string, catalog *galaxy.Catalog, t balance.Tuning) (*model.State, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	version := VersionOf(raw)
	if !IsVersionCompatible(version) {
		return nil, fmt.Errorf("%w: %q", ErrIncompatibleVersion, version)
	}

	migrated, err := Migrate(raw)
	if err != nil {
		return nil, err
	}
	if err := saveSchema.Validate(migrated); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	b, err := json.Marshal(migrated)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	st := Deserialize(string(b))
	if st == nil {
		return nil, fmt.Errorf("%w: state does not decode", ErrCorrupt)
	}

	AddStateDefaults(st, t)
	if err := Validate(st, catalog, t); err != nil {
		return nil, err
	}
	return st, nil
}
