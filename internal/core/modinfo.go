package core

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/titanous/json5"
)

// ModInfoEntry is the metadata file looked up inside each mod archive
const ModInfoEntry = "modinfo.json"

// Accepted key spellings per field, checked in order; the first present key wins.
var (
	modIDKeys       = []string{"modid", "ModID", "modId", "mod_id"}
	nameKeys        = []string{"name", "Name"}
	descriptionKeys = []string{"description", "Description"}
	versionKeys     = []string{"version", "Version"}
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// modMetadata holds the recognised fields of a modinfo.json document
type modMetadata struct {
	ModID       string
	Name        string
	Description string
	Version     string
}

// decodeModInfo parses a relaxed JSON (JSON5) modinfo document.
// name and version are required; modid and description default to "".
func decodeModInfo(data []byte) (*modMetadata, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var raw map[string]interface{}
	if err := json5.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing json5: %w", err)
	}
	if raw == nil {
		return nil, errors.New("document is not an object")
	}

	var (
		meta modMetadata
		err  error
	)

	if meta.ModID, _, err = lookupString(raw, modIDKeys); err != nil {
		return nil, err
	}
	if meta.Description, _, err = lookupString(raw, descriptionKeys); err != nil {
		return nil, err
	}

	var found bool
	if meta.Name, found, err = lookupString(raw, nameKeys); err != nil {
		return nil, err
	} else if !found {
		return nil, fmt.Errorf("missing field %q", nameKeys[0])
	}
	if meta.Version, found, err = lookupString(raw, versionKeys); err != nil {
		return nil, err
	} else if !found {
		return nil, fmt.Errorf("missing field %q", versionKeys[0])
	}

	return &meta, nil
}

// lookupString returns the value of the first key in keys present in raw.
// A present key holding a non-string value is an error.
func lookupString(raw map[string]interface{}, keys []string) (string, bool, error) {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return "", true, fmt.Errorf("field %q: expected string, got %T", key, v)
		}
		return s, true, nil
	}
	return "", false, nil
}
