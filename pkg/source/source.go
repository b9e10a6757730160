// Package source reads and writes family records.
//
// Records come from files in one of three encodings, detected by extension:
//
//	.json          JSON (the canonical format)
//	.yaml, .yml    YAML
//	.toml          TOML
//
// All encodings share the field names of family.Records:
//
//	{
//	  "persons": [
//	    {"id": 1, "name": "A", "sex": "m"},
//	    {"id": 2, "name": "B", "sex": "f", "parent": 1}
//	  ],
//	  "relationships": [
//	    {"id": 1, "partner": 1, "name": "S", "sex": "f", "children": [2], "since": "2010-09-20"}
//	  ]
//	}
//
// Database-backed records live in the subpackages sqlite and mongo.
//
// Decoding only checks syntax. Structural checks happen in family.Records.Validate
// and tree.Build.
package source

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/family"
)

// Format is a record encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ValidFormats lists every supported encoding.
var ValidFormats = map[Format]bool{
	FormatJSON: true,
	FormatYAML: true,
	FormatTOML: true,
}

// FormatFromPath returns the encoding for a file name's extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported records file %q (want .json, .yaml or .toml)", filepath.Base(path))
}

// Decode reads records in the given encoding from r.
func Decode(r io.Reader, format Format) (family.Records, error) {
	var recs family.Records
	var err error

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&recs)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&recs)
		if err == io.EOF {
			err = nil
		}
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&recs)
	default:
		return family.Records{}, errors.New(errors.ErrCodeInvalidFormat, "unknown records format %q", format)
	}

	if err != nil {
		return family.Records{}, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode %s records", format)
	}
	return recs, nil
}

// Encode writes records in the given encoding to w.
func Encode(w io.Writer, recs family.Records, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(recs)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown records format %q", format)
}

// Unmarshal decodes records from a byte slice.
func Unmarshal(data []byte, format Format) (family.Records, error) {
	return Decode(bytes.NewReader(data), format)
}

// ReadFile reads records from path, choosing the decoder by extension.
func ReadFile(path string) (family.Records, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return family.Records{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return family.Records{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "records file %s", path)
		}
		return family.Records{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	return Decode(f, format)
}

// WriteFile writes records to path, choosing the encoder by extension.
func WriteFile(path string, recs family.Records) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, recs, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
