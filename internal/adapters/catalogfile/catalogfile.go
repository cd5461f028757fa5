package catalogfile

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/oni-calculator/internal/domain/production"
	"github.com/andrescamacho/oni-calculator/internal/infrastructure/validation"
)

//go:embed sample.yaml
var sampleYAML []byte

var documentValidator = validation.New("catalog document")

// Decode parses and validates a YAML catalog document.
// Unknown keys are rejected so typos do not silently drop data.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("catalog document is empty")
		}
		return nil, fmt.Errorf("failed to parse catalog document: %w", err)
	}

	if err := Validate(&doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Validate checks struct constraints and that building ids are unique
func Validate(doc *Document) error {
	if err := documentValidator.Struct(doc); err != nil {
		return err
	}

	ids := make([]string, 0, len(doc.Buildings))
	for _, b := range doc.Buildings {
		ids = append(ids, b.ID)
	}
	return documentValidator.Unique("building id", ids)
}

// Encode writes a document as YAML
func Encode(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode catalog document: %w", err)
	}
	return enc.Close()
}

// Load reads a catalog snapshot from a YAML file
func Load(path string) (*production.CatalogSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc.ToSnapshot(), nil
}

// Save writes a catalog snapshot to a YAML file
func Save(path string, snapshot *production.CatalogSnapshot) error {
	var buf bytes.Buffer
	if err := Encode(&buf, FromSnapshot(snapshot)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

// Sample returns the built-in sample catalog of seven buildings
func Sample() (*production.CatalogSnapshot, error) {
	doc, err := Decode(bytes.NewReader(sampleYAML))
	if err != nil {
		return nil, fmt.Errorf("sample catalog: %w", err)
	}
	return doc.ToSnapshot(), nil
}
