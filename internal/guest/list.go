package guest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

// Ref identifies a guest in a batch request.
type Ref struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url"`
}

//go:embed list.schema.json
var listSchema string

// FieldError is a single schema violation of a guest list document.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a guest list document.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "invalid guest list: " + strings.Join(parts, "; ")
}

// SampleList is written by the create-sample command.
var SampleList = []Ref{
	{Name: "Naval Ravikant", URL: "https://twitter.com/naval"},
	{Name: "Tim Ferriss", URL: "https://twitter.com/tferriss"},
	{Name: "Gary Vaynerchuk", URL: "https://twitter.com/garyvee"},
	{Name: "Seth Godin", URL: "https://twitter.com/ThisIsSethsBlog"},
	{Name: "Reid Hoffman", URL: "https://twitter.com/reidhoffman"},
}

// ParseList validates data against the guest list schema and decodes it.
func ParseList(data []byte) ([]Ref, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(listSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate guest list: %w", err)
	}

	if !result.Valid() {
		verr := &ValidationError{}
		for _, desc := range result.Errors() {
			verr.Errors = append(verr.Errors, FieldError{Field: desc.Field(), Message: desc.Description()})
		}
		return nil, verr
	}

	var refs []Ref
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil, fmt.Errorf("decode guest list: %w", err)
	}
	for i := range refs {
		refs[i].Name = strings.TrimSpace(refs[i].Name)
		refs[i].URL = strings.TrimSpace(refs[i].URL)
	}
	return refs, nil
}

// LoadList reads and validates a guest list file.
func LoadList(path string) ([]Ref, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guest list: %w", err)
	}
	return ParseList(data)
}

// WriteList stores refs as an indented JSON document.
func WriteList(path string, refs []Ref) error {
	data, err := json.MarshalIndent(refs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
