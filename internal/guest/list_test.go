package guest

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestParseList(t *testing.T) {
	refs, err := ParseList([]byte(`[{"name":" Jane ","url":"https://x.com/jane"},{"name":"Bob"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 || refs[0].Name != "Jane" || refs[1].URL != "" {
		t.Fatalf("unexpected refs: %+v", refs)
	}
}

func TestParseListInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "object instead of list", data: `{"name":"Jane"}`},
		{name: "missing name", data: `[{"url":"https://x.com/jane"}]`},
		{name: "empty name", data: `[{"name":""}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseList([]byte(tt.data))
			var verr *ValidationError
			if !errors.As(err, &verr) || len(verr.Errors) == 0 {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if _, err := ParseList([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed document")
	}
}

func TestWriteAndLoadList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guests.json")
	if err := WriteList(path, SampleList); err != nil {
		t.Fatalf("write list: %v", err)
	}

	refs, err := LoadList(path)
	if err != nil {
		t.Fatalf("load list: %v", err)
	}
	if len(refs) != len(SampleList) || refs[0] != SampleList[0] {
		t.Fatalf("round trip mismatch: %+v", refs)
	}
}
