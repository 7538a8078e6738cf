package jsonl

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fieldhouse/rollcall/internal/model"
	"github.com/fieldhouse/rollcall/internal/source"
)

func open(t *testing.T, body string) source.RecordReader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.jsonl")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}
	r, err := (&Source{cfg: source.Config{Path: path}}).Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestReadRecords(t *testing.T) {
	r := open(t, `{"School_ID":"1","Name":"Lincoln Elementary","lat":41.86,"open":true,"note":null}
`+"\n"+`{"school_id":"20063000001234","name":"Hoover West"}
`)

	first, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if first.Seq != 1 || first.Source != "jsonl" {
		t.Errorf("first = %+v", first)
	}
	want := map[string]string{
		"school_id": "1",
		"name":      "Lincoln Elementary",
		"lat":       "41.86",
		"open":      "true",
		"note":      "",
	}
	for k, v := range want {
		if first.Fields[k] != v {
			t.Errorf("field %s = %q; want %q", k, first.Fields[k], v)
		}
	}

	// Blank lines are not units: the second object is seq 2.
	second, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if second.Seq != 2 {
		t.Errorf("second.Seq = %d; want 2", second.Seq)
	}
	// Large integer ids survive as written.
	if second.Fields["school_id"] != "20063000001234" {
		t.Errorf("school_id = %q", second.Fields["school_id"])
	}

	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("Next at end = %v; want io.EOF", err)
	}
}

func TestBadLineIsMalformed(t *testing.T) {
	r := open(t, `{"school_id":"1"}
not json
{"school_id":"3"}
`)

	if _, err := r.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	_, err := r.Next()
	var malformed *model.MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("bad line error = %v; want MalformedRecordError", err)
	}
	if malformed.Seq != 2 {
		t.Errorf("Seq = %d; want 2", malformed.Seq)
	}

	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next after bad line: %v", err)
	}
	if rec.Seq != 3 {
		t.Errorf("rec.Seq = %d; want 3", rec.Seq)
	}
}

func TestNestedValuesAreDropped(t *testing.T) {
	r := open(t, `{"school_id":"1","address":{"city":"Dubuque"},"tags":["a"]}
`)
	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, ok := rec.Fields["address"]; ok {
		t.Error("nested object survived as a field")
	}
	if _, ok := rec.Fields["tags"]; ok {
		t.Error("array survived as a field")
	}
}

func TestEmptyFileIsEmptyPass(t *testing.T) {
	r := open(t, "")
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next on empty file = %v; want io.EOF", err)
	}
}

func TestMissingFile(t *testing.T) {
	s := &Source{cfg: source.Config{Path: filepath.Join(t.TempDir(), "absent.jsonl")}}
	if _, err := s.Open(context.Background()); !errors.Is(err, model.ErrSourceUnavailable) {
		t.Errorf("Open error = %v; want ErrSourceUnavailable", err)
	}
}

func TestRegistered(t *testing.T) {
	if _, err := source.Get("jsonl"); err != nil {
		t.Fatalf("Get(jsonl): %v", err)
	}
}
