package csvfile

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

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func open(t *testing.T, cfg source.Config) source.RecordReader {
	t.Helper()
	r, err := (&Source{cfg: cfg}).Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestReadRecords(t *testing.T) {
	path := writeFile(t, "schools.csv", ""+
		"School_ID, Name ,city\n"+
		"1,Lincoln Elementary,Dubuque\n"+
		"2,\"Hoover, West\",Waterloo\n")

	r := open(t, source.Config{Path: path})

	first, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if first.Seq != 1 || first.Source != "csv" {
		t.Errorf("first = %+v; want seq 1 from csv", first)
	}
	// Header names come back trimmed and lower-cased.
	if first.Fields["school_id"] != "1" || first.Fields["name"] != "Lincoln Elementary" {
		t.Errorf("fields = %v", first.Fields)
	}

	second, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if second.Fields["name"] != "Hoover, West" {
		t.Errorf("quoted field = %q", second.Fields["name"])
	}

	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("Next after last row = %v; want io.EOF", err)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("Next stays io.EOF, got %v", err)
	}
}

func TestShortRowIsMalformed(t *testing.T) {
	path := writeFile(t, "schools.csv", ""+
		"school_id,name,city\n"+
		"1,Lincoln Elementary\n"+
		"2,Hoover West,Waterloo\n")

	r := open(t, source.Config{Path: path})

	_, err := r.Next()
	var malformed *model.MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("short row error = %v; want MalformedRecordError", err)
	}
	if malformed.Seq != 1 {
		t.Errorf("Seq = %d; want 1", malformed.Seq)
	}

	// The reader keeps going after a bad row.
	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next after bad row: %v", err)
	}
	if rec.Seq != 2 || rec.Fields["city"] != "Waterloo" {
		t.Errorf("rec = %+v", rec)
	}
}

func TestTabDelimiter(t *testing.T) {
	path := writeFile(t, "schools.tsv", "school_id\tname\n1\tLincoln Elementary\n")
	r := open(t, source.Config{Path: path, Extra: map[string]string{"delimiter": "tab"}})

	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.Fields["name"] != "Lincoln Elementary" {
		t.Errorf("fields = %v", rec.Fields)
	}
}

func TestOpenFailures(t *testing.T) {
	tests := []struct {
		name string
		cfg  source.Config
	}{
		{"missing file", source.Config{Path: filepath.Join(t.TempDir(), "absent.csv")}},
		{"empty file", source.Config{Path: writeFile(t, "empty.csv", "")}},
		{"unknown delimiter", source.Config{
			Path:  writeFile(t, "ok.csv", "a\n1\n"),
			Extra: map[string]string{"delimiter": "colon"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Source{cfg: tt.cfg}).Open(context.Background())
			if !errors.Is(err, model.ErrSourceUnavailable) {
				t.Errorf("Open error = %v; want ErrSourceUnavailable", err)
			}
		})
	}
}

func TestNextHonorsContext(t *testing.T) {
	path := writeFile(t, "schools.csv", "school_id\n1\n2\n")
	ctx, cancel := context.WithCancel(context.Background())
	r, err := (&Source{cfg: source.Config{Path: path}}).Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	cancel()
	if _, err := r.Next(); !errors.Is(err, context.Canceled) {
		t.Errorf("Next after cancel = %v; want context.Canceled", err)
	}
}

func TestRegistered(t *testing.T) {
	ctor, err := source.Get("csv")
	if err != nil {
		t.Fatalf("Get(csv): %v", err)
	}
	if ctor(source.Config{}) == nil {
		t.Fatal("constructor returned nil")
	}
}
