package parser

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/fwf/pkg/query"
	"github.com/ccollicutt/fwf/pkg/record"
)

func countryVariant() *record.Variant {
	return &record.Variant{
		Name:   "country",
		Fields: record.MustFieldMap(record.F("country", 0, 2), record.F("id", 2, 5), record.F("name", 5, 12)),
		PreParse: func(line string) (string, bool, error) {
			return line, strings.HasPrefix(line, "US"), nil
		},
	}
}

func TestLoad_PreParseSkip(t *testing.T) {
	file, err := Load(context.Background(), strings.NewReader("US001\nBR002\n"), countryVariant())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if file.Count() != 1 {
		t.Errorf("Count() = %d, want 1", file.Count())
	}
	if file.Skipped() != 1 || file.LinesRead() != 2 {
		t.Errorf("Skipped() = %d, LinesRead() = %d, want 1 and 2", file.Skipped(), file.LinesRead())
	}
}

func TestLoad_LineNumbersCountSkippedLines(t *testing.T) {
	input := "BR000\nUS001 Alice\nBR002\nBR003\nUS004 Bob\n"
	file, err := Load(context.Background(), strings.NewReader(input), countryVariant())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []int{2, 5}
	recs := file.All().Records()
	if len(recs) != len(want) {
		t.Fatalf("got %d records, want %d", len(recs), len(want))
	}
	for i, rec := range recs {
		if rec.LineNumber() != want[i] {
			t.Errorf("record %d LineNumber() = %d, want %d", i, rec.LineNumber(), want[i])
		}
	}
	name, _ := recs[1].Get("name")
	if name.String() != " Bob" {
		t.Errorf("name = %q, want %q", name.String(), " Bob")
	}
}

func TestLoad_KeepsBlankLinesAndCRLF(t *testing.T) {
	v := &record.Variant{Fields: record.MustFieldMap(record.F("a", 0, 3))}
	file, err := Load(context.Background(), strings.NewReader("abc\r\n\r\nxy\r\n"), v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	vl, err := file.Values("a")
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	got := vl.Scalars()
	if len(got) != 3 || got[0].String() != "abc" || got[1].String() != "" || got[2].String() != "xy" {
		t.Errorf("Values(a) = %v, want [abc  xy]", vl.Strings())
	}
}

func TestLoad_NilVariantIsPassThrough(t *testing.T) {
	file, err := Load(context.Background(), strings.NewReader("one\ntwo\n"), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if file.Count() != 2 {
		t.Errorf("Count() = %d, want 2", file.Count())
	}
	if file.Variant().Name != "base" {
		t.Errorf("Variant().Name = %q, want base", file.Variant().Name)
	}
	rec, _ := file.At(0)
	if rec.Line() != "one" || rec.Len() != 0 {
		t.Errorf("At(0) = %q with %d fields", rec.Line(), rec.Len())
	}
}

func TestLoad_HookErrorAbortsLoad(t *testing.T) {
	boom := errors.New("bad data")
	v := &record.Variant{
		Fields: record.MustFieldMap(record.F("a", 0, 1)),
		PostParse: func(f *record.Fields) (bool, error) {
			if f.Text("a") == "x" {
				return false, boom
			}
			return true, nil
		},
	}
	_, err := Load(context.Background(), strings.NewReader("a\nb\nx\nc\n"), v, WithSource("test.txt"))
	if !errors.Is(err, boom) {
		t.Fatalf("Load() error = %v, want %v", err, boom)
	}
	if !strings.Contains(err.Error(), "test.txt: line 3") {
		t.Errorf("Load() error = %q, want source and line number", err)
	}
}

func TestLoad_LineTooLong(t *testing.T) {
	long := strings.Repeat("x", 200)
	_, err := Load(context.Background(), strings.NewReader(long+"\n"), nil, WithMaxLineSize(100))
	if err == nil {
		t.Error("Load() expected error for line over max size")
	}
}

func TestLoad_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, strings.NewReader("a\n"), nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoad_LogsSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Load(context.Background(), strings.NewReader("US001\nBR002\n"), countryVariant(),
		WithLogger(logger), WithSource("people.txt"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "line skipped") || !strings.Contains(out, "line=2") {
		t.Errorf("log missing skipped line: %s", out)
	}
	if !strings.Contains(out, "file loaded") || !strings.Contains(out, "records=1") {
		t.Errorf("log missing summary: %s", out)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("US001\nUS002\nBR003\n"), 0644); err != nil {
		t.Fatal(err)
	}

	file, err := Open(context.Background(), path, countryVariant())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if file.Source() != path {
		t.Errorf("Source() = %q, want %q", file.Source(), path)
	}
	if file.Count() != 2 {
		t.Errorf("Count() = %d, want 2", file.Count())
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open() error = %v, want os.ErrNotExist", err)
	}
}

func TestFile_QuerySurface(t *testing.T) {
	v := &record.Variant{Fields: record.MustFieldMap(record.F("country", 0, 2), record.F("id", 2, 5))}
	file, err := Load(context.Background(), strings.NewReader("US003\nBR001\nUS002\n"), v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	us, err := file.Filter(query.Lookups{"country": record.String("US")})
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if us.Count() != 2 {
		t.Errorf("Filter().Count() = %d, want 2", us.Count())
	}

	notUS, err := file.Exclude(query.Lookups{"country": record.String("US")})
	if err != nil {
		t.Fatalf("Exclude() error = %v", err)
	}
	if notUS.Count() != 1 {
		t.Errorf("Exclude().Count() = %d, want 1", notUS.Count())
	}

	ordered, err := file.OrderBy("id", false)
	if err != nil {
		t.Fatalf("OrderBy() error = %v", err)
	}
	first, _ := ordered.At(0)
	if first.LineNumber() != 2 {
		t.Errorf("OrderBy(id).At(0).LineNumber() = %d, want 2", first.LineNumber())
	}

	countries, err := file.Unique("country")
	if err != nil {
		t.Fatalf("Unique() error = %v", err)
	}
	if countries.Len() != 2 {
		t.Errorf("Unique().Len() = %d, want 2", countries.Len())
	}

	if file.Slice(1, 3).Count() != 2 {
		t.Errorf("Slice(1, 3).Count() = %d, want 2", file.Slice(1, 3).Count())
	}
	if file.All().Count() != 3 {
		t.Errorf("All().Count() = %d, want 3", file.All().Count())
	}
}

func TestFile_EmptyProjectionUsesVariantHeaders(t *testing.T) {
	file, err := Load(context.Background(), strings.NewReader("BR001\n"), countryVariant())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	vl, err := file.Values()
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	if strings.Join(vl.Headers(), ",") != "country,id,name" {
		t.Errorf("Headers() = %v, want variant fields", vl.Headers())
	}
}

func TestConcat(t *testing.T) {
	a, _ := Load(context.Background(), strings.NewReader("US001\n"), countryVariant())
	b, _ := Load(context.Background(), strings.NewReader("US002\nUS003\n"), countryVariant())
	if got := Concat(a, b).Count(); got != 3 {
		t.Errorf("Concat().Count() = %d, want 3", got)
	}
}
