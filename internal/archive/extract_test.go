package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"postflow/internal/logging"
)

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	w := zip.NewWriter(f)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip entry: %v", err)
		}
		if _, err := entry.Write([]byte(entries[name])); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file close: %v", err)
	}
}

func TestExtractFlattensZipEntries(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "show.zip"), map[string]string{
		"Show.S01E01/Show.S01E01.mkv": "video",
		"Show.S01E01/Subs/":           "",
		"Show.S01E01/Subs/en.srt":     "subs",
	})

	outcomes := NewExtractor(logging.NewNop()).Extract(context.Background(), dir, []string{"show.zip"}, nil)
	if len(outcomes) != 1 {
		t.Fatalf("expected one outcome, got %d", len(outcomes))
	}
	out := outcomes[0]
	if out.Failed() || out.Skipped {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if !slices.Equal(out.Produced, []string{"Show.S01E01.mkv", "en.srt"}) {
		t.Fatalf("unexpected produced %v", out.Produced)
	}
	for _, name := range out.Produced {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s extracted: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "Show.S01E01")); !os.IsNotExist(err) {
		t.Fatal("archive subpaths must not be recreated")
	}
}

func TestExtractNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "show.zip"), map[string]string{"Show.S01E01.mkv": "fresh"})
	existing := filepath.Join(dir, "Show.S01E01.mkv")
	if err := os.WriteFile(existing, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	outcomes := NewExtractor(nil).Extract(context.Background(), dir, []string{"show.zip"}, nil)
	if outcomes[0].Failed() {
		t.Fatalf("unexpected failure %v", outcomes[0].Failure)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "original" {
		t.Fatalf("existing file overwritten: %q", data)
	}
}

func TestExtractSkipStillReportsEntries(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "show.zip"), map[string]string{
		"a.mkv": "a",
		"b.nfo": "b",
	})

	var asked []string
	skip := func(entry string) bool {
		asked = append(asked, entry)
		return entry == "a.mkv"
	}
	outcomes := NewExtractor(nil).Extract(context.Background(), dir, []string{"show.zip"}, skip)
	out := outcomes[0]
	if !out.Skipped {
		t.Fatal("expected extraction to be skipped")
	}
	if !slices.Equal(out.Produced, []string{"a.mkv", "b.nfo"}) {
		t.Fatalf("expected all entries reported, got %v", out.Produced)
	}
	if !slices.Equal(asked, []string{"a.mkv"}) {
		t.Fatalf("first match should stop the scan, asked %v", asked)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.mkv")); !os.IsNotExist(err) {
		t.Fatal("skipped archive must not be extracted")
	}
}

func TestExtractContinuesAfterBrokenArchive(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.rar"), []byte("definitely not a rar archive"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.zip"), []byte("nor a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeZip(t, filepath.Join(dir, "good.zip"), map[string]string{"good.mkv": "ok"})

	outcomes := NewExtractor(nil).Extract(context.Background(), dir,
		[]string{"broken.rar", "broken.zip", "good.zip"}, nil)
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if !outcomes[0].Failed() || !outcomes[1].Failed() {
		t.Fatalf("expected broken archives to fail: %+v %+v", outcomes[0], outcomes[1])
	}
	if outcomes[1].Failure.Kind != InvalidArchive {
		t.Fatalf("expected invalid archive for corrupt zip, got %s", outcomes[1].Failure.Kind)
	}
	if outcomes[2].Failed() || !slices.Equal(outcomes[2].Produced, []string{"good.mkv"}) {
		t.Fatalf("good archive should extract: %+v", outcomes[2])
	}
}

func TestExtractMissingArchive(t *testing.T) {
	dir := t.TempDir()
	outcomes := NewExtractor(nil).Extract(context.Background(), dir, []string{"missing.zip"}, nil)
	if !outcomes[0].Failed() || outcomes[0].Failure.Kind != FileOpenError {
		t.Fatalf("expected file open error, got %+v", outcomes[0].Failure)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"zip format", zip.ErrFormat, InvalidArchive},
		{"zip checksum", zip.ErrChecksum, ArchiveHeaderBroken},
		{"path", &os.PathError{Op: "open", Path: "/x.rar", Err: os.ErrPermission}, FileOpenError},
		{"signature", errors.New("rardecode: RAR signature not found"), InvalidArchive},
		{"version", errors.New("rardecode: unknown archive version"), InvalidArchive},
		{"password", errors.New("rardecode: incorrect password"), IncorrectPassword},
		{"encrypted", errors.New("rardecode: archive encrypted, password required"), IncorrectPassword},
		{"header", errors.New("rardecode: corrupt block header"), ArchiveHeaderBroken},
		{"crc", errors.New("rardecode: bad header crc"), ArchiveHeaderBroken},
		{"volume", errors.New("rardecode: archive continues in next volume"), InvalidUsage},
		{"wrapped", fmt.Errorf("list: %w", errors.New("bad header crc")), ArchiveHeaderBroken},
		{"other", errors.New("decoder exploded"), Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err).Kind; got != tt.want {
				t.Fatalf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestFailureMessages(t *testing.T) {
	unknown := Classify(errors.New("decoder exploded"))
	if unknown.Detail() != "decoder exploded" {
		t.Fatalf("unknown detail should carry reason, got %q", unknown.Detail())
	}
	if unknown.Message() != "Unpacking failed for an unknown reason" {
		t.Fatalf("unexpected message %q", unknown.Message())
	}
	broken := Failure{Kind: ArchiveHeaderBroken}
	if broken.Message() != "Unpacking failed because the Archive Header is Broken" {
		t.Fatalf("unexpected message %q", broken.Message())
	}
}
