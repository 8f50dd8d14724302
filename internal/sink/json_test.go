package sink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/clipdex/clipdex/internal/domain"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := New(t.TempDir(), zap.NewNop())

	in := map[string]domain.MetadataRecord{
		"a.mp3": {OriginalTextLength: 120, EmbeddingDimensions: 1536, Fingerprint: "abc", Duration: 33.5},
		"b.mp3": {}, // partially populated records are valid
	}
	if err := store.Save("metadata.json", in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out map[string]domain.MetadataRecord
	if !store.Load("metadata.json", &out) {
		t.Fatal("expected load to succeed")
	}
	if out["a.mp3"] != in["a.mp3"] {
		t.Fatalf("round trip mismatch: %+v != %+v", out["a.mp3"], in["a.mp3"])
	}
	if _, present := out["b.mp3"]; !present {
		t.Fatal("zero-valued record must survive the round trip")
	}
}

func TestSave_PrettyPrinted(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, zap.NewNop())

	if err := store.Save("similarities.json", map[string]float64{"a-b": 0.97}); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "similarities.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n    \"a-b\"") {
		t.Fatalf("expected indented output, got:\n%s", data)
	}
}

func TestSave_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	store := New(dir, zap.NewNop())

	if err := store.Save("metadata.json", map[string]string{}); err != nil {
		t.Fatalf("save into missing dir: %v", err)
	}
}

func TestLoad_MissingFileFallsBack(t *testing.T) {
	store := New(t.TempDir(), zap.NewNop())

	out := map[string]float64{"fallback": 1}
	if store.Load("absent.json", &out) {
		t.Fatal("expected load failure for missing file")
	}
	if out["fallback"] != 1 {
		t.Fatal("fallback value must be untouched")
	}
}

func TestLoad_CorruptFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, zap.NewNop())

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out map[string]float64
	if store.Load("bad.json", &out) {
		t.Fatal("expected load failure for corrupt file")
	}
}
