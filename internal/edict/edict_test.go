package edict

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"golang.org/x/text/encoding/japanese"
)

const sampleDict = `？？？ /EDICT, EDICT_SUB(P)/
日中 [にっちゅう] /(n-adv,n-t) daytime/during the day/
日中 [ひなか] /(n-adv,n-t) daytime/
ボーリング /(n) bowling/

this line is broken
東京 [とうきょう] /(n) Tokyo/
`

// writeEUCJP writes content to a temp file encoded as EUC-JP.
func writeEUCJP(t *testing.T, dir, content string) string {
	t.Helper()

	encoded, err := japanese.EUCJP.NewEncoder().String(content)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	path := filepath.Join(dir, "edict")
	if err := os.WriteFile(path, []byte(encoded), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestParseLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want Entry
	}{
		{
			name: "word with reading",
			line: "日中 [にっちゅう] /(n-adv,n-t) daytime/during the day/",
			want: Entry{Word: "日中", Reading: "にっちゅう", Gloss: "(n-adv,n-t) daytime/during the day/"},
		},
		{
			name: "loan word",
			line: "ボーリング /(n) bowling/",
			want: Entry{Word: "ボーリング", Reading: "ボーリング", Gloss: "(n) bowling/"},
		},
		{
			name: "line terminator stripped",
			line: "東京 [とうきょう] /(n) Tokyo/\r\n",
			want: Entry{Word: "東京", Reading: "とうきょう", Gloss: "(n) Tokyo/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLine(1, tt.line)
			if err != nil {
				t.Fatalf("ParseLine() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLine() = %+v, want %+v", got, tt.want)
			}
		})
	}

	t.Run("unparseable line", func(t *testing.T) {
		t.Parallel()

		_, err := ParseLine(7, "no gloss here")
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("expected *ParseError, got %v", err)
		}
		if perr.Line != 7 || perr.Text != "no gloss here" {
			t.Errorf("ParseError = %+v", perr)
		}
		if !strings.Contains(perr.Error(), "line 7") {
			t.Errorf("Error() = %q", perr.Error())
		}
	})
}

func TestEntry_String(t *testing.T) {
	t.Parallel()

	e := Entry{Word: "日中", Reading: "にっちゅう", Gloss: "daytime/"}
	if got := e.String(); got != "日中 = にっちゅう daytime/" {
		t.Errorf("String() = %q", got)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	entries, err := Parse(context.Background(), strings.NewReader(sampleDict), logger)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d: %v", len(entries), entries)
	}
	if entries[1].Reading != "にっちゅう" || entries[2].Reading != "ひなか" {
		t.Errorf("entries out of file order: %v", entries)
	}
	if !strings.Contains(logs.String(), "skipping dictionary line") {
		t.Errorf("expected a warning for the broken line, logs: %s", logs.String())
	}
	if strings.Count(logs.String(), "skipping dictionary line") != 1 {
		t.Errorf("blank lines must not be reported, logs: %s", logs.String())
	}
}

func TestParse_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	long := strings.Repeat("東京 [とうきょう] /(n) Tokyo/\n", 5000)
	if _, err := Parse(ctx, strings.NewReader(long), discardLogger()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFileLoader(t *testing.T) {
	t.Parallel()

	t.Run("decodes EUC-JP", func(t *testing.T) {
		t.Parallel()

		path := writeEUCJP(t, t.TempDir(), sampleDict)
		entries, err := NewFileLoader(path, discardLogger()).Load(context.Background())
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(entries) != 5 {
			t.Fatalf("expected 5 entries, got %d", len(entries))
		}
		if entries[4].Word != "東京" {
			t.Errorf("expected 東京, got %q", entries[4].Word)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := NewFileLoader(filepath.Join(t.TempDir(), "nope"), nil).Load(context.Background())
		if !errors.Is(err, ErrNoDictionary) {
			t.Errorf("expected ErrNoDictionary, got %v", err)
		}
	})
}

func TestIndex_LoadOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	loader := LoaderFunc(func(ctx context.Context) ([]Entry, error) {
		calls.Add(1)
		return Parse(ctx, strings.NewReader(sampleDict), discardLogger())
	})

	idx := NewIndex(loader, WithLogger(discardLogger()))
	if idx.Loaded() {
		t.Fatal("index must not be loaded before Load")
	}
	if got := idx.Find("日中"); len(got) != 0 {
		t.Errorf("Find before Load = %v, want empty", got)
	}

	if err := idx.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	first := idx.Find("日中")

	if err := idx.Load(context.Background()); err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	second := idx.Find("日中")

	if calls.Load() != 1 {
		t.Errorf("loader called %d times, want 1", calls.Load())
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 matches, got %v and %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("match %d differs: %v vs %v", i, first[i], second[i])
		}
	}
	if first[0].Reading != "にっちゅう" {
		t.Errorf("first match = %q, want file order", first[0].Reading)
	}
	if idx.Len() != 5 {
		t.Errorf("Len() = %d, want 5", idx.Len())
	}
}

func TestIndex_Find(t *testing.T) {
	t.Parallel()

	idx := NewIndexFromEntries([]Entry{
		{Word: "日中", Reading: "にっちゅう"},
		{Word: "東京", Reading: "とうきょう"},
		{Word: "日中", Reading: "ひなか"},
	})

	tests := []struct {
		word string
		want []string
	}{
		{word: "日中", want: []string{"にっちゅう", "ひなか"}},
		{word: "東京", want: []string{"とうきょう"}},
		{word: "大阪", want: nil},
		{word: "日", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			t.Parallel()

			got := idx.Find(tt.word)
			if len(got) != len(tt.want) {
				t.Fatalf("Find(%q) = %v, want readings %v", tt.word, got, tt.want)
			}
			for i := range got {
				if got[i].Reading != tt.want[i] {
					t.Errorf("Find(%q)[%d] = %q, want %q", tt.word, i, got[i].Reading, tt.want[i])
				}
			}
		})
	}

	t.Run("results are copies", func(t *testing.T) {
		t.Parallel()

		local := NewIndexFromEntries([]Entry{{Word: "猫", Reading: "ねこ"}})
		got := local.Find("猫")
		got[0].Reading = "いぬ"
		if local.Find("猫")[0].Reading != "ねこ" {
			t.Error("Find must not expose index storage")
		}
	})
}

func TestIndex_LoadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var calls int
	idx := NewIndex(LoaderFunc(func(context.Context) ([]Entry, error) {
		calls++
		return nil, boom
	}), WithLogger(discardLogger()))

	for range 2 {
		if err := idx.Load(context.Background()); !errors.Is(err, boom) {
			t.Errorf("Load() error = %v, want %v", err, boom)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
	if idx.Loaded() {
		t.Error("failed index must not report Loaded")
	}

	if err := NewIndex(nil).Load(context.Background()); !errors.Is(err, ErrNoDictionary) {
		t.Errorf("nil loader error = %v, want ErrNoDictionary", err)
	}
}

func TestFileDigest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	if err := os.WriteFile(a, []byte("one"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("two"), 0600); err != nil {
		t.Fatal(err)
	}

	da, err := FileDigest(a)
	if err != nil {
		t.Fatalf("FileDigest() error = %v", err)
	}
	db, err := FileDigest(b)
	if err != nil {
		t.Fatalf("FileDigest() error = %v", err)
	}
	if len(da) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(da))
	}
	if da == db {
		t.Error("different content produced the same digest")
	}
	again, _ := FileDigest(a)
	if again != da {
		t.Error("digest is not stable")
	}
}
