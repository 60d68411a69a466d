package script

import (
	"slices"
	"testing"
)

// TestHiraganaBlock checks every code point of the hiragana block.
func TestHiraganaBlock(t *testing.T) {
	t.Parallel()

	for r := rune(0x3040); r <= 0x309F; r++ {
		if !IsHiragana(r) {
			t.Errorf("U+%04X: expected hiragana", r)
		}
		if IsKatakana(r) {
			t.Errorf("U+%04X: expected not katakana", r)
		}
		if IsKanji(r) {
			t.Errorf("U+%04X: expected not kanji", r)
		}
		if !IsCJK(r) {
			t.Errorf("U+%04X: expected CJK", r)
		}
	}
}

// TestKatakanaBlock checks every code point of the katakana block.
func TestKatakanaBlock(t *testing.T) {
	t.Parallel()

	for r := rune(0x30A0); r <= 0x30FF; r++ {
		if !IsKatakana(r) {
			t.Errorf("U+%04X: expected katakana", r)
		}
		if IsHiragana(r) {
			t.Errorf("U+%04X: expected not hiragana", r)
		}
		if IsKanji(r) {
			t.Errorf("U+%04X: expected not kanji", r)
		}
		if !IsCJK(r) {
			t.Errorf("U+%04X: expected CJK", r)
		}
	}
}

// TestClassify tests single-rune classification.
func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r    rune
		want Class
	}{
		{name: "hiragana a", r: 'あ', want: Hiragana},
		{name: "katakana bo", r: 'ボ', want: Katakana},
		{name: "prolonged sound mark", r: 'ー', want: Katakana},
		{name: "unified ideograph", r: '日', want: Kanji},
		{name: "extension A", r: 0x3400, want: Kanji},
		{name: "extension B", r: 0x20000, want: Kanji},
		{name: "compatibility ideograph", r: 0xF900, want: Kanji},
		{name: "radical supplement", r: 0x2E80, want: Kanji},
		{name: "uppercase A", r: 'A', want: Latin},
		{name: "uppercase Z", r: 'Z', want: Latin},
		{name: "lowercase a", r: 'a', want: Latin},
		{name: "lowercase z", r: 'z', want: Latin},
		{name: "digit", r: '3', want: Other},
		{name: "accented latin", r: 'é', want: Other},
		{name: "space", r: ' ', want: Other},
		{name: "ideographic full stop", r: '。', want: Other},
		{name: "fullwidth latin", r: 'Ａ', want: Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.r); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

// TestClassString tests set rendering.
func TestClassString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		c    Class
		want string
	}{
		{Other, "{}"},
		{Latin, "{latin}"},
		{Hiragana | Kanji, "{hiragana,kanji}"},
		{CJK | Latin, "{hiragana,katakana,kanji,latin}"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.c.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestClassSetOperations tests Has, Any and SubsetOf.
func TestClassSetOperations(t *testing.T) {
	t.Parallel()

	t.Run("empty class is a subset of latin", func(t *testing.T) {
		t.Parallel()
		if !Other.SubsetOf(Latin) {
			t.Error("expected empty class to be a subset")
		}
	})

	t.Run("latin is a subset of latin", func(t *testing.T) {
		t.Parallel()
		if !Latin.SubsetOf(Latin) {
			t.Error("expected latin to be a subset of itself")
		}
	})

	t.Run("latin and katakana is not a subset of latin", func(t *testing.T) {
		t.Parallel()
		if (Latin | Katakana).SubsetOf(Latin) {
			t.Error("expected mixed class not to be a subset")
		}
	})

	t.Run("any detects shared category", func(t *testing.T) {
		t.Parallel()
		if !(Hiragana | Kanji).Any(Kanji) {
			t.Error("expected kanji to be found")
		}
		if (Hiragana | Katakana).Any(Kanji) {
			t.Error("expected no kanji")
		}
	})

	t.Run("has requires every category", func(t *testing.T) {
		t.Parallel()
		if (Hiragana).Has(CJK) {
			t.Error("hiragana alone does not have all CJK categories")
		}
		if !CJK.Has(Katakana) {
			t.Error("CJK has katakana")
		}
	})
}

// TestProfile tests hint profiling.
func TestProfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hint string
		want Class
	}{
		{name: "initialism", hint: "WWW", want: Latin},
		{name: "katakana loanword", hint: "ボーリング", want: Katakana},
		{name: "kanji compound", hint: "日中", want: Kanji},
		{name: "kanji with okurigana", hint: "説明する", want: Kanji | Hiragana},
		{name: "punctuation is ignored", hint: "（ボーリング）！", want: Katakana},
		{name: "spaces are ignored", hint: "T シャツ", want: Latin | Katakana},
		{name: "digits contribute nothing", hint: "123", want: Other},
		{name: "empty", hint: "", want: Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Profile(tt.hint); got != tt.want {
				t.Errorf("Profile(%q) = %v, want %v", tt.hint, got, tt.want)
			}
		})
	}
}

// TestContainsLatin tests suspicious-output detection.
func TestContainsLatin(t *testing.T) {
	t.Parallel()

	if ContainsLatin("にっちゅう") {
		t.Error("pure hiragana must not contain latin")
	}
	if !ContainsLatin("にっちゅl") {
		t.Error("expected latin to be detected")
	}
	if ContainsLatin("せつめい(する)") {
		t.Error("parentheses are not latin")
	}
}

// TestCJKRuns tests CJK run segmentation.
func TestCJKRuns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "mixed text", text: "sdf344asfasf天地方益3権sdfsdf", want: []string{"天地方益", "権"}},
		{name: "run at end", text: "this is ボーリング", want: []string{"ボーリング"}},
		{name: "whole string", text: "日中", want: []string{"日中"}},
		{name: "no cjk", text: "romaji only", want: nil},
		{name: "empty", text: "", want: nil},
		{name: "single separator splits", text: "あ-い", want: []string{"あ", "い"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := slices.Collect(CJKRuns(tt.text))
			if !slices.Equal(got, tt.want) {
				t.Errorf("CJKRuns(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}

	t.Run("sequence is restartable", func(t *testing.T) {
		t.Parallel()
		seq := CJKRuns("a日b中")
		first := slices.Collect(seq)
		second := slices.Collect(seq)
		if !slices.Equal(first, second) {
			t.Errorf("expected identical runs, got %q and %q", first, second)
		}
	})

	t.Run("early break stops iteration", func(t *testing.T) {
		t.Parallel()
		var got []string
		for run := range CJKRuns("日a中b本") {
			got = append(got, run)
			break
		}
		if len(got) != 1 || got[0] != "日" {
			t.Errorf("expected only first run, got %q", got)
		}
	})
}

// TestHighlight tests diagnostic highlighting.
func TestHighlight(t *testing.T) {
	t.Parallel()

	got := Highlight("sdf344asfasf天地方益3権sdfsdf", "(", ")")
	want := "sdf344asfasf(天地方益)3(権)sdfsdf"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if got := Highlight("ボーリング", "[", "]"); got != "[ボーリング]" {
		t.Errorf("got %q, want [ボーリング]", got)
	}
}
