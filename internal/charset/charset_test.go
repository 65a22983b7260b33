package charset

import (
	"reflect"
	"testing"
)

func TestExtractCharacters(t *testing.T) {
	chars := ExtractCharacters("今日は日本語を勉強します。kanji!")
	want := []string{"今", "日", "本", "語", "勉", "強"}
	if !reflect.DeepEqual(chars, want) {
		t.Fatalf("expected %v, got %v", want, chars)
	}
}

func TestExtractCharactersEmpty(t *testing.T) {
	if chars := ExtractCharacters("hello ひらがな カタカナ 123"); chars != nil {
		t.Fatalf("expected no kanji, got %v", chars)
	}
}

func TestExtractFromArgs(t *testing.T) {
	chars := ExtractFromArgs([]string{"日 本", "語", "日"})
	want := []string{"日", "本", "語"}
	if !reflect.DeepEqual(chars, want) {
		t.Fatalf("expected %v, got %v", want, chars)
	}
}
