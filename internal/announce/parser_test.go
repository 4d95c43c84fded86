package announce

import (
	"reflect"
	"testing"
)

func TestParse_BodyOnly(t *testing.T) {
	got := Parse("server maintenance tonight")
	if got.Body != "server maintenance tonight" {
		t.Fatalf("unexpected body: %q", got.Body)
	}
	if len(got.Emojis) != 0 || got.Title != "" || got.ImageURL != "" {
		t.Fatalf("expected body-only announcement, got %+v", got)
	}
}

func TestParse_FullRecord(t *testing.T) {
	got := Parse("🎉 🔥 | Game Night | starts at 9pm | https://example.com/banner.png")
	want := Announcement{
		Emojis:   []string{"🎉", "🔥"},
		Title:    "Game Night",
		Body:     "starts at 9pm",
		ImageURL: "https://example.com/banner.png",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected parse result: %+v", got)
	}
}

func TestParse_MissingTrailingFields(t *testing.T) {
	got := Parse("🎉 | Title only")
	if got.Title != "Title only" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
	if got.Body != "" || got.ImageURL != "" {
		t.Fatalf("expected empty trailing fields, got %+v", got)
	}
}

func TestParse_TrimsWhitespace(t *testing.T) {
	got := Parse("  🎉  |  Title  |  Body  ")
	if got.Title != "Title" || got.Body != "Body" {
		t.Fatalf("expected trimmed fields, got %+v", got)
	}
}

func TestIsEmpty(t *testing.T) {
	if !Parse("").IsEmpty() {
		t.Fatal("expected empty input to parse as empty announcement")
	}
	if Parse("hello").IsEmpty() {
		t.Fatal("expected non-empty body to count as content")
	}
	if Parse("🎉 | | |").IsEmpty() {
		t.Fatal("expected emoji-only announcement to count as content")
	}
}
