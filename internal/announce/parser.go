// Package announce parses the pipe-separated announcement syntax used by
// the /announce command into a fixed-arity record.
package announce

import "strings"

// Announcement is the parsed form of an announcement input:
// "emoji emoji | title | body | image-url", with trailing fields optional.
type Announcement struct {
	Emojis   []string
	Title    string
	Body     string
	ImageURL string
}

// Parse tokenizes the raw input. An input without pipes is treated as a
// body-only announcement.
func Parse(input string) Announcement {
	parts := strings.Split(input, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) == 1 {
		return Announcement{Body: parts[0]}
	}

	for len(parts) < 4 {
		parts = append(parts, "")
	}

	return Announcement{
		Emojis:   strings.Fields(parts[0]),
		Title:    parts[1],
		Body:     parts[2],
		ImageURL: parts[3],
	}
}

// IsEmpty reports whether the announcement carries no content at all.
func (a Announcement) IsEmpty() bool {
	return len(a.Emojis) == 0 && a.Title == "" && a.Body == "" && a.ImageURL == ""
}
