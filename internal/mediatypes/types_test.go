package mediatypes

import "testing"

func TestIsVideo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"movie.mp4", true},
		{"movie.MP4", true},
		{"clip.webm", true},
		{"clip.mov", true},
		{"clip.avi", true},
		{"clip.mkv", true},
		{"clip.m4v", true},
		{"notes.txt", false},
		{"archive.tar.gz", false},
		{"noextension", false},
		{"", false},
		{"movie.mp4.txt", false},
		{"weird.Mkv", true},
	}

	for _, tt := range tests {
		if got := IsVideo(tt.name); got != tt.want {
			t.Errorf("IsVideo(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMimeType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"movie.mp4", "video/mp4"},
		{"clip.WEBM", "video/webm"},
		{"clip.mov", "video/quicktime"},
		{"clip.mkv", "video/x-matroska"},
		{"notes.txt", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := MimeType(tt.name); got != tt.want {
			t.Errorf("MimeType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTitleFromFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"My Holiday.mp4", "My Holiday"},
		{"clip.webm", "clip"},
		{"noextension", "noextension"},
		{"dots.in.name.mkv", "dots.in.name"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := TitleFromFilename(tt.name); got != tt.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
