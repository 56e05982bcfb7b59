package videoid

import (
	"errors"
	"testing"

	"video-tutor/pkg/domain"
)

func TestExtract_ValidInputs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.VideoID
	}{
		{
			name:  "standard watch URL",
			input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "watch URL with extra query parameters",
			input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=43s",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "watch URL with v parameter last",
			input: "https://www.youtube.com/watch?t=43s&list=PL123&v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "short URL",
			input: "https://youtu.be/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "bare ID",
			input: "dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "bare ID with surrounding whitespace",
			input: "  dQw4w9WgXcQ\n",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "URL with surrounding whitespace",
			input: " https://youtu.be/dQw4w9WgXcQ ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "no-www host",
			input: "https://youtube.com/watch?v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "mobile host",
			input: "https://m.youtube.com/watch?v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "scheme-less watch URL",
			input: "youtube.com/watch?v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "embed URL",
			input: "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "embed URL with query parameters",
			input: "https://www.youtube.com/embed/dQw4w9WgXcQ?start=43",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "legacy player URL",
			input: "https://www.youtube.com/v/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "ID with underscore and dash",
			input: "a-b_c1D2e3F",
			want:  "a-b_c1D2e3F",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.input)
			if err != nil {
				t.Fatalf("Extract(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtract_InvalidInputs(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "whitespace only", input: "   "},
		{name: "watch URL missing v parameter", input: "https://www.youtube.com/watch?t=43s"},
		{name: "embed URL with invalid ID", input: "https://www.youtube.com/embed/short"},
		{name: "short ID", input: "dQw4w9WgXc"},
		{name: "long ID", input: "dQw4w9WgXcQQ"},
		{name: "ID with disallowed characters", input: "dQw4w9WgX!Q"},
		{name: "non-YouTube URL", input: "https://vimeo.com/123456"},
		{name: "watch URL with short v parameter", input: "https://www.youtube.com/watch?v=short"},
		{name: "short URL with invalid path", input: "https://youtu.be/not-an-id-at-all"},
		{name: "plain sentence", input: "watch this video please"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.input)
			if err == nil {
				t.Fatalf("Extract(%q) succeeded, want error", tt.input)
			}
			if !errors.Is(err, ErrInvalidURL) {
				t.Errorf("Extract(%q) error = %v, want ErrInvalidURL", tt.input, err)
			}
		})
	}
}
