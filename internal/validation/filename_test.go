package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckImageFilenameLoose(t *testing.T) {
	tests := []struct {
		filename string
		ok       bool
	}{
		{"photo.jpg", true},
		{"photo.JPG", true},
		{"photo.jpeg", true},
		{"my.jpg.backup", true},
		{"photo.JPG.exe", true}, // substring rule accepts this
		{"jpgnotes.txt", true},  // and this
		{"photo.png", false},    // no "jpg" anywhere
		{"photojpg", false},     // no dot
		{"", false},
	}

	for _, tt := range tests {
		err := CheckImageFilename(tt.filename, false)
		if tt.ok {
			assert.NoError(t, err, "loose: %q", tt.filename)
		} else {
			assert.ErrorIs(t, err, ErrInvalidFile, "loose: %q", tt.filename)
		}
	}
}

func TestCheckImageFilenameStrict(t *testing.T) {
	tests := []struct {
		filename string
		ok       bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"photo.JPG.exe", false},
		{"jpgnotes.txt", false},
		{"photo.png", false},
		{"", false},
	}

	for _, tt := range tests {
		err := CheckImageFilename(tt.filename, true)
		if tt.ok {
			assert.NoError(t, err, "strict: %q", tt.filename)
		} else {
			assert.ErrorIs(t, err, ErrInvalidFile, "strict: %q", tt.filename)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo.jpg", "my_photo.jpg"},
		{"../../etc/passwd.jpg", "passwd.jpg"},
		{"..\\..\\evil.jpg", "evil.jpg"},
		{"héllo.jpg", "h_llo.jpg"},
		{"...", "file"},
		{"", "file"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestCheckUserID(t *testing.T) {
	assert.NoError(t, CheckUserID("bob"))
	assert.NoError(t, CheckUserID("bob-2"))
	assert.ErrorIs(t, CheckUserID(""), ErrEmptyUserID)
	assert.ErrorIs(t, CheckUserID("bo b"), ErrInvalidUserID)
	assert.ErrorIs(t, CheckUserID("bob'); drop table users; --"), ErrInvalidUserID)
}
