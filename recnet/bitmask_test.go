package recnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeBitmask(t *testing.T) {
	tests := []struct {
		name  string
		mask  int64
		names []string
		want  []string
	}{
		{name: "none", mask: 0, names: PlatformNames, want: []string{}},
		{name: "single", mask: 1, names: PlatformNames, want: []string{"Steam"}},
		{name: "multiple", mask: 1<<1 | 1<<8, names: PlatformNames, want: []string{"Meta", "Pico"}},
		{name: "bits past the list are ignored", mask: 1 << 20, names: PronounNames, want: []string{}},
		{name: "warnings", mask: 0b100001, names: RoomWarningNames, want: []string{"Custom", "Gore/violence"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeBitmask(tt.mask, tt.names))
		})
	}
}

func TestEncodeBitmaskRoundTrip(t *testing.T) {
	flags := []string{"Bisexual", "Nonbinary"}
	mask := EncodeBitmask(flags, IdentityFlagNames)
	assert.Equal(t, int64(1<<2|1<<8), mask)
	assert.Equal(t, flags, DecodeBitmask(mask, IdentityFlagNames))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "Private", AccessibilityPrivate.String())
	assert.Equal(t, "Unlisted", AccessibilityUnlisted.String())
	assert.Equal(t, "Unknown", Accessibility(9).String())

	assert.Equal(t, "Edit and Save", InventionPermission(40).String())
	assert.Equal(t, "Unknown", InventionPermission(41).String())
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "", ImageURL(""))
	assert.Equal(t, "https://img.rec.net/a.jpg", ImageURL("/a.jpg"))
}
