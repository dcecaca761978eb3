package recnet

// Flag names in bit order: index i is set when bit 1<<i is set.
var (
	PlatformNames = []string{"Steam", "Meta", "PlayStation", "Xbox", "RecNet", "iOS", "Android", "Standalone", "Pico"}

	PronounNames = []string{"She / her", "He / him", "They / them", "Ze / hir", "Ze / zir", "Xe / xem"}

	IdentityFlagNames = []string{"LGBTQIA", "Transgender", "Bisexual", "Lesbian", "Pansexual", "Asexual", "Intersex", "Genderqueer", "Nonbinary", "Aromantic"}

	RoomWarningNames = []string{"Custom", "Spooky/scary themes", "Mature themes", "Bright/flashing lights", "Intense motion", "Gore/violence"}
)

// DecodeBitmask returns the names whose bit is set in mask. Bits beyond
// the end of names are ignored.
func DecodeBitmask(mask int64, names []string) []string {
	decoded := make([]string, 0, len(names))
	for i, name := range names {
		if mask&(1<<i) != 0 {
			decoded = append(decoded, name)
		}
	}
	return decoded
}

// EncodeBitmask is the inverse of DecodeBitmask. Unknown names are skipped.
func EncodeBitmask(selected []string, names []string) int64 {
	var mask int64
	for _, s := range selected {
		for i, name := range names {
			if name == s {
				mask |= 1 << i
			}
		}
	}
	return mask
}

// Accessibility is the visibility of a room, event or invention.
type Accessibility int

const (
	AccessibilityPrivate Accessibility = iota
	AccessibilityPublic
	AccessibilityUnlisted
)

func (a Accessibility) String() string {
	switch a {
	case AccessibilityPrivate:
		return "Private"
	case AccessibilityPublic:
		return "Public"
	case AccessibilityUnlisted:
		return "Unlisted"
	default:
		return "Unknown"
	}
}

// InventionPermission is the permission level granted on an invention.
type InventionPermission int

var inventionPermissionNames = map[InventionPermission]string{
	0:   "Unassigned",
	10:  "Limited One Use Only",
	15:  "Disallow Key Lock",
	20:  "Use Only",
	40:  "Edit and Save",
	60:  "Publish",
	80:  "Charge",
	100: "Unlimited",
}

func (p InventionPermission) String() string {
	if name, ok := inventionPermissionNames[p]; ok {
		return name
	}
	return "Unknown"
}
