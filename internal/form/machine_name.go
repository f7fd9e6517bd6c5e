package form

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the maximum length, in characters, of a label or machine name.
const MaxLength = 255

var (
	machineNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)
	machineNameReplace = regexp.MustCompile(`[^a-z0-9_]+`)
)

// ValidMachineName reports whether s uses only lowercase letters, digits
// and underscores.
func ValidMachineName(s string) bool {
	return machineNamePattern.MatchString(s)
}

// MachineNameFromLabel derives a machine name from a human-readable label:
// accents are stripped, letters lowercased and every other run of
// characters collapsed into a single underscore.
func MachineNameFromLabel(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, label)
	if err != nil {
		ascii = label
	}

	name := machineNameReplace.ReplaceAllString(strings.ToLower(ascii), "_")
	name = strings.Trim(name, "_")
	if len(name) > MaxLength {
		name = strings.TrimRight(name[:MaxLength], "_")
	}
	return name
}
