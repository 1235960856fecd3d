package utils

import (
	"math/rand"
	"regexp"
	"strings"
)

// vmNamePrefix is the prefix applied to every generated virtual machine name.
const vmNamePrefix = "VMC"

// VMNameRegexp matches the names produced by GenerateVMName.
var VMNameRegexp = regexp.MustCompile(`^VMC[A-Z0-9]{6}$`)

const (
	digits    = "0123456789"
	lowercase = "abcdefghijklmnopqrstuvwxyz"
)

// GenerateVMName generates a random virtual machine name consisting of the standard prefix followed by two digits and
// four letters in a shuffled order, for example VMCY7UHJ2. Uniqueness is enforced by the database; callers should
// retry on a conflict.
func GenerateVMName() string {
	chars := make([]byte, 0, 6)
	for i := 0; i < 2; i++ {
		chars = append(chars, digits[rand.Intn(len(digits))])
	}
	for i := 0; i < 4; i++ {
		chars = append(chars, lowercase[rand.Intn(len(lowercase))])
	}
	rand.Shuffle(len(chars), func(i, j int) {
		chars[i], chars[j] = chars[j], chars[i]
	})
	return vmNamePrefix + strings.ToUpper(string(chars))
}

// slugSeparatorRegexp matches runs of characters that get collapsed into a single hyphen in a slug.
var slugSeparatorRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a display name to a URL-safe slug. Region names like "North America 1" become "north-america-1".
func Slugify(name string) string {
	slug := slugSeparatorRegexp.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
