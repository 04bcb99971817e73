package clash

import (
	"errors"
	"strings"
)

// tagAlphabet holds every character that can appear in a player or clan tag.
const tagAlphabet = "0289PYLQGRJCUV"

// ErrInvalidTag is returned for tags containing characters outside the tag alphabet.
var ErrInvalidTag = errors.New("invalid tag")

// NormalizeTag trims and uppercases a tag, replaces the letter O with zero
// (a common typo) and ensures a leading '#'.
func NormalizeTag(tag string) (string, error) {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	tag = strings.TrimPrefix(tag, "#")
	tag = strings.ReplaceAll(tag, "O", "0")

	if tag == "" {
		return "", ErrInvalidTag
	}
	for _, r := range tag {
		if !strings.ContainsRune(tagAlphabet, r) {
			return "", ErrInvalidTag
		}
	}
	return "#" + tag, nil
}

// ValidTag reports whether tag normalizes successfully.
func ValidTag(tag string) bool {
	_, err := NormalizeTag(tag)
	return err == nil
}
