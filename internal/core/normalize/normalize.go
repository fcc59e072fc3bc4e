// Package normalize turns raw harvested topic strings into a canonical,
// comparable form and rejects strings that cannot be topics.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agenthands/syllabus/internal/core/model"
)

const (
	DefaultMinLength = 5
	DefaultMaxLength = 200
)

var (
	// Leading list markers: bullets, numbering ("1.", "1)", "(1)", "1.2.3", "1 -"),
	// lettered and roman sub-items ("a)", "(b)", "C.", "iv.").
	listMarker = regexp.MustCompile(`^(?:` +
		`[-*•·‣▪◦–—+>]+\s*` +
		`|\(?\d+(?:\.\d+)*[.):]\s+` +
		`|\(\d+\)\s*` +
		`|\d+(?:\.\d+)+\s+` +
		`|\d+\s+[-–—]\s*` +
		`|\(?(?i:[ivx]{1,5})[.)]\s+` +
		`|\(?[A-Za-z][.)]\s+` +
		`|\([A-Za-z]\)\s*` +
		`)`)

	whitespace = regexp.MustCompile(`\s+`)
	url        = regexp.MustCompile(`(?i)(?:https?://|ftp://|www\.)\S+`)
)

type Normalizer struct {
	MinLength int
	MaxLength int
}

func NewNormalizer(minLength, maxLength int) *Normalizer {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Normalizer{MinLength: minLength, MaxLength: maxLength}
}

// Normalize cleans every raw string and drops the ones that are rejected.
// Normalizing already-normalized output returns it unchanged.
func (n *Normalizer) Normalize(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, reason := n.Clean(r); reason == "" {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeTopics cleans topic texts in place order. Topics that fail are
// returned as rejections instead of vanishing.
func (n *Normalizer) NormalizeTopics(topics []model.Topic) ([]model.Topic, []model.Rejection) {
	kept := make([]model.Topic, 0, len(topics))
	var rejected []model.Rejection
	for _, t := range topics {
		s, reason := n.Clean(t.Text)
		if reason != "" {
			rejected = append(rejected, model.Rejection{Text: t.Text, Reason: reason})
			continue
		}
		t.Text = s
		kept = append(kept, t)
	}
	return kept, rejected
}

// Clean normalizes one string. A non-empty reason means the string was
// rejected and the returned text should be ignored.
func (n *Normalizer) Clean(raw string) (string, string) {
	s := strings.TrimSpace(whitespace.ReplaceAllString(raw, " "))
	if s == "" {
		return "", model.RejectEmptyInput
	}

	for {
		loc := listMarker.FindStringIndex(s)
		if loc == nil || loc[1] == 0 {
			break
		}
		s = strings.TrimSpace(s[loc[1]:])
	}
	s = strings.TrimRight(s, ":;, ")

	switch {
	case s == "":
		return "", model.RejectNoLetters
	case url.MatchString(s):
		return "", model.RejectURL
	case !hasLetter(s):
		return "", model.RejectNoLetters
	}

	length := utf8.RuneCountInString(s)
	if length < n.MinLength {
		return "", model.RejectTooShort
	}
	if length > n.MaxLength {
		return "", model.RejectTooLong
	}
	return s, ""
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
