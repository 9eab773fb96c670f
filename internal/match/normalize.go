// Package match implements the contact record-linkage core: field
// normalization, candidate blocking, token-set scoring, and the staged
// exact-then-fuzzy matchers.
package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// companySuffix matches one trailing legal/business suffix token, with an
// optional trailing period. Applied repeatedly so stacked suffixes
// ("investment management") are fully stripped and CompanyKey stays idempotent.
var companySuffix = regexp.MustCompile(
	`\s*\b(inc|llc|ltd|co|corp|corporation|group|pllc|pl|pc|pcs|pa|` +
		`gmbh|ag|bv|sa|sarl|sas|pte|pty|limited|service|investment|management)\b\.?$`)

// rawCompanySuffix matches suffix tokens anywhere in the string. Used by the
// raw name+company pass, which scrubs more aggressively before keying.
var rawCompanySuffix = regexp.MustCompile(
	`\b(inc|llc|ltd|co|corporation|corp|pllc|pc|gmbh|ag|bv|sa|sarl|sas|pte|pty|limited|investment|group)\b`)

var (
	punctuation = regexp.MustCompile(`[^\w\s]`)
	multiSpace  = regexp.MustCompile(`\s{2,}`)
)

// asciiFold decomposes accented runes and drops the combining marks, so
// "Société" compares equal to "Societe".
var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldASCII(s string) string {
	out, _, err := transform.String(asciiFold, s)
	if err != nil {
		return s
	}
	return out
}

// CompanyKey normalizes a company name for comparison: lowercase, fold
// diacritics, replace punctuation with spaces, strip trailing legal-entity
// suffix tokens, collapse whitespace. Idempotent; "" in, "" out.
func CompanyKey(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	s = foldASCII(s)
	s = punctuation.ReplaceAllString(s, " ")
	s = strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
	for {
		stripped := strings.TrimSpace(companySuffix.ReplaceAllString(s, ""))
		if stripped == s {
			break
		}
		s = stripped
	}
	return s
}

// Email normalizes an email address for exact comparison.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Domain returns the lowercased part after the last '@', or "" when the
// input has no '@'.
func Domain(email string) string {
	e := Email(email)
	i := strings.LastIndex(e, "@")
	if i < 0 {
		return ""
	}
	return e[i+1:]
}

// NamePart lowercases and trims a first or last name.
func NamePart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IdentityKey builds the fuzzy comparison key for one record:
// "first last company", each part normalized, collapsed to single spaces.
func IdentityKey(first, last, company string) string {
	k := NamePart(first) + " " + NamePart(last) + " " + CompanyKey(company)
	return strings.TrimSpace(multiSpace.ReplaceAllString(k, " "))
}

// RawKey builds the "first last | company" key used by the raw
// name+company pass. The company part is scrubbed of suffix tokens anywhere
// in the string and of commas, matching the looser raw-pass cleaning.
func RawKey(first, last, company string) string {
	c := strings.ToLower(strings.TrimSpace(company))
	c = rawCompanySuffix.ReplaceAllString(c, "")
	c = strings.ReplaceAll(c, ",", "")
	c = strings.TrimSpace(multiSpace.ReplaceAllString(c, " "))
	k := NamePart(first) + " " + NamePart(last) + " | " + c
	return strings.TrimSpace(multiSpace.ReplaceAllString(k, " "))
}
