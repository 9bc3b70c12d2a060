// Package catalog derives works from the image tree: it parses titles and
// dates out of filenames, scans the category folders and reconciles the
// works table with what is on disk.
package catalog

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	imageExt       = regexp.MustCompile(`(?i)\.(jpe?g|png)$`)
	seqNumber      = regexp.MustCompile(`\((\d+)\)`)
	separators     = regexp.MustCompile(`[_-]`)
	seqToken       = regexp.MustCompile(`\s*\(\d+\)\s*`)
	dateTimePrefix = regexp.MustCompile(`^\d{8}[_\s]\d{6}\s*`)
	leadingDate    = regexp.MustCompile(`^\d{4}[-\s]?\d*[mM]?[-\s]?`)
)

const (
	minTitleLen = 3
	shortTitle  = 10
)

// IsImage reports whether name has a jpg, jpeg or png extension, in any case.
func IsImage(name string) bool {
	return imageExt.MatchString(name)
}

// TitleFromFilename turns a camera or export filename into a display title:
//
//	"20170121_191108_photo (2).jpg" -> "Photo 2"
//	"2025-2-le-cours.jpg"           -> "Le Cours"
func TitleFromFilename(name string) string {
	raw := imageExt.ReplaceAllString(name, "")

	title := raw
	if decoded, err := url.PathUnescape(title); err == nil {
		title = decoded
	}

	var seq string
	if m := seqNumber.FindStringSubmatch(title); m != nil {
		seq = m[1]
	}

	title = separators.ReplaceAllString(title, " ")
	title = seqToken.ReplaceAllString(title, " ")
	title = dateTimePrefix.ReplaceAllString(title, "")
	title = titleCase(title)
	title = leadingDate.ReplaceAllString(title, "")

	if utf8.RuneCountInString(title) < minTitleLen {
		title = raw
	}
	if seq != "" && utf8.RuneCountInString(title) < shortTitle {
		title = title + " " + seq
	}
	return title
}

func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.TrimSpace(strings.Join(words, " "))
}
