package common

import (
	"strings"
	"unicode"
)

// GuideList flattens guide arguments into an ordered set. Each argument may
// hold several guides separated by commas; whitespace inside a guide is
// dropped and letters are uppercased, so "acg t" and "ACGT" are one guide.
func GuideList(args []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			g := strings.Map(func(r rune) rune {
				if unicode.IsSpace(r) {
					return -1
				}
				return unicode.ToUpper(r)
			}, part)
			if g == "" || seen[g] {
				continue
			}
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}
