package output

import "strings"

const maxNameRunes = 50

// FolderName derives a directory name from the opening of a script: the first
// 50 characters, cut at the first period, with anything outside
// [A-Za-z0-9_-. ] replaced by an underscore. The result may be empty and is
// not unique across scripts.
func FolderName(script string) string {
	head := []rune(script)
	if len(head) > maxNameRunes {
		head = head[:maxNameRunes]
	}
	first, _, _ := strings.Cut(string(head), ".")
	first = strings.TrimSpace(first)

	name := strings.Map(func(r rune) rune {
		if isNameRune(r) {
			return r
		}
		return '_'
	}, first)
	return strings.TrimSpace(name)
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '-', r == '.', r == ' ':
		return true
	}
	return false
}
