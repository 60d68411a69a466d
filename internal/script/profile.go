package script

import "unicode"

// Profile returns the set of categories observed in a hint string.
// Only letters and digits are inspected; punctuation, symbols and spaces
// do not contribute. A hint made only of digits therefore has an empty
// profile.
func Profile(hint string) Class {
	var c Class
	for _, r := range hint {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			continue
		}
		c |= Classify(r)
	}
	return c
}
