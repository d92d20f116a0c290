package stringpool

import "unicode"

// NaturalCompare compares two strings the way Column Data range queries on
// string labels need them ordered: runs of ASCII digits compare
// numerically rather than lexically, and a run with a leading zero is
// compared left-justified (digit by digit) rather than as a magnitude, so
// that "007" still sorts before "07" sorts before "7" in a stable, total
// order. Everything else falls back to a plain byte comparison so that
// ties (equal from a natural-sort perspective) remain deterministic.
//
// Returns -1, 0, or 1 like strings.Compare.
func NaturalCompare(a, b string) int {
	ar, br := []rune(a), []rune(b)
	i, j := 0, 0
	for {
		for i < len(ar) && unicode.IsSpace(ar[i]) {
			i++
		}
		for j < len(br) && unicode.IsSpace(br[j]) {
			j++
		}

		var av, bv rune
		aEnd, bEnd := i >= len(ar), j >= len(br)
		if !aEnd {
			av = ar[i]
		}
		if !bEnd {
			bv = br[j]
		}

		if isDigit(av) && isDigit(bv) {
			result, ni, nj := compareDigitRuns(ar, br, i, j)
			if result != 0 {
				return result
			}
			i, j = ni, nj
			continue
		}

		if aEnd && bEnd {
			if a == b {
				return 0
			}
			if a < b {
				return -1
			}
			return 1
		}

		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
		i++
		j++
	}
}

// NaturalLess reports whether a sorts before b under NaturalCompare.
func NaturalLess(a, b string) bool { return NaturalCompare(a, b) < 0 }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// compareDigitRuns consumes the maximal digit runs starting at ar[i]/br[j]
// and compares them. A run beginning with '0' on either side is compared
// left-justified (character by character, left to right, shorter-but-equal
// prefix treated as smaller); otherwise both runs are right-justified
// (compared as magnitudes: fewer significant digits is smaller, then
// lexical on a tie) which is the natural reading of "10" > "9".
func compareDigitRuns(ar, br []rune, i, j int) (result int, ni, nj int) {
	iStart, jStart := i, j
	for i < len(ar) && isDigit(ar[i]) {
		i++
	}
	for j < len(br) && isDigit(br[j]) {
		j++
	}

	aDigits := ar[iStart:i]
	bDigits := br[jStart:j]
	leftJustified := (len(aDigits) > 0 && aDigits[0] == '0') || (len(bDigits) > 0 && bDigits[0] == '0')

	if leftJustified {
		result = compareRunesLexical(aDigits, bDigits)
	} else {
		aTrim := trimLeadingZeros(aDigits)
		bTrim := trimLeadingZeros(bDigits)
		if len(aTrim) != len(bTrim) {
			if len(aTrim) < len(bTrim) {
				result = -1
			} else {
				result = 1
			}
		} else {
			result = compareRunesLexical(aTrim, bTrim)
		}
	}
	return result, i, j
}

func trimLeadingZeros(r []rune) []rune {
	k := 0
	for k < len(r)-1 && r[k] == '0' {
		k++
	}
	return r[k:]
}

func compareRunesLexical(a, b []rune) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for k := 0; k < n; k++ {
		if a[k] != b[k] {
			if a[k] < b[k] {
				return -1
			}
			return 1
		}
	}
	if len(a) < len(b) {
		return -1
	}
	if len(a) > len(b) {
		return 1
	}
	return 0
}
