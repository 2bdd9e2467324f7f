package dupe

// Similarity ratio over two strings, defined as 2*M/(lenA+lenB) where
// M is the total length of a greedy longest-common-matching-block
// decomposition: repeatedly take the longest common substring (leftmost
// in a, then leftmost in b, on ties) and recurse into the pieces on
// either side of it. The duplicate thresholds were tuned against this
// exact decomposition, so it is implemented here rather than borrowed
// from a generic string-distance package.

// Ratio returns the similarity of a and b in [0,1].
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	m := matchTotal(ra, rb, 0, len(ra), 0, len(rb))
	return 2 * float64(m) / float64(len(ra)+len(rb))
}

// matchTotal sums matching-block sizes over a[alo:ahi] vs b[blo:bhi].
func matchTotal(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	total := size
	total += matchTotal(a, b, alo, i, blo, j)
	total += matchTotal(a, b, i+size, ahi, j+size, bhi)
	return total
}

// longestMatch finds the longest block a[i:i+size] == b[j:j+size] with
// alo<=i<i+size<=ahi and blo<=j<j+size<=bhi, preferring the earliest i
// and then the earliest j.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	// j2len[j] is the length of the common run ending at a[i], b[j].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if b[j] != a[i] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestsize
}
