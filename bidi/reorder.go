package bidi

// VisualOrder implements rule L2 for one line: given the embedding levels
// of the line's runs in logical order, it returns the indices of those
// runs in visual (display) order. Within a level run, logical order is
// preserved.
func VisualOrder(levels []Level) []int {
	order := make([]int, len(levels))
	for i := range order {
		order[i] = i
	}
	ReorderVisual(levels, order)
	return order
}

// ReorderVisual permutes order in place according to levels (rule L2):
// every maximal subsequence at or above each level, from the highest
// level down to the lowest odd level, is reversed.
func ReorderVisual(levels []Level, order []int) {
	if len(levels) != len(order) || len(levels) < 2 {
		return
	}

	maxLevel := Level(0)
	lowestOdd := Level(maxDepth + 1)
	for _, l := range levels {
		if l > maxLevel {
			maxLevel = l
		}
		if l.IsRTL() && l < lowestOdd {
			lowestOdd = l
		}
	}
	if lowestOdd > maxLevel {
		return
	}

	// Reorder against a copy of the levels so repeated reversals track
	// the moving runs.
	lv := make([]Level, len(levels))
	copy(lv, levels)

	for level := maxLevel; level >= lowestOdd; level-- {
		i := 0
		for i < len(lv) {
			if lv[i] < level {
				i++
				continue
			}
			end := i + 1
			for end < len(lv) && lv[end] >= level {
				end++
			}
			for j, k := i, end-1; j < k; j, k = j+1, k-1 {
				lv[j], lv[k] = lv[k], lv[j]
				order[j], order[k] = order[k], order[j]
			}
			i = end
		}
		if level == 0 {
			break
		}
	}
}
