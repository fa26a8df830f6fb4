package pattern

// stateCount returns the number of states Build emits for n, saturating
// just above MaxStates.
func stateCount(n Node) int {
	switch n := n.(type) {
	case Empty, Literal, Any, Class:
		return 1
	case Concat:
		total := 0
		for _, item := range n.Items {
			total = addCapped(total, stateCount(item))
		}
		return total
	case Alternate:
		total := 1
		for _, opt := range n.Options {
			total = addCapped(total, addCapped(1, stateCount(opt)))
		}
		return total
	case Group:
		return addCapped(2, stateCount(n.Sub))
	case Repeat:
		sub := stateCount(n.Sub)
		total := mulCapped(n.Min, sub)
		switch {
		case n.Max < 0:
			return addCapped(total, addCapped(3, sub))
		case n.Max == n.Min:
			return addCapped(total, 1)
		default:
			return addCapped(total, addCapped(1, mulCapped(n.Max-n.Min, addCapped(2, sub))))
		}
	}
	return 0
}

const countCap = MaxStates + 1

func addCapped(a, b int) int {
	if a+b > countCap {
		return countCap
	}
	return a + b
}

func mulCapped(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > countCap/b {
		return countCap
	}
	return min(a*b, countCap)
}
