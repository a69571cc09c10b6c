package edit

// repeat runs op up to n times, stopping at the first failure, and returns
// how many runs succeeded. n == 0 runs op once.
func repeat(n uint32, op func() bool) uint32 {
	return repeatWith(n, op, nil)
}

// repeatWith is repeat with a step run between successive operations. A
// failing step stops the repetition as well.
func repeatWith(n uint32, op func() bool, step func() bool) uint32 {
	n = max(n, 1)
	var done uint32
	for done < n {
		if !op() {
			break
		}
		done++
		if done < n && step != nil && !step() {
			break
		}
	}
	return done
}
