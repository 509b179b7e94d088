package util

// InPlaceFilter keeps the elements of s matching keep, preserving their order.
// The backing array of s is reused.
func InPlaceFilter[T any](s *[]T, keep func(T) bool) {
	kept := 0
	for _, element := range *s {
		if keep(element) {
			(*s)[kept] = element
			kept++
		}
	}

	clear((*s)[kept:])
	*s = (*s)[:kept]
}
