package resolver

// NonEmpty accepts lists with at least one element
func NonEmpty[E any](list []E) bool {
	return len(list) > 0
}

// NonNil accepts any non-nil object
func NonNil[P any](p *P) bool {
	return p != nil
}

// Present accepts a list that was present in the response, even when empty
func Present[E any](list []E) bool {
	return list != nil
}
