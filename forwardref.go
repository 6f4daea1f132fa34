package knit

// ForwardRef defers a reference to a value that is not yet defined at
// provider-registration time, breaking definition-order problems. The
// wrapped resolver is re-invoked on every access; its result is never
// cached.
//
//	knit.Provide{Token: CarToken, UseClass: knit.Forward(func() any { return carType })}
type ForwardRef struct {
	resolve func() any
}

// Forward wraps a zero-argument resolver in a ForwardRef.
func Forward(resolve func() any) *ForwardRef {
	return &ForwardRef{resolve: resolve}
}

// Ref invokes the resolver and returns its result.
func (f *ForwardRef) Ref() any {
	return f.resolve()
}

// Deref unwraps x if it is a ForwardRef, invoking its resolver; any other
// value passes through unchanged.
func Deref(x any) any {
	if f, ok := x.(*ForwardRef); ok && f != nil {
		return f.Ref()
	}
	return x
}
