package model

type WithID[T ~string] interface {
	ID() T
}

// WithPrice is implemented by what can be purchased
type WithPrice interface {
	Price() Price
}
