package types

// Loader defines functions that loads state data from the persistent store
type Loader interface {
	Data(key []byte) ([]byte, error)
}

type emptyLoader struct {
}

// newEmptyLoader is used for generating the initial state
func newEmptyLoader() Loader {
	return &emptyLoader{}
}

// Data returns nil
func (st *emptyLoader) Data(key []byte) ([]byte, error) {
	return nil, nil
}
