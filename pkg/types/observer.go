package types

// Observer receives status signals from long-running operations. Every
// bulk load is stamped with a unique load id so interleaved callbacks can
// be correlated. Implementations must be cheap; they run synchronously on
// the loading goroutine.
type Observer interface {
	// LoadStarted fires once per bulk load with the total row count.
	LoadStarted(loadID string, total int64)
	// Progress fires after each row is bound and executed.
	Progress(loadID string, done int64)
	// LoadFinished fires after the final commit with the inserted count.
	LoadFinished(loadID string, inserted int64)
	// Warn reports a non-fatal condition, such as an attribute column
	// with an unrecognized declared type being stored as text.
	Warn(msg string)
}

// NopObserver discards every signal. It is the default when options leave
// the observer nil.
type NopObserver struct{}

func (NopObserver) LoadStarted(string, int64)  {}
func (NopObserver) Progress(string, int64)     {}
func (NopObserver) LoadFinished(string, int64) {}
func (NopObserver) Warn(string)                {}
