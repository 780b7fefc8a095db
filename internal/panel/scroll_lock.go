package panel

import "sync"

// ScrollLock suppresses background scrolling while any modal panel is
// mounted. It is reference counted so overlapping modals unmounting in any
// order only restore scrolling when the last one goes.
type ScrollLock struct {
	mu       sync.Mutex
	depth    int
	onChange func(locked bool)
}

// NewScrollLock creates a lock. onChange, if set, fires on the transitions
// between unlocked and locked.
func NewScrollLock(onChange func(locked bool)) *ScrollLock {
	return &ScrollLock{onChange: onChange}
}

// Acquire increments the depth. The returned release decrements it once;
// further calls are no-ops.
func (l *ScrollLock) Acquire() (release func()) {
	l.mu.Lock()
	l.depth++
	first := l.depth == 1
	l.mu.Unlock()
	if first {
		l.notify(true)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			l.depth--
			last := l.depth == 0
			l.mu.Unlock()
			if last {
				l.notify(false)
			}
		})
	}
}

// Locked reports whether background scrolling is suppressed
func (l *ScrollLock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.depth > 0
}

// Depth returns the number of outstanding acquisitions
func (l *ScrollLock) Depth() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.depth
}

func (l *ScrollLock) notify(locked bool) {
	if l.onChange != nil {
		l.onChange(locked)
	}
}
