package bot

import "sync"

// chatLocks serializes command and trigger execution per chat. No global
// lock: two chats never contend.
type chatLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// lock acquires the chat's mutex and returns its unlock function.
func (c *chatLocks) lock(chatID int64) func() {
	c.mu.Lock()
	if c.locks == nil {
		c.locks = make(map[int64]*sync.Mutex)
	}
	l, ok := c.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[chatID] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}
