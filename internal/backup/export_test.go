package backup

// Abandon releases the update lock without finishing the attempt, the way
// the lock goes away when a process dies mid-update.
func (c *Coordinator) Abandon() { c.unlock() }
