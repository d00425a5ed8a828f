package loghaul

import "time"

// KeeperEofStrategy decides what happens to a source once it reports EOF.
type KeeperEofStrategy struct {
	// resume distinguishes DropSource from ResumeSourceAfterCooldown.
	// Unexported: build values with DropSource() or
	// ResumeSourceAfterCooldown(d).
	resume   bool
	cooldown time.Duration
}

// DropSource forgets an EOF'd source immediately.
func DropSource() KeeperEofStrategy {
	return KeeperEofStrategy{}
}

// ResumeSourceAfterCooldown parks an EOF'd source and retries Resume no
// sooner than every d.
func ResumeSourceAfterCooldown(d time.Duration) KeeperEofStrategy {
	return KeeperEofStrategy{resume: true, cooldown: d}
}

// Resumable reports whether this strategy parks sources for later resume.
func (s KeeperEofStrategy) Resumable() bool {
	return s.resume
}

// Cooldown returns the configured cooldown floor. Only meaningful when
// Resumable() is true.
func (s KeeperEofStrategy) Cooldown() time.Duration {
	return s.cooldown
}

// defaultInterval is the polling floor used when KeeperConfig.Interval is
// left at its zero value.
const defaultInterval = 100 * time.Millisecond

// KeeperConfig configures a Keeper. It is immutable once a Keeper has been
// constructed from it.
type KeeperConfig struct {
	// Interval is the minimum sleep between polling iterations. Zero
	// means defaultInterval (100ms).
	Interval time.Duration
	// EofStrategy decides what happens to sources that report EOF.
	// The zero value is DropSource().
	EofStrategy KeeperEofStrategy
	// Logger, if set, receives KeeperLogEntry lifecycle events. If nil,
	// a no-op sink is installed so the log channel is always connected.
	Logger KeeperLog
}

func (c KeeperConfig) interval() time.Duration {
	if c.Interval <= 0 {
		return defaultInterval
	}
	return c.Interval
}
