package model

import "time"

// CooldownPeriod is how long a reveal keeps the jar closed
const CooldownPeriod = 24 * time.Hour

// DailyLock records the last reveal. Memory is a snapshot taken at reveal
// time, not a reference into the collection.
type DailyLock struct {
	LockedAt int64   `json:"lockedAt"`
	Memory   *Memory `json:"memory"`
}

// NewDailyLock creates a lock for memory at now
func NewDailyLock(now time.Time, memory *Memory) *DailyLock {
	return &DailyLock{
		LockedAt: now.UnixMilli(),
		Memory:   memory.Copy(),
	}
}

// UnlockAt returns the instant the lock expires
func (l *DailyLock) UnlockAt() time.Time {
	return time.UnixMilli(l.LockedAt).Add(CooldownPeriod)
}

// IsActive reports whether the lock still holds at now. A lock without
// lockedAt is never active.
func (l *DailyLock) IsActive(now time.Time) bool {
	if l == nil || l.LockedAt == 0 {
		return false
	}
	return now.Before(l.UnlockAt())
}

// DailyStatus is the gate state at one instant
type DailyStatus struct {
	IsLocked     bool    `json:"isLocked"`
	LockedMemory *Memory `json:"lockedMemory"`
	MsUntilReset int64   `json:"msUntilReset"`
}

// StatusAt derives the gate state from an optional lock
func StatusAt(lock *DailyLock, now time.Time) DailyStatus {
	if !lock.IsActive(now) {
		return DailyStatus{}
	}
	return DailyStatus{
		IsLocked:     true,
		LockedMemory: lock.Memory.Copy(),
		MsUntilReset: lock.UnlockAt().Sub(now).Milliseconds(),
	}
}

// Remaining returns the time left until the gate reopens
func (s DailyStatus) Remaining() time.Duration {
	return time.Duration(s.MsUntilReset) * time.Millisecond
}

// Countdown formats the remaining time as HH:MM:SS
func (s DailyStatus) Countdown() string {
	return FormatCountdown(s.Remaining())
}
