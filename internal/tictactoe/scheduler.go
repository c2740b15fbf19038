package tictactoe

import "time"

// Timer is a pending one-shot callback. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after delay.
type Scheduler interface {
	AfterFunc(delay time.Duration, fn func()) Timer
}

type clockScheduler struct{}

// NewClockScheduler - returns a Scheduler backed by time.AfterFunc.
func NewClockScheduler() Scheduler {
	return clockScheduler{}
}

func (clockScheduler) AfterFunc(delay time.Duration, fn func()) Timer {
	return time.AfterFunc(delay, fn)
}
