package services

import "time"

// Outcome labels shared by the recorder implementations.
const (
	LockResultAcquired = "acquired"
	LockResultLocked   = "locked"
	LockResultError    = "error"

	ChainReadOK    = "ok"
	ChainReadError = "error"
)

// Recorder receives the operational signals of the presale services.
type Recorder interface {
	LockAcquisition(result string)
	ChainRead(chainID uint64, status string, elapsed time.Duration)
	DepositDecision(outcome string)
}

// NopRecorder discards every signal.
type NopRecorder struct{}

func (NopRecorder) LockAcquisition(string)                  {}
func (NopRecorder) ChainRead(uint64, string, time.Duration) {}
func (NopRecorder) DepositDecision(string)                  {}
