package game

import "errors"

// Submission failures. None of them change the session.
var (
	ErrNoGame        = errors.New("no game in progress")
	ErrGameOver      = errors.New("game finished")
	ErrInvalidLength = errors.New("not enough letters")
	ErrUnknownWord   = errors.New("not in word list")
	ErrHardMode      = errors.New("hard mode violation")
	ErrStrictLocked  = errors.New("hard mode can only be enabled at the start")
)

// HardModeViolation is returned when a strict-mode guess ignores a revealed hint.
// It matches ErrHardMode with errors.Is.
type HardModeViolation struct {
	Reason string
}

func (v *HardModeViolation) Error() string { return v.Reason }

func (v *HardModeViolation) Is(target error) bool { return target == ErrHardMode }
