package lab

import "fmt"

// Mode selects which system behavior the next submission uses. The set is
// closed; dispatch over it must be exhaustive.
type Mode string

const (
	ModeAnalysis      Mode = "analysis"
	ModeImageAnalysis Mode = "image_analysis"
	ModeImaging       Mode = "imaging"
	ModeBallistics    Mode = "ballistics"
)

// ParseMode validates a wire-level mode string.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeAnalysis, ModeImageAnalysis, ModeImaging, ModeBallistics:
		return Mode(raw), nil
	}
	return "", fmt.Errorf("unknown lab mode %q", raw)
}
