package instdict

import "fmt"

// ErrorKind is one of the eleven fatal-error kinds the builder and
// line parser can raise.
type ErrorKind string

const (
	KindBadRange                     ErrorKind = "BadRange"
	KindOutOfRange                   ErrorKind = "OutOfRange"
	KindBitAlreadyAssigned           ErrorKind = "BitAlreadyAssigned"
	KindUnknownArg                   ErrorKind = "UnknownArg"
	KindArgOverlap                   ErrorKind = "ArgOverlap"
	KindDuplicateSameBase            ErrorKind = "DuplicateSameBase"
	KindEncodingConflict             ErrorKind = "EncodingConflict"
	KindCrossInstructionOverlap      ErrorKind = "CrossInstructionOverlap"
	KindMissingDependencyFile        ErrorKind = "MissingDependencyFile"
	KindMissingDependencyInstruction ErrorKind = "MissingDependencyInstruction"
	KindCannotExpandNf               ErrorKind = "CannotExpandNf"
)

// FatalError is the one error type every core failure surfaces as:
// every error is reported at its detection site, naming the mnemonic
// and the offending filename. The CLI logs it at ERROR and aborts the
// run; there is no recovery path.
type FatalError struct {
	Kind     ErrorKind
	Mnemonic string
	File     string // source filename, when known; "" if not applicable
	Detail   string
}

func (e *FatalError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s (file %s): %s", e.Kind, e.Mnemonic, e.File, e.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Mnemonic, e.Detail)
}

func fatal(kind ErrorKind, mnemonic, file, format string, args ...any) *FatalError {
	return &FatalError{Kind: kind, Mnemonic: mnemonic, File: file, Detail: fmt.Sprintf(format, args...)}
}

// NewFatal is the exported constructor other packages (encline, the
// dictionary builder, segexpand) use to report a fatal error.
func NewFatal(kind ErrorKind, mnemonic, file, format string, args ...any) *FatalError {
	return fatal(kind, mnemonic, file, format, args...)
}
