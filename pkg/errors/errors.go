package errors

import "errors"

// Contract violations. These signal a caller bug and are never turned into results.
var (
	ErrToolchainPathRequired   = errors.New("toolchain path is required")
	ErrInputFileRequired       = errors.New("input file is required")
	ErrUnsupportedCompilerKind = errors.New("unsupported compiler kind")
)

// Submission and request errors.
var (
	ErrInvalidSubmission   = errors.New("invalid submission")
	ErrNoPublicClass       = errors.New("no valid public class found")
	ErrInvalidLanguageType = errors.New("invalid language type")
	ErrLanguageNotEnabled  = errors.New("language is not enabled on this worker")
	ErrUnknownVisitor      = errors.New("unknown visitor")
	ErrUnknownMessageType  = errors.New("unknown message type")
	ErrDetectorClosed      = errors.New("detector is closed")
	ErrResponderClosed     = errors.New("responder is closed")
)
