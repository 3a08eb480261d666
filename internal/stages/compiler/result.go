package compiler

// CompileResult is the outcome of a single toolchain invocation.
// OutputFile is set iff Success is true; the caller owns the file and removes it once consumed.
type CompileResult struct {
	Success    bool
	Message    string
	OutputFile string
}

func newFailedResult(message string) *CompileResult {
	return &CompileResult{Success: false, Message: message}
}

func newSuccessResult(outputFile, message string) *CompileResult {
	return &CompileResult{Success: true, Message: message, OutputFile: outputFile}
}
