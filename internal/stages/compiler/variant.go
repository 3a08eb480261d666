package compiler

import (
	"runtime"
	"strings"

	"github.com/mini-maxit/anticheat/pkg/constants"
)

// StartInfo holds the parameters the child process is started with.
// StdoutFile, when set, receives the child's standard output instead of the captured message.
type StartInfo struct {
	Path       string
	Args       []string
	Dir        string
	Env        []string
	InputFile  string
	OutputFile string
	StdoutFile string
}

// Variant customizes how ProcessCompiler drives one kind of toolchain.
type Variant interface {
	RenameInputFile(inputFile string) string
	OutputFileName(inputFileName string) string
	PostProcessOutputFile(outputFile string) string
	BuildArguments(inputFile, outputFile, additionalArguments string) []string
	AdjustProcessStart(info *StartInfo)
}

// BaseVariant provides the default hooks. Concrete variants embed it and implement BuildArguments.
type BaseVariant struct{}

func (BaseVariant) RenameInputFile(inputFile string) string {
	return inputFile
}

func (BaseVariant) OutputFileName(inputFileName string) string {
	return inputFileName + ExecutableSuffix()
}

func (BaseVariant) PostProcessOutputFile(outputFile string) string {
	return outputFile
}

func (BaseVariant) AdjustProcessStart(_ *StartInfo) {}

// ExecutableSuffix is the platform-conventional suffix of compiled artifacts.
func ExecutableSuffix() string {
	if runtime.GOOS == "windows" {
		return constants.WindowsExecutableExt
	}
	return constants.UnixExecutableExt
}

// splitArguments splits a free-form argument string the way a command line would, minus quoting.
func splitArguments(additionalArguments string) []string {
	return strings.Fields(additionalArguments)
}
