package compiler

import (
	"path/filepath"
	"strings"

	"github.com/mini-maxit/anticheat/pkg/constants"
)

// JavaCompiler drives javac. javac requires the source file to end in .java and
// writes <ClassName>.class next to it.
type JavaCompiler struct {
	BaseVariant
}

func (JavaCompiler) RenameInputFile(inputFile string) string {
	if strings.EqualFold(filepath.Ext(inputFile), constants.JavaSourceExtension) {
		return inputFile
	}
	return inputFile + constants.JavaSourceExtension
}

func (JavaCompiler) OutputFileName(inputFileName string) string {
	return strings.TrimSuffix(inputFileName, filepath.Ext(inputFileName)) + constants.JavaClassExtension
}

func (JavaCompiler) BuildArguments(inputFile, _, additionalArguments string) []string {
	args := splitArguments(additionalArguments)
	return append(args, inputFile)
}

// JavaDisassembler drives javap. The disassembly goes to standard output, so it is
// redirected into a text file next to the class file.
type JavaDisassembler struct {
	BaseVariant
}

func (JavaDisassembler) OutputFileName(inputFileName string) string {
	return inputFileName + constants.DisassemblyExtension
}

func (JavaDisassembler) BuildArguments(inputFile, _, additionalArguments string) []string {
	args := splitArguments(additionalArguments)
	return append(args, inputFile)
}

func (JavaDisassembler) AdjustProcessStart(info *StartInfo) {
	info.StdoutFile = info.OutputFile
}
