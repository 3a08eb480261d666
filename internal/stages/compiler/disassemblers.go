package compiler

import "github.com/mini-maxit/anticheat/pkg/constants"

// DotNetDisassembler drives ildasm, which writes the IL listing itself.
type DotNetDisassembler struct {
	BaseVariant
}

func (DotNetDisassembler) OutputFileName(inputFileName string) string {
	return inputFileName + constants.IntermediateLangExt
}

func (DotNetDisassembler) BuildArguments(inputFile, outputFile, additionalArguments string) []string {
	args := []string{inputFile, "/out=" + outputFile}
	return append(args, splitArguments(additionalArguments)...)
}

// ObjdumpDisassembler drives objdump -d for native binaries.
type ObjdumpDisassembler struct {
	BaseVariant
}

func (ObjdumpDisassembler) OutputFileName(inputFileName string) string {
	return inputFileName + constants.DisassemblyExtension
}

func (ObjdumpDisassembler) BuildArguments(inputFile, _, additionalArguments string) []string {
	args := splitArguments(additionalArguments)
	return append(args, "-d", inputFile)
}

func (ObjdumpDisassembler) AdjustProcessStart(info *StartInfo) {
	info.StdoutFile = info.OutputFile
}
