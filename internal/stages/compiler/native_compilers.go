package compiler

import (
	"path/filepath"
	"strings"

	"github.com/mini-maxit/anticheat/pkg/constants"
)

// CSharpCompiler drives csc. It always produces a PE executable.
type CSharpCompiler struct {
	BaseVariant
}

func (CSharpCompiler) OutputFileName(inputFileName string) string {
	return inputFileName + constants.WindowsExecutableExt
}

func (CSharpCompiler) BuildArguments(inputFile, outputFile, additionalArguments string) []string {
	args := []string{"/out:" + outputFile}
	args = append(args, splitArguments(additionalArguments)...)
	return append(args, inputFile)
}

// CPlusPlusCompiler drives g++.
type CPlusPlusCompiler struct {
	BaseVariant
}

func (CPlusPlusCompiler) BuildArguments(inputFile, outputFile, additionalArguments string) []string {
	args := []string{"-o", outputFile}
	args = append(args, splitArguments(additionalArguments)...)
	return append(args, inputFile)
}

// MsBuildCompiler builds a project or solution file into <project dir>/bin/<project name>.exe.
type MsBuildCompiler struct {
	BaseVariant
}

func (MsBuildCompiler) OutputFileName(inputFileName string) string {
	name := strings.TrimSuffix(filepath.Base(inputFileName), filepath.Ext(inputFileName))
	return filepath.Join(filepath.Dir(inputFileName), "bin", name+constants.WindowsExecutableExt)
}

func (MsBuildCompiler) BuildArguments(inputFile, outputFile, additionalArguments string) []string {
	name := strings.TrimSuffix(filepath.Base(outputFile), filepath.Ext(outputFile))
	args := []string{
		inputFile,
		"/nologo",
		"/p:OutputPath=" + filepath.Dir(outputFile) + string(filepath.Separator),
		"/p:AssemblyName=" + name,
	}
	return append(args, splitArguments(additionalArguments)...)
}
