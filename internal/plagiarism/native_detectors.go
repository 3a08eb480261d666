package plagiarism

import (
	"fmt"
	"os"
	"strings"

	"github.com/mini-maxit/anticheat/internal/similarity"
	"github.com/mini-maxit/anticheat/internal/stages/compiler"
	"github.com/mini-maxit/anticheat/pkg/constants"
	"github.com/mini-maxit/anticheat/utils"
)

// CSharpDetector compares ildasm listings of csc output.
type CSharpDetector struct {
	*compileDisassembleDetector
	csharpCompilerPath     string
	dotNetDisassemblerPath string
}

var _ Detector = (*CSharpDetector)(nil)

func NewCSharpDetector(csharpCompilerPath, dotNetDisassemblerPath string, finder similarity.Finder) (*CSharpDetector, error) {
	d := &CSharpDetector{
		csharpCompilerPath:     csharpCompilerPath,
		dotNetDisassemblerPath: dotNetDisassemblerPath,
	}
	base, err := newCompileDisassembleDetector(
		compiler.KindCSharp,
		compiler.KindDotNetDisassembler,
		finder,
		d,
		"csharp-detector",
	)
	if err != nil {
		return nil, err
	}
	d.compileDisassembleDetector = base
	return d, nil
}

func (d *CSharpDetector) compileCode(sourceCode string) (*compiler.CompileResult, error) {
	return compileFromTempFile(d.compiler, d.csharpCompilerPath, sourceCode,
		constants.CSharpSourceExtension, constants.CSharpCompilerAdditionalArguments)
}

func (d *CSharpDetector) disassembleFile(compiledFilePath string) (*compiler.CompileResult, error) {
	return d.disassembler.Compile(d.dotNetDisassemblerPath, compiledFilePath, "")
}

func (d *CSharpDetector) cleanupArtifacts(string) {}

// CPlusPlusDetector compares objdump listings of g++ output.
type CPlusPlusDetector struct {
	*compileDisassembleDetector
	compilerPath     string
	disassemblerPath string
}

var _ Detector = (*CPlusPlusDetector)(nil)

func NewCPlusPlusDetector(compilerPath, disassemblerPath string, finder similarity.Finder) (*CPlusPlusDetector, error) {
	d := &CPlusPlusDetector{
		compilerPath:     compilerPath,
		disassemblerPath: disassemblerPath,
	}
	base, err := newCompileDisassembleDetector(
		compiler.KindCPlusPlus,
		compiler.KindObjdumpDisassembler,
		finder,
		d,
		"cpp-detector",
	)
	if err != nil {
		return nil, err
	}
	d.compileDisassembleDetector = base
	return d, nil
}

func (d *CPlusPlusDetector) compileCode(sourceCode string) (*compiler.CompileResult, error) {
	return compileFromTempFile(d.compiler, d.compilerPath, sourceCode,
		constants.CPlusPlusSourceExtension, constants.CPlusPlusCompilerAdditionalArgument)
}

func (d *CPlusPlusDetector) disassembleFile(compiledFilePath string) (*compiler.CompileResult, error) {
	result, err := d.disassembler.Compile(d.disassemblerPath, compiledFilePath, constants.ObjdumpAdditionalArguments)
	if err != nil || !result.Success {
		return result, err
	}
	// objdump names the (randomly named) binary in its header, which would always differ.
	if err := dropLinesContaining(result.OutputFile, compiledFilePath); err != nil {
		d.logger.Warnf("Failed to normalize %s: %s", result.OutputFile, err)
	}
	return result, nil
}

func (d *CPlusPlusDetector) cleanupArtifacts(string) {}

// compileFromTempFile writes the raw source to a uniquely named temp file and compiles it.
func compileFromTempFile(
	c *compiler.ProcessCompiler,
	toolchainPath, sourceCode, extension, additionalArguments string,
) (*compiler.CompileResult, error) {
	sourceFilePath, err := utils.SaveStringToTempFile("", sourceCode, extension)
	if err != nil {
		return failedResult(fmt.Sprintf("Could not save source to a temporary file: %s", err)), nil
	}

	result, err := c.Compile(toolchainPath, sourceFilePath, additionalArguments)
	utils.RemoveFileQuietly(sourceFilePath)
	return result, err
}

func dropLinesContaining(path, needle string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(string(data), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.Contains(line, needle) {
			kept = append(kept, line)
		}
	}
	return os.WriteFile(path, []byte(strings.Join(kept, "\n")), 0644)
}
