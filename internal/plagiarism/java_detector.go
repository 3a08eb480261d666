package plagiarism

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mini-maxit/anticheat/internal/similarity"
	"github.com/mini-maxit/anticheat/internal/stages/compiler"
	"github.com/mini-maxit/anticheat/internal/stages/preprocessor"
	"github.com/mini-maxit/anticheat/pkg/constants"
	pkgErr "github.com/mini-maxit/anticheat/pkg/errors"
	"github.com/mini-maxit/anticheat/utils"
)

// JavaDetector compares javap disassemblies of javac output. It owns a temporary working
// directory which Close removes.
type JavaDetector struct {
	*compileDisassembleDetector
	javaCompilerPath     string
	javaDisassemblerPath string
	workingDirectory     string
}

var _ Detector = (*JavaDetector)(nil)

func NewJavaDetector(javaCompilerPath, javaDisassemblerPath string, finder similarity.Finder) (*JavaDetector, error) {
	workingDirectory, err := os.MkdirTemp("", "anticheat-java-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create java working directory: %w", err)
	}

	d := &JavaDetector{
		javaCompilerPath:     javaCompilerPath,
		javaDisassemblerPath: javaDisassemblerPath,
		workingDirectory:     workingDirectory,
	}
	base, err := newCompileDisassembleDetector(
		compiler.KindJava,
		compiler.KindJavaDisassembler,
		finder,
		d,
		"java-detector",
	)
	if err != nil {
		_ = utils.RemoveIO(workingDirectory, true, true)
		return nil, err
	}
	d.compileDisassembleDetector = base
	return d, nil
}

// compileCode gives every submission its own directory, since two submissions
// usually share the same public class name.
func (d *JavaDetector) compileCode(sourceCode string) (*compiler.CompileResult, error) {
	submissionDir, err := os.MkdirTemp(d.workingDirectory, "submission-*")
	if err != nil {
		return failedResult(fmt.Sprintf("Could not create submission directory: %s", err)), nil
	}

	sourceFilePath, err := preprocessor.PrepareJavaSubmissionFile(sourceCode, submissionDir)
	if err != nil {
		_ = utils.RemoveIO(submissionDir, true, true)
		if errors.Is(err, pkgErr.ErrInvalidSubmission) {
			return nil, err
		}
		return failedResult(err.Error()), nil
	}

	result, err := d.compiler.Compile(d.javaCompilerPath, sourceFilePath, "")
	utils.RemoveFileQuietly(sourceFilePath)
	if err != nil || !result.Success {
		_ = utils.RemoveIO(submissionDir, true, true)
	}
	return result, err
}

func (d *JavaDetector) disassembleFile(compiledFilePath string) (*compiler.CompileResult, error) {
	return d.disassembler.Compile(d.javaDisassemblerPath, compiledFilePath, constants.JavaDisassemblerAdditionalArguments)
}

// cleanupArtifacts removes the submission directory, including nested class files javac may emit.
func (d *JavaDetector) cleanupArtifacts(compiledFilePath string) {
	submissionDir := filepath.Dir(compiledFilePath)
	if filepath.Dir(submissionDir) != d.workingDirectory || !strings.HasPrefix(filepath.Base(submissionDir), "submission-") {
		return
	}
	if err := utils.RemoveIO(submissionDir, true, false); err != nil {
		d.logger.Debugf("Failed to remove %s: %s", submissionDir, err)
	}
}

// Close drops the cache and removes the working directory.
func (d *JavaDetector) Close() error {
	_ = d.compileDisassembleDetector.Close()
	if err := utils.RemoveIO(d.workingDirectory, true, false); err != nil {
		d.logger.Debugf("Failed to remove working directory %s: %s", d.workingDirectory, err)
	}
	return nil
}
