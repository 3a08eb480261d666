package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mini-maxit/anticheat/internal/logger"
	"github.com/mini-maxit/anticheat/pkg/constants"
	"github.com/mini-maxit/anticheat/pkg/errors"
	"github.com/mini-maxit/anticheat/utils"
	"go.uber.org/zap"
)

// ProcessCompiler runs an external toolchain as a child process. The steps are fixed,
// the Variant decides file naming and arguments.
type ProcessCompiler struct {
	variant Variant
	timeout time.Duration
	grace   time.Duration
	logger  *zap.SugaredLogger
}

func NewProcessCompiler(variant Variant) *ProcessCompiler {
	return &ProcessCompiler{
		variant: variant,
		timeout: constants.ToolchainProcessExitTimeout,
		grace:   constants.ToolchainStreamGracePeriod,
		logger:  logger.NewNamedLogger("compiler"),
	}
}

// Compile invokes the toolchain on inputFile. The input file is consumed: it is removed once the
// toolchain has run. An error is returned only for contract violations; every environment
// failure is reported through an unsuccessful CompileResult.
func (pc *ProcessCompiler) Compile(toolchainPath, inputFile, additionalArguments string) (*CompileResult, error) {
	if toolchainPath == "" {
		return nil, errors.ErrToolchainPathRequired
	}
	if inputFile == "" {
		return nil, errors.ErrInputFileRequired
	}

	if !regularFileExists(toolchainPath) {
		return newFailedResult(fmt.Sprintf("Toolchain not found! Searched in: %s", toolchainPath)), nil
	}
	if !regularFileExists(inputFile) {
		return newFailedResult(fmt.Sprintf("Input file not found! Searched in: %s", inputFile)), nil
	}

	if abs, err := filepath.Abs(inputFile); err == nil {
		inputFile = abs
	}

	// Move source file if the toolchain expects another name.
	newInputFile := pc.variant.RenameInputFile(inputFile)
	if newInputFile != inputFile {
		if err := utils.MoveFile(inputFile, newInputFile); err != nil {
			pc.logger.Errorf("Failed to move input file %s to %s: %s", inputFile, newInputFile, err)
			return newFailedResult(fmt.Sprintf("Could not move input file to %s: %s", newInputFile, err)), nil
		}
		inputFile = newInputFile
	}
	defer utils.RemoveFileQuietly(inputFile)

	outputFile := pc.variant.OutputFileName(inputFile)
	arguments := pc.variant.BuildArguments(inputFile, outputFile, additionalArguments)

	toolchainDir, err := toolchainDirectory(toolchainPath)
	if err != nil {
		return newFailedResult(fmt.Sprintf("Toolchain directory is null. Toolchain path value: %s", toolchainPath)), nil
	}

	info := &StartInfo{
		Path:       toolchainPath,
		Args:       arguments,
		Dir:        toolchainDir,
		InputFile:  inputFile,
		OutputFile: outputFile,
	}
	pc.variant.AdjustProcessStart(info)

	pc.logger.Debugf("Running %s %s", info.Path, strings.Join(info.Args, " "))
	toolchainOutput := pc.executeToolchain(info)

	outputFile = pc.variant.PostProcessOutputFile(outputFile)

	if !regularFileExists(outputFile) {
		pc.logger.Infof("Toolchain %s produced no output for %s", filepath.Base(toolchainPath), inputFile)
		return newFailedResult(fmt.Sprintf("Compiled file is missing. Toolchain output: %s", toolchainOutput)), nil
	}

	// Output exists but the toolchain reported something, most likely warnings.
	if strings.TrimSpace(toolchainOutput) != "" {
		return newSuccessResult(outputFile, toolchainOutput), nil
	}

	return newSuccessResult(outputFile, ""), nil
}

func toolchainDirectory(toolchainPath string) (string, error) {
	abs, err := filepath.Abs(toolchainPath)
	if err != nil {
		return "", err
	}
	return filepath.Dir(abs), nil
}

func regularFileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
