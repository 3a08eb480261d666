package plagiarism

import (
	"fmt"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/mini-maxit/anticheat/internal/logger"
	"github.com/mini-maxit/anticheat/internal/similarity"
	"github.com/mini-maxit/anticheat/internal/stages/compiler"
	"github.com/mini-maxit/anticheat/pkg/errors"
	"github.com/mini-maxit/anticheat/utils"
	"go.uber.org/zap"
)

// Detector compares two submissions written in the same language.
type Detector interface {
	DetectPlagiarism(firstSource, secondSource string, visitors ...Visitor) (*Result, error)
	Close() error
}

// languageSteps are the parts of the pipeline that differ per language.
type languageSteps interface {
	compileCode(sourceCode string) (*compiler.CompileResult, error)
	disassembleFile(compiledFilePath string) (*compiler.CompileResult, error)
	// cleanupArtifacts runs after the disassembly of compiledFilePath has been read or has failed.
	cleanupArtifacts(compiledFilePath string)
}

// compileDisassembleDetector compiles each submission, disassembles the artifact and diffs
// the two disassemblies. Comparable texts are cached per submitted source for the detector's lifetime.
type compileDisassembleDetector struct {
	compiler     *compiler.ProcessCompiler
	disassembler *compiler.ProcessCompiler
	finder       similarity.Finder
	steps        languageSteps
	logger       *zap.SugaredLogger

	mu           sync.Mutex
	closed       bool
	sourcesCache map[string]string
}

func newCompileDisassembleDetector(
	compilerKind compiler.Kind,
	disassemblerKind compiler.Kind,
	finder similarity.Finder,
	steps languageSteps,
	name string,
) (*compileDisassembleDetector, error) {
	sourceCompiler, err := compiler.NewCompiler(compilerKind)
	if err != nil {
		return nil, err
	}
	disassembler, err := compiler.NewCompiler(disassemblerKind)
	if err != nil {
		return nil, err
	}
	if sourceCompiler == nil || disassembler == nil {
		return nil, fmt.Errorf("%w: %s needs a compiler and a disassembler", errors.ErrUnsupportedCompilerKind, name)
	}
	if finder == nil {
		finder = similarity.NewLineFinder()
	}
	return &compileDisassembleDetector{
		compiler:     sourceCompiler,
		disassembler: disassembler,
		finder:       finder,
		steps:        steps,
		logger:       logger.NewNamedLogger(name),
		sourcesCache: make(map[string]string),
	}, nil
}

// DetectPlagiarism compares the two sources. A compilation or disassembly failure on either side
// yields the degraded zero result, not an error. Errors are returned for invalid submissions and
// contract violations only.
func (d *compileDisassembleDetector) DetectPlagiarism(
	firstSource, secondSource string,
	visitors ...Visitor,
) (*Result, error) {
	if d.isClosed() {
		return nil, errors.ErrDetectorClosed
	}

	firstFileContent, ok, err := d.comparableText(firstSource)
	if err != nil {
		return nil, err
	}
	if !ok {
		return newDegradedResult(), nil
	}

	secondFileContent, ok, err := d.comparableText(secondSource)
	if err != nil {
		return nil, err
	}
	if !ok {
		return newDegradedResult(), nil
	}

	for _, visitor := range visitors {
		if visitor == nil {
			continue
		}
		firstFileContent = visitor.Visit(firstFileContent)
		secondFileContent = visitor.Visit(secondFileContent)
	}

	differences := d.finder.DiffText(firstFileContent, secondFileContent, similarity.Options{
		TrimSpace:   true,
		IgnoreSpace: true,
		IgnoreCase:  true,
	})

	editVolume := similarity.EditVolume(differences)
	textLength := utf8.RuneCountInString(firstFileContent) + utf8.RuneCountInString(secondFileContent)

	return &Result{
		Percentage:      percentage(editVolume, textLength),
		Differences:     differences,
		FirstToCompare:  firstFileContent,
		SecondToCompare: secondFileContent,
	}, nil
}

// comparableText returns the disassembly of source. ok is false when the source could not be
// compiled or disassembled.
func (d *compileDisassembleDetector) comparableText(source string) (text string, ok bool, err error) {
	if cached, found := d.cached(source); found {
		return cached, true, nil
	}

	compileResult, err := d.steps.compileCode(source)
	if err != nil {
		return "", false, err
	}
	if !compileResult.Success {
		d.logger.Infof("Compilation failed: %s", compileResult.Message)
		return "", false, nil
	}
	defer d.steps.cleanupArtifacts(compileResult.OutputFile)

	disassemblerResult, err := d.steps.disassembleFile(compileResult.OutputFile)
	utils.RemoveFileQuietly(compileResult.OutputFile)
	if err != nil {
		return "", false, err
	}
	if !disassemblerResult.Success {
		d.logger.Infof("Disassembly failed: %s", disassemblerResult.Message)
		return "", false, nil
	}

	data, readErr := os.ReadFile(disassemblerResult.OutputFile)
	utils.RemoveFileQuietly(disassemblerResult.OutputFile)
	if readErr != nil {
		d.logger.Warnf("Failed to read disassembly %s: %s", disassemblerResult.OutputFile, readErr)
		return "", false, nil
	}

	text = string(data)
	d.store(source, text)
	return text, true, nil
}

func (d *compileDisassembleDetector) cached(source string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	text, ok := d.sourcesCache[source]
	return text, ok
}

func (d *compileDisassembleDetector) store(source, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sourcesCache[source] = text
}

func (d *compileDisassembleDetector) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Close drops the cache. Further detections fail with ErrDetectorClosed.
func (d *compileDisassembleDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.sourcesCache = make(map[string]string)
	return nil
}

func failedResult(message string) *compiler.CompileResult {
	return &compiler.CompileResult{Success: false, Message: message}
}
