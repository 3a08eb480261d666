package services

import (
	"fmt"
	"sync"

	"github.com/mini-maxit/anticheat/internal/config"
	"github.com/mini-maxit/anticheat/internal/logger"
	"github.com/mini-maxit/anticheat/internal/plagiarism"
	"github.com/mini-maxit/anticheat/pkg/errors"
	"github.com/mini-maxit/anticheat/pkg/languages"
	"github.com/mini-maxit/anticheat/pkg/messages"
	"go.uber.org/zap"
)

type DetectionService interface {
	Detect(task *messages.PlagiarismTaskMessage) (*messages.PlagiarismResultPayload, error)
	SupportedLanguages() []languages.LanguageSpec
	Visitors() []string
	Close() error
}

// DetectorFactory builds the pipeline of one language.
type DetectorFactory func(lang languages.LanguageType, toolchain config.Toolchain) (plagiarism.Detector, error)

func NewDetector(lang languages.LanguageType, toolchain config.Toolchain) (plagiarism.Detector, error) {
	switch lang {
	case languages.JAVA:
		return plagiarism.NewJavaDetector(toolchain.CompilerPath, toolchain.DisassemblerPath, nil)
	case languages.CSHARP:
		return plagiarism.NewCSharpDetector(toolchain.CompilerPath, toolchain.DisassemblerPath, nil)
	case languages.CPP:
		return plagiarism.NewCPlusPlusDetector(toolchain.CompilerPath, toolchain.DisassemblerPath, nil)
	default:
		return nil, errors.ErrInvalidLanguageType
	}
}

type detectionService struct {
	enabled    []languages.LanguageType
	toolchains map[languages.LanguageType]config.Toolchain
	newFn      DetectorFactory
	logger     *zap.SugaredLogger

	mu        sync.Mutex
	detectors map[languages.LanguageType]plagiarism.Detector
}

// NewDetectionService serves the languages enabled in cfg. Detectors are built on first use and
// shared by every later request for the same language.
func NewDetectionService(cfg *config.Config, factory DetectorFactory) DetectionService {
	if factory == nil {
		factory = NewDetector
	}
	return &detectionService{
		enabled:    cfg.EnabledLanguages,
		toolchains: cfg.Toolchains,
		newFn:      factory,
		logger:     logger.NewNamedLogger("detection-service"),
		detectors:  make(map[languages.LanguageType]plagiarism.Detector),
	}
}

func (ds *detectionService) Detect(task *messages.PlagiarismTaskMessage) (*messages.PlagiarismResultPayload, error) {
	lang, err := languages.ParseLanguageType(task.LanguageType)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, task.LanguageType)
	}

	visitors, err := plagiarism.VisitorsByName(task.Visitors)
	if err != nil {
		return nil, err
	}

	detector, err := ds.detector(lang)
	if err != nil {
		return nil, err
	}

	ds.logger.Infof("Comparing %s submissions with %d visitor(s)", lang, len(visitors))
	result, err := detector.DetectPlagiarism(task.FirstSource, task.SecondSource, visitors...)
	if err != nil {
		return nil, err
	}
	if result.IsDegraded() {
		ds.logger.Infof("At least one %s submission could not be compiled, returning zero result", lang)
	}

	return toPayload(result), nil
}

func (ds *detectionService) detector(lang languages.LanguageType) (plagiarism.Detector, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if d, ok := ds.detectors[lang]; ok {
		return d, nil
	}

	toolchain, ok := ds.toolchains[lang]
	if !ok || !ds.isEnabled(lang) {
		return nil, fmt.Errorf("%w: %s", errors.ErrLanguageNotEnabled, lang)
	}

	d, err := ds.newFn(lang, toolchain)
	if err != nil {
		ds.logger.Errorf("Failed to create %s detector: %s", lang, err)
		return nil, err
	}
	ds.detectors[lang] = d
	return d, nil
}

func (ds *detectionService) isEnabled(lang languages.LanguageType) bool {
	for _, l := range ds.enabled {
		if l == lang {
			return true
		}
	}
	return false
}

func (ds *detectionService) SupportedLanguages() []languages.LanguageSpec {
	return languages.GetLanguageSpecs(ds.enabled)
}

func (ds *detectionService) Visitors() []string {
	return plagiarism.VisitorNames()
}

// Close releases every detector built so far. The first error is returned.
func (ds *detectionService) Close() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	var firstErr error
	for lang, d := range ds.detectors {
		if err := d.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(ds.detectors, lang)
	}
	return firstErr
}

func toPayload(result *plagiarism.Result) *messages.PlagiarismResultPayload {
	differences := make([]messages.Difference, 0, len(result.Differences))
	for _, d := range result.Differences {
		differences = append(differences, messages.Difference{
			StartA:    d.StartA,
			StartB:    d.StartB,
			DeletedA:  d.DeletedA,
			InsertedB: d.InsertedB,
		})
	}
	return &messages.PlagiarismResultPayload{
		Percentage:      result.Percentage.String(),
		Differences:     differences,
		FirstToCompare:  result.FirstToCompare,
		SecondToCompare: result.SecondToCompare,
	}
}
