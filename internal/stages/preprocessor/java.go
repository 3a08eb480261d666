package preprocessor

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/mini-maxit/anticheat/pkg/constants"
	"github.com/mini-maxit/anticheat/pkg/errors"
)

var (
	javaPackageRegex   = regexp.MustCompile(`\bpackage\s+[a-zA-Z_][a-zA-Z_.0-9]{0,150}\s*;`)
	javaClassNameRegex = regexp.MustCompile(`public\s+class\s+([a-zA-Z_][a-zA-Z_0-9]{0,50})\s*{`)
)

// PrepareJavaSubmissionFile writes sourceCode to <directory>/<PublicClass>.java and returns the path.
// Package declarations are removed because the file is compiled outside any package tree.
// A submission without a public class is rejected, even if a non-public class declares main.
func PrepareJavaSubmissionFile(sourceCode, directory string) (string, error) {
	sourceCode = javaPackageRegex.ReplaceAllString(sourceCode, "")

	match := javaClassNameRegex.FindStringSubmatch(sourceCode)
	if match == nil {
		return "", fmt.Errorf("%w: %w", errors.ErrInvalidSubmission, errors.ErrNoPublicClass)
	}

	submissionFilePath := filepath.Join(directory, match[1]+constants.JavaSourceExtension)
	if err := os.WriteFile(submissionFilePath, []byte(sourceCode), 0644); err != nil {
		return "", fmt.Errorf("failed to write submission file: %w", err)
	}

	return submissionFilePath, nil
}
