package preprocessor_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/mini-maxit/anticheat/internal/stages/preprocessor"
	pkgErr "github.com/mini-maxit/anticheat/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareJavaSubmissionFile_AppendsJavaExtension(t *testing.T) {
	dir := t.TempDir()
	source := "public class Main {\n    public static void main(String[] args) {}\n}\n"

	path, err := PrepareJavaSubmissionFile(source, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Main.java"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, source, string(data))
}

func TestPrepareJavaSubmissionFile_StripsPackage(t *testing.T) {
	dir := t.TempDir()
	source := "package org.example.task_1;\n\nimport java.util.*;\n\npublic class Solver{ }\n"

	path, err := PrepareJavaSubmissionFile(source, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Solver.java"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\n\nimport java.util.*;\n\npublic class Solver{ }\n", string(data))
}

func TestPrepareJavaSubmissionFile_DifferentPackagesSameOutput(t *testing.T) {
	body := "\npublic class Main {\n  int x = 1;\n}\n"

	first, err := PrepareJavaSubmissionFile("package a;"+body, t.TempDir())
	require.NoError(t, err)
	second, err := PrepareJavaSubmissionFile("package b;"+body, t.TempDir())
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestPrepareJavaSubmissionFile_FirstPublicClassWins(t *testing.T) {
	dir := t.TempDir()
	source := "class Helper {}\npublic class First {}\npublic class Second {}\n"

	path, err := PrepareJavaSubmissionFile(source, dir)
	require.NoError(t, err)
	assert.Equal(t, "First.java", filepath.Base(path))
}

func TestPrepareJavaSubmissionFile_NoPublicClass(t *testing.T) {
	dir := t.TempDir()
	source := "class Main {\n  public static void main(String[] args) {}\n}\n"

	_, err := PrepareJavaSubmissionFile(source, dir)
	if !errors.Is(err, pkgErr.ErrNoPublicClass) {
		t.Fatalf("expected ErrNoPublicClass, got: %v", err)
	}
	assert.ErrorIs(t, err, pkgErr.ErrInvalidSubmission)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written for a rejected submission")
}

func TestPrepareJavaSubmissionFile_MissingDirectory(t *testing.T) {
	_, err := PrepareJavaSubmissionFile("public class Main {}", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, pkgErr.ErrInvalidSubmission)
}
