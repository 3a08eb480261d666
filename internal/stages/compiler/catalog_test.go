package compiler_test

import (
	"errors"
	"path/filepath"
	"testing"

	. "github.com/mini-maxit/anticheat/internal/stages/compiler"
	pkgErr "github.com/mini-maxit/anticheat/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVariant_None(t *testing.T) {
	v, err := NewVariant(KindNone)
	require.NoError(t, err)
	assert.Nil(t, v)

	c, err := NewCompiler(KindNone)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewVariant_Unsupported(t *testing.T) {
	_, err := NewVariant(Kind(99))
	if !errors.Is(err, pkgErr.ErrUnsupportedCompilerKind) {
		t.Fatalf("expected ErrUnsupportedCompilerKind, got: %v", err)
	}
}

func TestNewVariant_AllKinds(t *testing.T) {
	kinds := map[Kind]Variant{
		KindCSharp:              CSharpCompiler{},
		KindCPlusPlus:           CPlusPlusCompiler{},
		KindMsBuild:             MsBuildCompiler{},
		KindJava:                JavaCompiler{},
		KindJavaDisassembler:    JavaDisassembler{},
		KindDotNetDisassembler:  DotNetDisassembler{},
		KindObjdumpDisassembler: ObjdumpDisassembler{},
	}
	for kind, want := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			v, err := NewVariant(kind)
			require.NoError(t, err)
			assert.Equal(t, want, v)

			c, err := NewCompiler(kind)
			require.NoError(t, err)
			assert.Equal(t, want, c.Variant())
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" JavaP ")
	require.NoError(t, err)
	assert.Equal(t, KindJavaDisassembler, k)

	_, err = ParseKind("fortran")
	assert.ErrorIs(t, err, pkgErr.ErrUnsupportedCompilerKind)
}

func TestVariantNaming(t *testing.T) {
	dir := filepath.Join("/", "work")
	in := filepath.Join(dir, "Main.java")

	tcs := []struct {
		name    string
		variant Variant
		input   string
		output  string
	}{
		{"csharp", CSharpCompiler{}, filepath.Join(dir, "a.cs"), filepath.Join(dir, "a.cs.exe")},
		{"cpp", CPlusPlusCompiler{}, filepath.Join(dir, "a.cpp"), filepath.Join(dir, "a.cpp") + ExecutableSuffix()},
		{"msbuild", MsBuildCompiler{}, filepath.Join(dir, "App.csproj"), filepath.Join(dir, "bin", "App.exe")},
		{"java", JavaCompiler{}, in, filepath.Join(dir, "Main.class")},
		{"javap", JavaDisassembler{}, filepath.Join(dir, "Main.class"), filepath.Join(dir, "Main.class.txt")},
		{"ildasm", DotNetDisassembler{}, filepath.Join(dir, "a.exe"), filepath.Join(dir, "a.exe.il")},
		{"objdump", ObjdumpDisassembler{}, filepath.Join(dir, "a.out"), filepath.Join(dir, "a.out.txt")},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.output, tc.variant.OutputFileName(tc.input))
		})
	}
}

func TestVariantArguments(t *testing.T) {
	tcs := []struct {
		name    string
		variant Variant
		want    []string
	}{
		{"csharp", CSharpCompiler{}, []string{"/out:out", "/optimize+", "/nologo", "in"}},
		{"cpp", CPlusPlusCompiler{}, []string{"-o", "out", "/optimize+", "/nologo", "in"}},
		{"java", JavaCompiler{}, []string{"/optimize+", "/nologo", "in"}},
		{"javap", JavaDisassembler{}, []string{"/optimize+", "/nologo", "in"}},
		{"ildasm", DotNetDisassembler{}, []string{"in", "/out=out", "/optimize+", "/nologo"}},
		{"objdump", ObjdumpDisassembler{}, []string{"/optimize+", "/nologo", "-d", "in"}},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.variant.BuildArguments("in", "out", " /optimize+  /nologo "))
		})
	}
}

func TestMsBuildArguments(t *testing.T) {
	out := filepath.Join("proj", "bin", "App.exe")
	args := MsBuildCompiler{}.BuildArguments("App.csproj", out, "/p:Configuration=Release")
	assert.Equal(t, []string{
		"App.csproj",
		"/nologo",
		"/p:OutputPath=" + filepath.Join("proj", "bin") + string(filepath.Separator),
		"/p:AssemblyName=App",
		"/p:Configuration=Release",
	}, args)
}

func TestRenameAndRedirectHooks(t *testing.T) {
	assert.Equal(t, "/w/Main.java", JavaCompiler{}.RenameInputFile("/w/Main"))
	assert.Equal(t, "/w/Main.java", JavaCompiler{}.RenameInputFile("/w/Main.java"))
	assert.Equal(t, "/w/a.cs", CSharpCompiler{}.RenameInputFile("/w/a.cs"))

	info := &StartInfo{OutputFile: "/w/Main.class.txt"}
	JavaDisassembler{}.AdjustProcessStart(info)
	assert.Equal(t, "/w/Main.class.txt", info.StdoutFile)

	info = &StartInfo{OutputFile: "/w/a.exe"}
	CSharpCompiler{}.AdjustProcessStart(info)
	assert.Empty(t, info.StdoutFile)
}
