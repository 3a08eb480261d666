package compiler

import (
	"fmt"
	"strings"

	"github.com/mini-maxit/anticheat/pkg/errors"
)

type Kind int

const (
	KindNone Kind = iota
	KindCSharp
	KindCPlusPlus
	KindMsBuild
	KindJava
	KindJavaDisassembler
	KindDotNetDisassembler
	KindObjdumpDisassembler
)

var kindNames = map[Kind]string{
	KindNone:                "none",
	KindCSharp:              "csharp",
	KindCPlusPlus:           "cpp",
	KindMsBuild:             "msbuild",
	KindJava:                "java",
	KindJavaDisassembler:    "javap",
	KindDotNetDisassembler:  "ildasm",
	KindObjdumpDisassembler: "objdump",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for kind, name := range kindNames {
		if name == s {
			return kind, nil
		}
	}
	return KindNone, fmt.Errorf("%w: %q", errors.ErrUnsupportedCompilerKind, s)
}

// NewVariant returns the strategy for kind. KindNone yields a nil Variant and no error,
// meaning no compilation was requested.
func NewVariant(kind Kind) (Variant, error) {
	switch kind {
	case KindNone:
		return nil, nil
	case KindCSharp:
		return CSharpCompiler{}, nil
	case KindCPlusPlus:
		return CPlusPlusCompiler{}, nil
	case KindMsBuild:
		return MsBuildCompiler{}, nil
	case KindJava:
		return JavaCompiler{}, nil
	case KindJavaDisassembler:
		return JavaDisassembler{}, nil
	case KindDotNetDisassembler:
		return DotNetDisassembler{}, nil
	case KindObjdumpDisassembler:
		return ObjdumpDisassembler{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedCompilerKind, kind)
	}
}

// NewCompiler builds a ProcessCompiler for kind. KindNone yields nil.
func NewCompiler(kind Kind) (*ProcessCompiler, error) {
	variant, err := NewVariant(kind)
	if err != nil || variant == nil {
		return nil, err
	}
	return NewProcessCompiler(variant), nil
}
