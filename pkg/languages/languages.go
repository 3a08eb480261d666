package languages

import (
	"sort"
	"strings"

	"github.com/mini-maxit/anticheat/pkg/constants"
	"github.com/mini-maxit/anticheat/pkg/errors"
)

type LanguageType int

const (
	JAVA LanguageType = iota + 1
	CSHARP
	CPP
)

func (lt LanguageType) String() string {
	for key, value := range LanguageTypeMap {
		if value == lt {
			return key
		}
	}
	return ""
}

var LanguageTypeMap = map[string]LanguageType{
	"JAVA":   JAVA,
	"CSHARP": CSHARP,
	"CPP":    CPP,
}

var LanguageExtensionMap = map[LanguageType]string{
	JAVA:   constants.JavaSourceExtension,
	CSHARP: constants.CSharpSourceExtension,
	CPP:    constants.CPlusPlusSourceExtension,
}

// LanguageSpec describes a language a worker can check, as advertised in the handshake.
type LanguageSpec struct {
	LanguageName string `json:"name"`
	Extension    string `json:"extension"`
}

func ParseLanguageType(s string) (LanguageType, error) {
	if lt, ok := LanguageTypeMap[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return lt, nil
	}
	return 0, errors.ErrInvalidLanguageType
}

// ParseLanguageList parses a comma separated list such as "JAVA,CPP".
func ParseLanguageList(s string) ([]LanguageType, error) {
	var result []LanguageType
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		lt, err := ParseLanguageType(part)
		if err != nil {
			return nil, err
		}
		result = append(result, lt)
	}
	return result, nil
}

// GetLanguageSpecs returns the specs of the given languages ordered by name.
func GetLanguageSpecs(langs []LanguageType) []LanguageSpec {
	specs := make([]LanguageSpec, 0, len(langs))
	for _, lt := range langs {
		specs = append(specs, LanguageSpec{
			LanguageName: lt.String(),
			Extension:    LanguageExtensionMap[lt],
		})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].LanguageName < specs[j].LanguageName })
	return specs
}
