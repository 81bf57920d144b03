package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Language tags a source descriptor.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangSolidity   Language = "solidity"
	LangMove       Language = "move"
	// LangIR marks a source that is already an IR document.
	LangIR Language = "ir"
)

var languageExtensions = map[string]Language{
	".js":   LangJavaScript,
	".mjs":  LangJavaScript,
	".py":   LangPython,
	".sol":  LangSolidity,
	".move": LangMove,
	".json": LangIR,
	".yaml": LangIR,
	".yml":  LangIR,
}

// Languages returns every known language.
func Languages() []Language {
	return []Language{LangJavaScript, LangPython, LangSolidity, LangMove, LangIR}
}

// ParseLanguage accepts a language tag such as "javascript" or "ir".
func ParseLanguage(s string) (Language, error) {
	for _, l := range Languages() {
		if string(l) == strings.ToLower(s) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown language %q", s)
}

// LanguageForPath detects the language from the file extension.
func LanguageForPath(path string) (Language, bool) {
	l, ok := languageExtensions[strings.ToLower(filepath.Ext(path))]
	return l, ok
}

// Source describes one script to translate. Extra carries language-specific
// settings for the frontend.
type Source struct {
	Lang       Language          `json:"lang"`
	Extra      map[string]string `json:"extra,omitempty"`
	ScriptName string            `json:"script_name"`
	ScriptPath string            `json:"script_path"`
	Code       string            `json:"-"`
}

// LoadSource reads path into a Source. An empty lang is detected from the
// file extension.
func LoadSource(path string, lang Language) (Source, error) {
	if lang == "" {
		detected, ok := LanguageForPath(path)
		if !ok {
			return Source{}, fmt.Errorf("cannot detect language of %q", path)
		}
		lang = detected
	}

	code, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read source: %w", err)
	}

	return Source{
		Lang:       lang,
		ScriptName: filepath.Base(path),
		ScriptPath: path,
		Code:       string(code),
	}, nil
}
