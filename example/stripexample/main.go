// Command stripexample reads a template file, picks the language from its
// extension (.astro or .svelte), strips its whitespace gaps, and prints the
// result to stdout and the source map to stderr.
//
// It exists to exercise the public API end to end; it takes exactly one
// file argument and has no flags or output-path handling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tmplstrip/tmplstrip"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <file.astro|file.svelte>\n", filepath.Base(os.Args[0]))
		os.Exit(1)
	}

	path := os.Args[1]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	lang, err := languageFromExt(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	code, mapJSON, err := tmplstrip.StripWithMap(string(src), filepath.Base(path), lang, tmplstrip.StripConfig{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "strip:", err)
		os.Exit(1)
	}

	fmt.Println(string(code))
	fmt.Fprintln(os.Stderr, "--- sourcemap ---")
	fmt.Fprintln(os.Stderr, string(mapJSON))
}

func languageFromExt(path string) (tmplstrip.Language, error) {
	switch filepath.Ext(path) {
	case ".astro":
		return tmplstrip.LangAstro, nil
	case ".svelte":
		return tmplstrip.LangSvelte, nil
	default:
		return 0, fmt.Errorf("could not infer language from file extension: %s", filepath.Ext(path))
	}
}
