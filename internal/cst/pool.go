package cst

import "sync"

// pools holds one *sync.Pool of *TreeSitterParser per language. Go has no
// thread-locals and goroutines are not bound to OS threads, so a per-thread
// cache (as the original parser held one lazily-initialized parser per
// thread) is realized here as a sync.Pool: Get either reuses an idle parser
// or constructs one on demand, and Put returns it once the caller is done.
// The expensive grammar-table load happens once per pooled parser, not once
// per call.
var pools = [...]*sync.Pool{
	LangAstro:  {New: func() any { return newPooledParser(LangAstro) }},
	LangSvelte: {New: func() any { return newPooledParser(LangSvelte) }},
}

func newPooledParser(l Lang) any {
	lang, err := grammarFor(l)
	if err != nil {
		return err
	}
	p, err := NewTreeSitterParser(lang)
	if err != nil {
		return err
	}
	return p
}

// Acquire returns a parser for l, reusing a pooled one when available.
// Release must be called (typically via defer) once the caller is done
// with the returned parser.
func Acquire(l Lang) (*TreeSitterParser, func(), error) {
	if l != LangAstro && l != LangSvelte {
		return nil, func() {}, ErrUnsupportedLanguage
	}
	pool := pools[l]
	v := pool.Get()
	switch p := v.(type) {
	case *TreeSitterParser:
		release := func() { pool.Put(p) }
		return p, release, nil
	case error:
		return nil, func() {}, p
	default:
		return nil, func() {}, ErrUnsupportedLanguage
	}
}

// Parse parses src with the pooled parser for l.
func Parse(l Lang, src []byte) (Tree, error) {
	p, release, err := Acquire(l)
	if err != nil {
		return nil, err
	}
	defer release()
	return p.Parse(src)
}
