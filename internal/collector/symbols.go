package collector

import "strings"

// Symbol is a known Taiwan stock code and its display name.
type Symbol struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Symbols resolves user input to Yahoo symbols. The table is read-only after construction.
type Symbols struct {
	list         []Symbol
	names        map[string]string
	marketSuffix string
	otcSuffix    string
}

// NewSymbols builds a symbol book. marketSuffix is appended to bare codes
// (".TW"); otcSuffix (".TWO") is the fallback for codes not in the table.
func NewSymbols(list []Symbol, marketSuffix, otcSuffix string) *Symbols {
	s := &Symbols{
		list:         append([]Symbol(nil), list...),
		names:        make(map[string]string, len(list)),
		marketSuffix: marketSuffix,
		otcSuffix:    otcSuffix,
	}
	for _, sym := range list {
		s.names[sym.Code] = sym.Name
	}
	return s
}

// List returns the known symbols in display order.
func (s *Symbols) List() []Symbol {
	return append([]Symbol(nil), s.list...)
}

// Known reports whether code is in the table.
func (s *Symbols) Known(code string) bool {
	_, ok := s.names[code]
	return ok
}

// Name returns the display name for code, or code itself when unknown.
func (s *Symbols) Name(code string) string {
	if name, ok := s.names[code]; ok && name != "" {
		return name
	}
	return code
}

// Resolve normalises input and returns the bare code plus the Yahoo symbols to
// try in order. Input that already carries a suffix is used as-is.
func (s *Symbols) Resolve(input string) (code string, candidates []string) {
	input = strings.ToUpper(strings.TrimSpace(input))
	if input == "" {
		return "", nil
	}
	if i := strings.Index(input, "."); i > 0 {
		return input[:i], []string{input}
	}
	candidates = []string{input + s.marketSuffix}
	if !s.Known(input) && s.otcSuffix != "" && s.otcSuffix != s.marketSuffix {
		candidates = append(candidates, input+s.otcSuffix)
	}
	return input, candidates
}
