package module

// Set is the insertion-ordered collection of all discovered modules, keyed
// by absolute path. It is owned by the build driver and passed by reference
// to the graph builder, level resolver, and rewrite engine; those stages run
// strictly sequentially, so the set needs no locking.
type Set struct {
	byPath map[string]*Module
	order  []*Module
}

// NewSet creates an empty module set.
func NewSet() *Set {
	return &Set{byPath: make(map[string]*Module)}
}

// Add inserts a module. Adding the same absolute path twice is a walk bug.
func (s *Set) Add(m *Module) {
	if _, exists := s.byPath[m.AbsPath]; exists {
		panic("module: duplicate descriptor for " + m.AbsPath)
	}
	s.byPath[m.AbsPath] = m
	s.order = append(s.order, m)
}

// Lookup returns the module registered under the given absolute path.
func (s *Set) Lookup(absPath string) (*Module, bool) {
	m, ok := s.byPath[absPath]
	return m, ok
}

// All returns the modules in discovery order. The returned slice is shared;
// callers must not mutate it.
func (s *Set) All() []*Module {
	return s.order
}

// Len returns the number of modules in the set.
func (s *Set) Len() int {
	return len(s.order)
}
