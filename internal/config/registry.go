package config

// Registry is an insertion-ordered mapping from prompt name to PromptSpec.
// It is built once during a load and read-only afterwards.
type Registry struct {
	names []string
	specs map[string]*PromptSpec
}

func newRegistry() *Registry {
	return &Registry{specs: make(map[string]*PromptSpec)}
}

// insert adds or replaces a prompt definition. When a prior entry exists its
// spec is returned so the caller can report the override; the name keeps its
// original position in the ordering.
func (r *Registry) insert(name string, spec *PromptSpec) (prev *PromptSpec) {
	prev, exists := r.specs[name]
	if !exists {
		r.names = append(r.names, name)
	}
	r.specs[name] = spec
	return prev
}

// Get returns the spec for name, or nil when the prompt is unknown.
func (r *Registry) Get(name string) *PromptSpec {
	return r.specs[name]
}

// Names returns the prompt names in registry order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Len reports the number of registered prompts.
func (r *Registry) Len() int {
	return len(r.names)
}
