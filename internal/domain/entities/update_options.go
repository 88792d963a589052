package entities

// UpdateOptions holds runtime options passed to the pipeline.
type UpdateOptions struct {
	DryRun       bool
	Verbose      bool
	TargetBranch string
	Ecosystems   []Ecosystem // empty means every enabled ecosystem
}

// Allows reports whether the ecosystem passes the CLI filter.
func (o UpdateOptions) Allows(ecosystem Ecosystem) bool {
	if len(o.Ecosystems) == 0 {
		return true
	}
	for _, e := range o.Ecosystems {
		if e == ecosystem {
			return true
		}
	}
	return false
}
