package entities

// Ecosystem identifies a package-management grammar (manifest syntax plus registry).
type Ecosystem string

const (
	EcosystemNpm       Ecosystem = "npm"
	EcosystemPython    Ecosystem = "python"
	EcosystemGo        Ecosystem = "go"
	EcosystemTerraform Ecosystem = "terraform"
)

func (e Ecosystem) String() string { return string(e) }

// ManifestFile identifies one dependency declaration file read from a repository.
// It is treated as immutable: WithContent returns a new value for write-back.
type ManifestFile struct {
	Path      string
	Ecosystem Ecosystem
	Content   string
}

// WithContent returns a copy of the manifest carrying the rewritten content.
func (m ManifestFile) WithContent(content string) ManifestFile {
	return ManifestFile{Path: m.Path, Ecosystem: m.Ecosystem, Content: content}
}

// FileKind is the human-readable label used in reports, e.g. "package.json (npm)".
func (m ManifestFile) FileKind() string {
	return m.Path + " (" + m.Ecosystem.String() + ")"
}
