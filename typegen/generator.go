package typegen

// Generator defines the interface for output format generators.
// Each format (Cap'n Proto IDL, JSON model dump, YAML model dump) implements it.
type Generator interface {
	// GenerateFile creates a complete output file from one package's definitions
	GenerateFile(result *Result) (string, error)

	// FileExtension returns the file extension for this format (e.g., "capnp", "json")
	FileExtension() string

	// Language returns the format name (e.g., "capnp")
	Language() string
}
