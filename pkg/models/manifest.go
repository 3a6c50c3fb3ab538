package models

// ManifestSet holds the paths of the files written by one manifest
// synthesis. Files are written once per play session, named by program id,
// and never mutated after creation. Cleanup is owned by storage
// housekeeping, not by this engine.
type ManifestSet struct {
	ProgramID          string            `json:"programId"`
	VideoManifestPath  string            `json:"videoManifestPath"`
	AudioManifestPaths map[string]string `json:"audioManifestPaths"` // language code -> path
	MainManifestPath   string            `json:"mainManifestPath"`
}
