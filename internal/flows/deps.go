package flows

// Settings carries the resolved per-call field configuration.
type Settings struct {
	RecordType          string
	IdentityField       string
	PasswordField       string
	HashedPasswordField string
}

// Deps groups flow dependency sets. Root engine builds this once and
// delegates request methods to the matching flow implementation.
type Deps struct {
	Auth  AuthDeps
	Stage StageDeps
}
