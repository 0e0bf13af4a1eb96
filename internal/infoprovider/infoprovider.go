package infoprovider

// InfoProvider resolves the roles held by a subject.
type InfoProvider interface {
	GetRoles(id string) ([]string, error)
}
