package employee

// Employee maps an opaque employee ID to the username issued by the identity provider.
type Employee struct {
	ID       string
	Username string
}
