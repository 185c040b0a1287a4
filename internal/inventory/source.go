package inventory

// DependencySource supplies the declared dependency names to classify. Names
// are returned in declaration order and may repeat.
//
//go:generate go run go.uber.org/mock/mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks
type DependencySource interface {
	RequiredDependencyNames() []string
	DevDependencyNames() []string
}
