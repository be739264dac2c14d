package value_objects

// Resource is a guarded area of the registry.
type Resource string

const (
	ResourceLicense     Resource = "license"
	ResourceApplication Resource = "application"
	ResourceSupport     Resource = "support"
	ResourceAnalytics   Resource = "analytics"
	ResourceSystem      Resource = "system"
)

func (r Resource) String() string {
	return string(r)
}
