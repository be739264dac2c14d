package value_objects

type Action string

const (
	ActionRead     Action = "read"
	ActionWrite    Action = "write"
	ActionDelete   Action = "delete"
	ActionValidate Action = "validate"
)

func (a Action) String() string {
	return string(a)
}
