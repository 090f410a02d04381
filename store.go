package imap

// StoreFlagsOp is a flag operation: set, add or delete.
type StoreFlagsOp int

const (
	StoreFlagsSet StoreFlagsOp = iota
	StoreFlagsAdd
	StoreFlagsDel
)

// String returns the item name prefix: "", "+" or "-".
func (op StoreFlagsOp) String() string {
	switch op {
	case StoreFlagsAdd:
		return "+"
	case StoreFlagsDel:
		return "-"
	default:
		return ""
	}
}

// StoreFlags alters message flags.
type StoreFlags struct {
	Op     StoreFlagsOp
	Silent bool
	Flags  []Flag
}
