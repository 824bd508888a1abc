package types

// NewTaskHandle builds the fixed record exposed as the `task` variable in
// a WDL 1.2 command/output section. The member set mirrors the language's
// own fixed task-handle shape (name, id, container, and the runtime
// attributes it reports back); spec.md §3.1 names the task-handle kind
// but does not enumerate its members, so this fills that gap per
// SPEC_FULL.md §11.
func NewTaskHandle() *Type {
	return &Type{
		kind: TaskHandle,
		members: []Member{
			{Name: "name", Type: TString},
			{Name: "id", Type: TString},
			{Name: "container", Type: TString},
			{Name: "cpu", Type: TFloat},
			{Name: "memory", Type: TInt},
			{Name: "gpu", Type: NewArray(TString, false)},
			{Name: "fpga", Type: NewArray(TString, false)},
			{Name: "disks", Type: NewMap(TString, TInt)},
			{Name: "attempt", Type: TInt},
			{Name: "end_time", Type: TInt.Optional()},
			{Name: "return_code", Type: TInt.Optional()},
			{Name: "meta", Type: TObject},
			{Name: "parameter_meta", Type: TObject},
			{Name: "ext", Type: TObject},
		},
	}
}
