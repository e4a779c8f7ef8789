package value

// ForeignValue backs KindForeign: an opaque host-registered custom type
// (spec §4.2 "Custom types"). It can either own its payload outright or
// borrow it from the host for the duration of a single native call; a
// borrowed value carries the generation counter it was minted with, and
// AsForeign refuses to hand it back once that generation has been
// invalidated (spec §4.2 "Borrowed values do not outlive their call").
type ForeignValue struct {
	TypeName string
	payload  any
	borrowed bool
	gen      uint64
	current  *uint64
}

// NewForeign wraps payload as an owned foreign value with no borrow
// lifetime restriction.
func NewForeign(typeName string, payload any) *ForeignValue {
	return &ForeignValue{TypeName: typeName, payload: payload}
}

// NewBorrowedForeign wraps payload as a value borrowed from the host.
// current is the generation counter supplied by the caller (spec §4.2);
// gen is the snapshot taken at borrow time.
func NewBorrowedForeign(typeName string, payload any, gen uint64, current *uint64) *ForeignValue {
	return &ForeignValue{TypeName: typeName, payload: payload, borrowed: true, gen: gen, current: current}
}

func (fv *ForeignValue) alive() bool {
	if !fv.borrowed {
		return true
	}
	return fv.current != nil && *fv.current == fv.gen
}

func (fv *ForeignValue) Payload() any { return fv.payload }

func (fv *ForeignValue) IsBorrowed() bool { return fv.borrowed }
