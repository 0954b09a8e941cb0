package ecs

import "reflect"

// fieldAccess is one (type, mode) pair in a system's descriptor: the
// scheduler's unit of conflict detection.
type fieldAccess struct {
	typ       reflect.Type
	exclusive bool
}

// conflictsWith reports whether a and b must not run concurrently:
// they name the same type and at least one of them is exclusive.
func (a fieldAccess) conflictsWith(b fieldAccess) bool {
	return a.typ == b.typ && (a.exclusive || b.exclusive)
}

// Descriptor summarizes everything a system's parameters read or
// write. Two systems may run concurrently iff no pair of their
// descriptors' fieldAccess entries conflict.
type Descriptor struct {
	accesses []fieldAccess
}

func mergeDescriptors(ds ...Descriptor) Descriptor {
	var out Descriptor
	for _, d := range ds {
		out.accesses = append(out.accesses, d.accesses...)
	}
	return out
}

// conflictsWith reports whether any access in d conflicts with any
// access in other.
func (d Descriptor) conflictsWith(other Descriptor) bool {
	for _, a := range d.accesses {
		for _, b := range other.accesses {
			if a.conflictsWith(b) {
				return true
			}
		}
	}
	return false
}
