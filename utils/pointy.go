package utils

import (
	"unsafe"
)

// PointyIntToPointUint64 converts *int to *uint64.
func PointyIntToPointUint64(x *int) *uint64 {
	/* #nosec G103 -- behavior and consequences well understood */
	return (*uint64)(unsafe.Pointer(uintptr(unsafe.Pointer(x))))
}
