package compute

import "unsafe"

// Aligned returns a zeroed slice of n elements whose first element sits on
// an align-byte boundary. align must be a power of two. T must not contain
// pointers: the backing store is a byte slice the garbage collector does not
// scan.
func Aligned[T any](n, align int) []T {
	if n <= 0 {
		return nil
	}
	if align <= 0 || align&(align-1) != 0 {
		panic("compute: alignment must be a power of two")
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	buf := make([]byte, n*size+align)
	off := 0
	if rem := int(uintptr(unsafe.Pointer(&buf[0])) & uintptr(align-1)); rem != 0 {
		off = align - rem
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[off])), n)
}

// Misalignment returns the offset of the first element of s past the
// previous align-byte boundary.
func Misalignment[T any](s []T, align int) int {
	if len(s) == 0 {
		return 0
	}
	return int(uintptr(unsafe.Pointer(&s[0])) & uintptr(align-1))
}
