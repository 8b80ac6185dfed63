package archive

import "fmt"

// Array reads a count-prefixed array, decoding each element with fn.
// minSize is the smallest serialized element size, used to reject corrupt counts early.
func Array[T any](r *Reader, minSize int, fn func(*Reader) T) []T {
	n := r.Count(minSize)
	if n == 0 {
		return nil
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v := fn(r)
		if r.err != nil {
			return nil
		}
		out = append(out, v)
	}
	return out
}

// BulkArray reads an array stored with an explicit element size. Each element must
// decode to exactly that many bytes.
func BulkArray[T any](r *Reader, fn func(*Reader) T) []T {
	at := r.off
	elemSize := int(r.I32())
	if r.err != nil {
		return nil
	}
	if elemSize <= 0 {
		n := r.Count(0)
		if n != 0 {
			r.Fail(fmt.Errorf("archive: bulk array at offset %d has element size %d and %d elements", at, elemSize, n))
		}
		return nil
	}
	n := r.Count(elemSize)
	if n == 0 {
		return nil
	}
	start := r.off
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v := fn(r)
		if r.err != nil {
			return nil
		}
		out = append(out, v)
	}
	if got := r.off - start; got != elemSize*n {
		r.Fail(fmt.Errorf("archive: bulk array at offset %d: decoded %d bytes, expected %d x %d", at, got, n, elemSize))
		return nil
	}
	return out
}

// BulkBytes reads a bulk array of single bytes.
func BulkBytes(r *Reader) []byte {
	at := r.off
	elemSize := int(r.I32())
	n := r.Count(1)
	if r.err != nil {
		return nil
	}
	if n != 0 && elemSize != 1 {
		r.Fail(fmt.Errorf("archive: byte bulk array at offset %d has element size %d", at, elemSize))
		return nil
	}
	return r.Bytes(n)
}

// SkipArray skips a count-prefixed array of fixed-size elements.
func SkipArray(r *Reader, elemSize int) int {
	n := r.Count(elemSize)
	r.Skip(n * elemSize)
	return n
}

// SkipBulkArray skips a bulk array and returns its element count.
func SkipBulkArray(r *Reader) int {
	elemSize := int(r.I32())
	if elemSize < 0 {
		r.Fail(fmt.Errorf("archive: negative bulk element size %d", elemSize))
		return 0
	}
	n := r.Count(elemSize)
	r.Skip(n * elemSize)
	return n
}

// Map reads a count-prefixed key/value map, decoding each pair with fn.
func Map(r *Reader, minSize int, fn func(*Reader)) int {
	n := r.Count(minSize)
	for i := 0; i < n && r.err == nil; i++ {
		fn(r)
	}
	return n
}
