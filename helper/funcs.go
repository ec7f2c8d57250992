// Package helper collects small generic utilities shared across packages.
package helper

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/hashstructure"
)

// ordered is the set of types Max/Min and Clamp operate over: every
// numeric type a sampled draw or a conditioning key can take.
type ordered interface {
	~int | ~int64 | ~float64
}

// Max returns the largest of a variable length list of values.
func Max[T ordered](values ...T) T {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Min returns the smallest of a variable length list of values.
func Min[T ordered](values ...T) T {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Clamp restricts v to [lo, hi].
func Clamp[T ordered](v, lo, hi T) T {
	return Max(lo, Min(v, hi))
}

// HasObjectChanged compares two objects by structural hash to determine
// if they differ, without needing a type-specific Equal method.
func HasObjectChanged(objectA, objectB interface{}) (changed bool, err error) {
	objectAHash, err := hashstructure.Hash(objectA, nil)
	if err != nil {
		return false, fmt.Errorf("error hashing first object %v of type %v: %v",
			objectA, reflect.TypeOf(objectA), err)
	}

	objectBHash, err := hashstructure.Hash(objectB, nil)
	if err != nil {
		return false, fmt.Errorf("error hashing second object %v of type %v: %v",
			objectB, reflect.TypeOf(objectB), err)
	}

	return objectAHash != objectBHash, nil
}
