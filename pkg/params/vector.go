package params

import "fmt"

// Vector holds one value per parameter, index-aligned with the schema
type Vector [Count]int

// Defaults returns a vector seeded with every parameter's default
func Defaults() Vector {
	var v Vector
	for i, p := range schema {
		v[i] = p.Default
	}
	return v
}

// Get returns the value of parameter id
func (v *Vector) Get(id ID) int {
	return v[id]
}

// Set stores value, clamped to the parameter's range
func (v *Vector) Set(id ID, value int) {
	v[id] = schema[id].Clamp(value)
}

// SetBool stores 1 for true and 0 for false
func (v *Vector) SetBool(id ID, b bool) {
	if b {
		v.Set(id, 1)
	} else {
		v.Set(id, 0)
	}
}

// Validate reports the first value outside its parameter's range
func (v *Vector) Validate() error {
	for i, p := range schema {
		if v[i] < p.Min || v[i] > p.Max {
			return fmt.Errorf("parameter %s = %d, outside [%d, %d]", p.Symbol, v[i], p.Min, p.Max)
		}
	}
	return nil
}

// Values returns the vector as a slice
func (v *Vector) Values() []int {
	out := make([]int, Count)
	copy(out, v[:])
	return out
}
