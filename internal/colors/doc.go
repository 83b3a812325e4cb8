// Package colors loads the static color lookup table used when normalizing
// provider part lists into set metadata.
package colors
