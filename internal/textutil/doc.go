// Package textutil normalises user-supplied names for safe filesystem use.
package textutil
