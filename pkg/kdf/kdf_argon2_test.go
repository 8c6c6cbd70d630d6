//go:build !scrypt

package kdf

func validParams() Params {
	return Params{P1: 14, P2: 2, P3: 1}
}
