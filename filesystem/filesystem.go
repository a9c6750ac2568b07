// Package filesystem holds the afero backend every package reads and writes through.
// Tests switch it to memory with SetMemMapFs.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

func API() afero.Afero {
	return backend
}

// ReadOnly returns the backend refusing writes. Extension packages are read through it.
func ReadOnly() afero.Fs {
	return afero.NewReadOnlyFs(backend.Fs)
}

func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}
