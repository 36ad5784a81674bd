// Package config defines the format-agnostic configuration model for a build
// run, along with the Loader interface for reading it from a file. Concrete
// implementations, such as for HCL, live in separate packages.
package config
