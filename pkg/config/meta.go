package config

// Meta holds information about the program
type Meta struct {
	ID      string
	Name    string
	Desc    string
	URL     string
	Author  string
	Version string
}
