package models

// Tag is a label shared by any number of recipes. Recipes holds the names
// of the recipes carrying it when loaded for display.
type Tag struct {
	ID      int64
	Name    string
	Recipes []string
}
