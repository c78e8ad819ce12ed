package assets

// LoadStyle reads a built-in stylesheet.
func LoadStyle(name string) (string, error) {
	return readBuiltin(styleKind, name)
}

// LoadTemplate reads a built-in HTML template.
func LoadTemplate(name string) (string, error) {
	return readBuiltin(templateKind, name)
}
