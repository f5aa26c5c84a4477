package common

// RemoveSingleQuotesIfAny strips one pair of surrounding single quotes. Terminals wrap drag-and-dropped paths with
// spaces in them as '/tmp/my cat.png'.
func RemoveSingleQuotesIfAny(str string) string {
	return removeSurrounding(str, '\'')
}

// RemoveDoubleQuotesIfAny strips one pair of surrounding double quotes ("C:\My Pictures\cat.png").
func RemoveDoubleQuotesIfAny(str string) string {
	return removeSurrounding(str, '"')
}

func removeSurrounding(str string, quote byte) string {
	if len(str) >= 2 && str[0] == quote && str[len(str)-1] == quote {
		return str[1 : len(str)-1]
	}
	return str
}
