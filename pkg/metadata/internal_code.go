package metadata

import (
	"strings"
)

type InternalCode struct {
	init     string
	category string
	id       string
}

const Init string = "CNT"

const internalCodeSuffixLength = 4

func (c *InternalCode) Generate() string {
	return c.init + "-" + c.category + "-" + c.id
}

// NewInternalCode derives the yard code from the container type and the last
// alphanumeric characters of the container number.
func NewInternalCode(typeCode string, containerNumber string) InternalCode {
	var code InternalCode

	code.init = Init
	code.category = strings.ToUpper(strings.TrimSpace(typeCode))

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, strings.ToUpper(containerNumber))
	if len(cleaned) > internalCodeSuffixLength {
		cleaned = cleaned[len(cleaned)-internalCodeSuffixLength:]
	}
	code.id = cleaned

	return code
}
