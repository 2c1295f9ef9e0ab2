package selector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xpath"
)

var knownEngines = map[string]bool{
	"css": true, "xpath": true, "text": true, "id": true,
	"data-testid": true, "data-test-id": true, "data-test": true,
	"nth": true, "visible": true,
	"internal:control": true, "internal:has-text": true, "internal:has-not-text": true,
	"internal:text": true, "internal:label": true, "internal:attr": true,
	"internal:testid": true, "internal:role": true, "internal:describe": true,
	"aria-ref": true,
}

// Validate checks p beyond what Parse requires: engine names must be known,
// xpath bodies must compile and structured bodies must decode.
func Validate(p *Parsed) error {
	var firstErr error
	VisitParts(p, func(part Part) {
		if firstErr != nil {
			return
		}
		firstErr = validatePart(part)
	})
	return firstErr
}

func validatePart(part Part) error {
	if !knownEngines[part.Name] && !nestedNames[part.Name] {
		return newError("Unknown engine %q while parsing selector %s", part.Name, StringifyPart(part, true))
	}
	switch part.Name {
	case "xpath":
		if _, err := xpath.Compile(part.Source); err != nil {
			return fmt.Errorf("%w: xpath %q: %v", ErrInvalidSelector, part.Source, err)
		}
	case "nth":
		if _, err := strconv.Atoi(strings.TrimSpace(part.Source)); err != nil {
			return newError("Malformed selector: nth=%s", part.Source)
		}
	case "visible":
		if s := strings.TrimSpace(part.Source); s != "true" && s != "false" {
			return newError("Malformed selector: visible=%s", part.Source)
		}
	case "internal:role", "internal:attr", "internal:testid":
		if _, err := ParseAttributeSelector(part.Source, true); err != nil {
			return err
		}
	}
	return nil
}
