package locator

import (
	"encoding/json"
	"fmt"
)

// jsonlFactory describes the call chain as a linked JSON object for
// machine consumers instead of source text.
type jsonlFactory struct{}

type jsonlCall struct {
	Kind    Kind    `json:"kind"`
	Body    Body    `json:"body"`
	Options Options `json:"options"`
}

// jsonlNode keeps already-encoded fields verbatim while relinking.
type jsonlNode struct {
	Kind    json.RawMessage `json:"kind"`
	Body    json.RawMessage `json:"body"`
	Options json.RawMessage `json:"options"`
	Next    *jsonlNode      `json:"next,omitempty"`
}

func (f *jsonlFactory) GenerateLocator(base Base, kind Kind, body Body, opts Options) string {
	data, err := json.Marshal(jsonlCall{Kind: kind, Body: body, Options: opts})
	if err != nil {
		panic(fmt.Sprintf("encoding %s locator: %v", kind, err))
	}
	return string(data)
}

func (f *jsonlFactory) ChainLocators(locators []string) string {
	if len(locators) == 0 {
		return ""
	}
	nodes := make([]*jsonlNode, len(locators))
	for i, l := range locators {
		nodes[i] = &jsonlNode{}
		if err := json.Unmarshal([]byte(l), nodes[i]); err != nil {
			panic(fmt.Sprintf("decoding locator %q: %v", l, err))
		}
	}
	// a locator may already be a chain (a frame descent), so link at its tail
	for i := 0; i < len(nodes)-1; i++ {
		tail := nodes[i]
		for tail.Next != nil {
			tail = tail.Next
		}
		tail.Next = nodes[i+1]
	}
	data, err := json.Marshal(nodes[0])
	if err != nil {
		panic(fmt.Sprintf("encoding locator chain: %v", err))
	}
	return string(data)
}
