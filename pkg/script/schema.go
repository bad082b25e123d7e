package script

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/haivivi/lincon/pkg/snapshot"
)

// Schema returns the JSON schema of a Script document.
func Schema() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[Script](&jsonschema.ForOptions{})
	if err != nil {
		return nil, fmt.Errorf("script: schema: %w", err)
	}
	if p := s.Properties["container"]; p != nil {
		for _, k := range snapshot.Kinds {
			p.Enum = append(p.Enum, string(k))
		}
	}
	if ops := s.Properties["ops"]; ops != nil && ops.Items != nil {
		if p := ops.Items.Properties["op"]; p != nil {
			for _, op := range AllOps() {
				p.Enum = append(p.Enum, op)
			}
		}
	}
	s.Title = "lincon script"
	return s, nil
}
