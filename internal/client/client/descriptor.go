package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
)

// LoadDescriptor reads a descriptor from a JSON file. The file may hold the
// descriptor itself (array or index-keyed object) or an object with a
// "descriptor" member, as the HTTP API accepts.
func LoadDescriptor(path string) (biometrics.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDescriptor(data)
}

func ParseDescriptor(data []byte) (biometrics.Descriptor, error) {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '{' {
		var wrapper struct {
			Descriptor json.RawMessage `json:"descriptor"`
		}
		if err := json.Unmarshal(data, &wrapper); err == nil && len(wrapper.Descriptor) > 0 {
			data = wrapper.Descriptor
		}
	}

	var d biometrics.Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if len(d) == 0 {
		return nil, fmt.Errorf("%w: empty descriptor", biometrics.ErrInvalidDescriptor)
	}
	return d, nil
}
