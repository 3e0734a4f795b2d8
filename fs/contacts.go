package fs

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/civsearch/civsearch"
)

// LoadContacts reads department contacts from a YAML file. The file holds
// a top-level "contacts" list; a missing file yields no contacts so answers
// simply omit the contact block.
func LoadContacts(path string) ([]civsearch.Contact, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading contacts file: %w", err)
	}

	var doc struct {
		Contacts []civsearch.Contact `yaml:"contacts"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, civsearch.Errorf(civsearch.EINVALID, "invalid contacts file %s: %v", path, err)
	}

	return doc.Contacts, nil
}
