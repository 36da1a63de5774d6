package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KeyBinding maps a physical key name (as reported by the input adapter,
// e.g. "ArrowUp", "w", "Escape") to a logical word such as "move-up".
type KeyBinding struct {
	Key  string `yaml:"key"`
	Word string `yaml:"word"`
}

type keyListFile struct {
	Keys []KeyBinding `yaml:"keys"`
}

// KeyTable resolves physical keys to logical words.
type KeyTable struct {
	words    map[string]string
	bindings []KeyBinding
}

// LoadKeyTable loads key bindings from a YAML file.
func LoadKeyTable(path string) (*KeyTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key_list: %w", err)
	}
	var f keyListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse key_list: %w", err)
	}
	return NewKeyTable(f.Keys), nil
}

func NewKeyTable(bindings []KeyBinding) *KeyTable {
	t := &KeyTable{words: make(map[string]string, len(bindings)), bindings: bindings}
	for _, b := range bindings {
		t.words[b.Key] = b.Word
	}
	return t
}

// Word returns the logical word for key, or "" when unbound.
func (t *KeyTable) Word(key string) string {
	return t.words[key]
}

// Bindings returns the bindings in file order.
func (t *KeyTable) Bindings() []KeyBinding {
	return t.bindings
}

func (t *KeyTable) Count() int {
	return len(t.words)
}
