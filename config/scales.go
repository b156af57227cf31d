package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"go-clockwork/engine"
)

// UserScale is one custom quantizer scale as written in scales.yml:
//
//	- name: My Fifths
//	  notes: [0, 7]
//
// notes are semitone offsets from C in [0,11].
type UserScale struct {
	Name  string `yaml:"name"`
	Notes []int  `yaml:"notes"`
}

// LoadScales reads <config dir>/scales.yml, if present, and registers
// every scale it defines with the engine's scale table. Returns the
// number of scales added. A missing file is not an error.
func LoadScales() (int, error) {
	dir, err := Dir()
	if err != nil {
		return 0, nil
	}

	data, err := os.ReadFile(filepath.Join(dir, "scales.yml"))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	var scales []UserScale
	if err := yaml.Unmarshal(data, &scales); err != nil {
		return 0, fmt.Errorf("scales.yml: %w", err)
	}

	added := 0
	for _, us := range scales {
		if us.Name == "" || len(us.Notes) == 0 {
			continue
		}
		sc := engine.Scale{Name: us.Name}
		ok := true
		for _, n := range us.Notes {
			if n < 0 || n >= engine.SemitonesPerOctave {
				ok = false
				break
			}
			sc.Notes[n] = true
		}
		if !ok {
			continue
		}
		engine.AddScale(sc)
		added++
	}
	return added, nil
}
