package tasks

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ManifestConfig is the on-disk shape of a task manifest file: a list of
// task overrides layered on top of DefaultRegistry(). Grounded on the
// reference pack's agents-manifest.yaml shape, re-expressed in TOML to match
// this module's own config-file convention.
type ManifestConfig struct {
	Tasks []TaskConfig `toml:"task"`
}

// TaskConfig describes one entry in a manifest file. Kind selects which
// constructor in catalog.go to use; fields not relevant to Kind are ignored.
type TaskConfig struct {
	Kind    string `toml:"kind"`
	Name    string `toml:"name"`
	Base    int    `toml:"base"`
	MinLen  int    `toml:"min_len"`
	MaxLen  int    `toml:"max_len"`
	N       int    `toml:"n"`
	Seed    int64  `toml:"seed"`
	HalfLen int    `toml:"half_len"`
	MaxMoves int   `toml:"max_moves"`
}

// LoadManifest reads and parses a TOML task manifest file.
func LoadManifest(path string) (*ManifestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var manifest ManifestConfig
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest toml: %w", err)
	}
	return &manifest, nil
}

// RegistryFromManifest builds a registry containing exactly the tasks named
// in the manifest, constructed via the matching catalog.go constructor.
func RegistryFromManifest(manifestPath string) (*Registry, error) {
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	for _, tc := range manifest.Tasks {
		t, err := buildFromConfig(tc)
		if err != nil {
			return nil, err
		}
		r.Register(t)
	}
	return r, nil
}

func buildFromConfig(tc TaskConfig) (Task, error) {
	switch tc.Kind {
	case "echo":
		return NewEchoTask(tc.Base, tc.MinLen, tc.MaxLen, tc.N, tc.Seed), nil
	case "reverse":
		return NewReverseTask(tc.Base, tc.MinLen, tc.MaxLen, tc.N, tc.Seed), nil
	case "remove-char":
		return NewRemoveCharTask(tc.Base, tc.MinLen, tc.MaxLen, tc.N, tc.Seed), nil
	case "count-char":
		return NewCountOccurrencesTask(tc.Base, tc.MinLen, tc.MaxLen, tc.N, tc.Seed), nil
	case "add":
		return NewAddModBaseTask(tc.Base, tc.N, tc.Seed), nil
	case "shift-left":
		return NewShiftLeftTask(tc.Base, tc.MinLen, tc.MaxLen, tc.N, tc.Seed), nil
	case "shift-right":
		return NewShiftRightTask(tc.Base, tc.MinLen, tc.MaxLen, tc.N, tc.Seed), nil
	case "length":
		return NewLengthTask(tc.Base, tc.MinLen, tc.MaxLen, tc.N, tc.Seed), nil
	case "multiply":
		return NewMultiplyTask(tc.Base, tc.N, tc.Seed), nil
	case "divmod":
		return NewDivModTask(tc.Base, tc.N, tc.Seed), nil
	case "divide-2":
		return NewDivideByTwoTask(tc.Base, tc.N, tc.Seed), nil
	case "dedup":
		return NewDedupTask(tc.Base, tc.MinLen, tc.MaxLen, tc.N, tc.Seed), nil
	case "fib":
		return NewFibonacciPairsTask(tc.Base, tc.N), nil
	case "count-down":
		return NewBottlesOfBeerTask(tc.Base, []int{tc.N}), nil
	case "riffle":
		return NewRiffleTask(tc.Base, tc.HalfLen, tc.N, tc.Seed), nil
	case "unriffle":
		return NewUnriffleTask(tc.Base, tc.HalfLen, tc.N, tc.Seed), nil
	case "substring":
		return NewSubstringTask(tc.Base, tc.MaxLen, tc.N, tc.Seed), nil
	case "circle-route":
		return NewJudgeRouteCircleTask(tc.N, tc.MaxMoves, tc.Seed), nil
	case "bool-logic":
		return NewBooleanTruthTableTask(), nil
	case "print-hello":
		return NewPrintTask(tc.Name, tc.Base, []int{8, 5, 12, 12, 15}), nil
	default:
		return nil, fmt.Errorf("unknown task kind: %s", tc.Kind)
	}
}
