package analysis

import (
	"fmt"
	"sort"
)

// Analysis describes one canned streaming analysis over the tweet dataset.
// The mapper/reducer pair is shared; ANALYSIS_TYPE selects the behavior.
type Analysis struct {
	Name        string
	Description string
	// EnvType is the ANALYSIS_TYPE value exported to the streaming commands.
	EnvType string
	// OutputDir is the subdirectory under the HDFS output base.
	OutputDir string
	// ResultFile is the friendly name the job's part-file is renamed to.
	ResultFile string
}

var registry = make(map[string]Analysis)

func Register(a Analysis) error {
	if _, exists := registry[a.Name]; exists {
		return fmt.Errorf("analysis already registered: %s", a.Name)
	}
	registry[a.Name] = a
	return nil
}

func Get(name string) (Analysis, error) {
	a, exists := registry[name]
	if !exists {
		return Analysis{}, fmt.Errorf("analysis not found: %s", name)
	}
	return a, nil
}

func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	for _, a := range []Analysis{
		{
			Name:        "sentiment",
			Description: "positive/negative/neutral tweet counts per month",
			EnvType:     "sentiment",
			OutputDir:   "sentiment",
			ResultFile:  "sentiment_results.txt",
		},
		{
			Name:        "geography",
			Description: "tweet counts per city and coordinate pair per month",
			EnvType:     "geography",
			OutputDir:   "geography",
			ResultFile:  "geography_results.txt",
		},
		{
			Name:        "hashtags",
			Description: "top trending hashtags per month",
			EnvType:     "hashtags",
			OutputDir:   "hashtags",
			ResultFile:  "hashtag_results.txt",
		},
	} {
		if err := Register(a); err != nil {
			panic(err)
		}
	}
}
