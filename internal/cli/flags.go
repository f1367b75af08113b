package cli

import (
	"github.com/spf13/pflag"

	"github.com/jmylchreest/atelier/internal/colour"
	"github.com/jmylchreest/atelier/internal/config"
)

// extractionOptions are the colour extraction flags shared by palette,
// analyze and match.
type extractionOptions struct {
	colours    int
	algorithm  string
	classifier string
}

func (o *extractionOptions) register(fs *pflag.FlagSet, withClassifier bool) {
	fs.IntVarP(&o.colours, "colours", "c", colour.DefaultColourCount, "number of dominant colours to extract (1-256)")
	fs.StringVarP(&o.algorithm, "algorithm", "a", string(colour.AlgorithmKMeans), "extraction algorithm (kmeans, prominent)")
	if withClassifier {
		fs.StringVar(&o.classifier, "classifier", config.ClassifierStatic, "trait classifier (static, genai)")
	}
}

// apply copies flags the user set onto cfg, leaving file and environment
// values in place otherwise.
func (o *extractionOptions) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("colours") {
		cfg.Extraction.Colours = o.colours
	}
	if fs.Changed("algorithm") {
		cfg.Extraction.Algorithm = o.algorithm
	}
	if fs.Changed("classifier") {
		cfg.Classifier.Type = o.classifier
	}
}

func (o *extractionOptions) config() colour.ExtractorConfig {
	return colour.ExtractorConfig{
		Algorithm:  colour.Algorithm(o.algorithm),
		ColorCount: o.colours,
	}
}
