package annotation

// Limits bounds the size of what can be loaded. They are checked before any
// structural parsing takes place.
type Limits struct {
	// Maximum tokens in a single document (sentence)
	MaxSentLength int `yaml:"max_sent_length"`

	// Maximum characters in a single token
	MaxWordLength int `yaml:"max_word_length"`

	// Maximum documents in a dataset
	MaxRows int `yaml:"max_rows"`

	// Maximum distinct values for a structured field to be considered
	// categorical
	MaxCategories int `yaml:"max_categories"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxSentLength: 100,
		MaxWordLength: 100,
		MaxRows:       2000,
		MaxCategories: 20,
	}
}
