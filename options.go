package clipweave

import "github.com/go-playground/validator/v10"

// Options configures an Engine (the ambient "configuration" concern —
// mirrors the teacher's ConfigOptions/Configure shape, generalized past a
// single filesystem loader path since this engine never loads templates
// from disk itself).
type Options struct {
	// CacheSize bounds the compile cache (§9 "bounded LRU of a few dozen
	// entries"). Zero falls back to DefaultCacheSize.
	CacheSize int `validate:"gte=0"`
}

const DefaultCacheSize = 64

var validate = validator.New()

func (o Options) withDefaults() Options {
	if o.CacheSize <= 0 {
		o.CacheSize = DefaultCacheSize
	}
	return o
}

func (o Options) validateSelf() error {
	return wrapf(validate.Struct(o), "invalid engine options")
}
