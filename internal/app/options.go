package app

import "time"

// Option configures a service at construction.
type Option func(*options)

type options struct {
	now   func() time.Time
	codes CodeGenerator
}

// WithClock overrides "today" for date checks and the timestamps of new records.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCodeGenerator replaces the random confirmation code source.
func WithCodeGenerator(gen CodeGenerator) Option {
	return func(o *options) { o.codes = gen }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, codes: RandomConfirmationCode}
	for _, apply := range opts {
		if apply != nil {
			apply(&o)
		}
	}
	return o
}
